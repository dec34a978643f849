package genai

// Content is one turn of a conversation: a role plus an ordered list of parts.
type Content struct {
	Role  string // "user" | "model"
	Parts []Part
}

// Part is one unit inside a turn. At most one of Text, FunctionCall,
// FunctionResponse is meaningful; Thought marks a text part as reasoning.
type Part struct {
	Text             string
	Thought          bool
	FunctionCall     *FunctionCall
	FunctionResponse *FunctionResponse
}

// FunctionCall is a model-issued tool invocation inside a turn.
// ID may be empty; adapters synthesize one when the wire format requires it.
type FunctionCall struct {
	ID   string
	Name string
	Args map[string]any
}

// FunctionResponse is a tool execution result fed back to the model.
type FunctionResponse struct {
	ID       string
	Name     string
	Response map[string]any
}

// TextPart builds a plain text part.
func TextPart(text string) Part { return Part{Text: text} }

// FunctionCallPart builds a tool invocation part.
func FunctionCallPart(id, name string, args map[string]any) Part {
	return Part{FunctionCall: &FunctionCall{ID: id, Name: name, Args: args}}
}

// FunctionResponsePart builds a tool result part.
func FunctionResponsePart(id, name string, response map[string]any) Part {
	return Part{FunctionResponse: &FunctionResponse{ID: id, Name: name, Response: response}}
}

// FunctionDeclaration describes a tool available to the model.
type FunctionDeclaration struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON Schema object
}

// GenerationConfig carries per-request sampling parameters.
type GenerationConfig struct {
	Temperature     *float64
	TopP            *float64
	MaxOutputTokens int
	StopSequences   []string
}

// Request is the backend-agnostic generation request.
type Request struct {
	Model             string
	SystemInstruction []string // joined with newline into one system message
	Contents          []Content
	Tools             []FunctionDeclaration
	Config            GenerationConfig
}

// Response is a complete, non-streaming generation result.
type Response struct {
	Parts        []Part
	ToolCalls    []ToolCallRequest
	FinishReason FinishReason
	Usage        Usage
}

// Text concatenates the non-thought text parts of the response.
func (r *Response) Text() string {
	var out string
	for _, p := range r.Parts {
		if p.Text != "" && !p.Thought {
			out += p.Text
		}
	}
	return out
}

// EmbedRequest asks for embedding vectors for each input text.
type EmbedRequest struct {
	Model string
	Texts []string
}
