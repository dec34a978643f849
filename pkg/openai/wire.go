package openai

// CompletionRequest maps to an OpenAI-compatible /v1/chat/completions body.
type CompletionRequest struct {
	Model         string           `json:"model"`
	Messages      []ChatMessage    `json:"messages"`
	Tools         []ToolDefinition `json:"tools,omitempty"`
	Stream        bool             `json:"stream"`
	MaxTokens     int              `json:"max_tokens,omitempty"`
	Temperature   *float64         `json:"temperature,omitempty"`
	TopP          *float64         `json:"top_p,omitempty"`
	Stop          []string         `json:"stop,omitempty"`
	StreamOptions *StreamOptions   `json:"stream_options,omitempty"`
}

// StreamOptions requests usage info in the final streaming chunk.
type StreamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

// ChatMessage is an OpenAI-format message for the messages array.
// Content is `any` because it can be:
//   - string (simple text)
//   - []ContentPart (structured content, required for cache markers)
//   - nil (assistant message with only tool_calls)
type ChatMessage struct {
	Role       string     `json:"role"`                   // "system"|"user"|"assistant"|"tool"
	Content    any        `json:"content"`                // string | []ContentPart | nil
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // assistant messages only
	ToolCallID string     `json:"tool_call_id,omitempty"` // tool result messages only
}

// ContentPart for structured content arrays.
type ContentPart struct {
	Type         string        `json:"type"` // "text"
	Text         string        `json:"text,omitempty"`
	CacheControl *CacheControl `json:"cache_control,omitempty"`
}

// CacheControl marks a content part as prompt-cacheable.
type CacheControl struct {
	Type string `json:"type"` // "ephemeral"
}

// ToolCall represents an assistant's request to invoke a tool.
type ToolCall struct {
	Index    int          `json:"index,omitempty"` // streaming only: identifies which slot
	ID       string       `json:"id,omitempty"`
	Type     string       `json:"type,omitempty"` // "function"
	Function FunctionCall `json:"function"`
}

// FunctionCall holds the function name and arguments for a tool call.
type FunctionCall struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments"` // JSON string, accumulated incrementally
}

// ToolDefinition is an OpenAI-format tool for the tools array.
type ToolDefinition struct {
	Type     string      `json:"type"` // "function"
	Function FunctionDef `json:"function"`
}

// FunctionDef describes a function available as a tool.
type FunctionDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema object
}

// StreamChunk represents a single SSE chunk.
type StreamChunk struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"` // "chat.completion.chunk"
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"` // final chunk only (stream_options)
}

// Choice represents a single choice in a streaming chunk.
type Choice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"` // null | "stop" | "tool_calls" | "length" | "content_filter"
}

// Delta is the incremental content in a streaming chunk.
type Delta struct {
	Role             string     `json:"role,omitempty"`
	Content          *string    `json:"content,omitempty"` // nil vs "" matters
	ToolCalls        []ToolCall `json:"tool_calls,omitempty"`
	ReasoningContent *string    `json:"reasoning_content,omitempty"`
}

// Usage from the final streaming chunk or a non-streaming response.
type Usage struct {
	PromptTokens         int `json:"prompt_tokens"`
	CompletionTokens     int `json:"completion_tokens"`
	TotalTokens          int `json:"total_tokens"`
	CacheReadInputTokens int `json:"cache_read_input_tokens,omitempty"`
}

// CompletionResponse is a non-streaming /v1/chat/completions body.
type CompletionResponse struct {
	ID      string           `json:"id"`
	Object  string           `json:"object"`
	Created int64            `json:"created"`
	Model   string           `json:"model"`
	Choices []ResponseChoice `json:"choices"`
	Usage   *Usage           `json:"usage,omitempty"`
}

// ResponseChoice is one alternative in a non-streaming response.
type ResponseChoice struct {
	Index        int             `json:"index"`
	Message      ResponseMessage `json:"message"`
	FinishReason *string         `json:"finish_reason"`
}

// ResponseMessage is the assistant message of a non-streaming choice.
type ResponseMessage struct {
	Role             string     `json:"role"`
	Content          *string    `json:"content"`
	ReasoningContent *string    `json:"reasoning_content,omitempty"`
	ToolCalls        []ToolCall `json:"tool_calls,omitempty"`
}

// EmbeddingRequest maps to /v1/embeddings.
type EmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// EmbeddingResponse is the /v1/embeddings body.
type EmbeddingResponse struct {
	Data  []EmbeddingDatum `json:"data"`
	Usage *Usage           `json:"usage,omitempty"`
}

// EmbeddingDatum is one embedding vector keyed by input index.
type EmbeddingDatum struct {
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}
