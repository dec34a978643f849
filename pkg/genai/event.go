// Package genai defines the backend-agnostic event model shared by all
// provider adapters, plus the ContentGenerator capability they implement.
package genai

// EventType is the discriminator for the Event union.
type EventType string

const (
	EventContent         EventType = "content"
	EventThought         EventType = "thought"
	EventToolCallRequest EventType = "tool_call_request"
	EventFinished        EventType = "finished"
	EventError           EventType = "error"
)

// FinishReason is the normalized stop condition reported by a backend.
type FinishReason string

const (
	FinishStop        FinishReason = "STOP"
	FinishMaxTokens   FinishReason = "MAX_TOKENS"
	FinishSafety      FinishReason = "SAFETY"
	FinishUnspecified FinishReason = "UNSPECIFIED"
)

// Usage holds token accounting for one request/response pair.
// Later, more complete values replace earlier ones; fields are never summed
// across events of the same stream.
type Usage struct {
	InputTokens       int
	OutputTokens      int
	CachedInputTokens int
	TotalTokens       int
}

// Thought is a reasoning fragment surfaced by models that expose thinking.
// Subject is the bolded headline when the backend emits one; Description is
// the remainder.
type Thought struct {
	Subject     string
	Description string
}

// ToolCallRequest is a complete, reconstructed tool invocation request.
// Args is the parsed argument object; malformed argument payloads are
// recovered as an empty map by the adapter, never as a nil map.
type ToolCallRequest struct {
	ID   string
	Name string
	Args map[string]any
}

// Event is a discriminated union: exactly one variant is populated,
// indicated by Type. Delivery order over a stream is the order the backend
// produced the fragments.
//
// Invariants:
//   - EventContent:         Text is set
//   - EventThought:         Thought is set
//   - EventToolCallRequest: ToolCall is set
//   - EventFinished:        Reason is set; Usage may be set
//   - EventError:           Err is set
type Event struct {
	Type EventType

	Text     string
	Thought  *Thought
	ToolCall *ToolCallRequest
	Reason   FinishReason
	Usage    *Usage
	Err      error
}

// ContentEvent constructs a text delta event.
func ContentEvent(text string) Event {
	return Event{Type: EventContent, Text: text}
}

// ThoughtEvent constructs a thinking delta event.
func ThoughtEvent(subject, description string) Event {
	return Event{Type: EventThought, Thought: &Thought{Subject: subject, Description: description}}
}

// ToolCallEvent constructs a complete tool invocation event.
func ToolCallEvent(id, name string, args map[string]any) Event {
	if args == nil {
		args = map[string]any{}
	}
	return Event{Type: EventToolCallRequest, ToolCall: &ToolCallRequest{ID: id, Name: name, Args: args}}
}

// FinishedEvent constructs a terminal event carrying final usage.
func FinishedEvent(reason FinishReason, usage *Usage) Event {
	return Event{Type: EventFinished, Reason: reason, Usage: usage}
}

// ErrorEvent constructs an in-band error event.
func ErrorEvent(err error) Event {
	return Event{Type: EventError, Err: err}
}
