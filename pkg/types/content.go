package types

import "encoding/json"

// StopReasonToolUse is the only stop reason the assembler ever sets; plain
// text messages carry a null stop reason.
const StopReasonToolUse = "tool_use"

// APIMessage is the accumulated model response wrapped by AssistantMessage.
type APIMessage struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"` // always "message"
	Role       string         `json:"role"` // always "assistant"
	Content    []ContentBlock `json:"content"`
	Model      string         `json:"model,omitempty"`
	StopReason *string        `json:"stop_reason"`
	Usage      Usage          `json:"usage"`
}

// ContentBlock is a discriminated union for message content.
// Type determines which other fields are populated.
//
// Invariants:
//   - type="text":        Text is set
//   - type="thinking":    Thinking is set; Signature when the backend signs it
//   - type="tool_use":    ID, Name, Input are set
//   - type="tool_result": ToolUseID is set; Content and IsError optional
type ContentBlock struct {
	Type string `json:"type"`

	// type="text"
	Text string `json:"text,omitempty"`

	// type="thinking"
	Thinking  string `json:"thinking,omitempty"`
	Signature string `json:"signature,omitempty"`

	// type="tool_use"
	ID    string         `json:"id,omitempty"`
	Name  string         `json:"name,omitempty"`
	Input map[string]any `json:"input,omitempty"` // parsed JSON, not a string

	// type="tool_result"
	ToolUseID string `json:"tool_use_id,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`
	Content   any    `json:"content,omitempty"` // string | []map[string]any
}

// MarshalJSON emits only the fields relevant to the block type.
func (cb ContentBlock) MarshalJSON() ([]byte, error) {
	switch cb.Type {
	case "text":
		return json.Marshal(struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{Type: "text", Text: cb.Text})

	case "thinking":
		return json.Marshal(struct {
			Type      string `json:"type"`
			Thinking  string `json:"thinking"`
			Signature string `json:"signature,omitempty"`
		}{Type: "thinking", Thinking: cb.Thinking, Signature: cb.Signature})

	case "tool_use":
		return json.Marshal(struct {
			Type  string         `json:"type"`
			ID    string         `json:"id"`
			Name  string         `json:"name"`
			Input map[string]any `json:"input"`
		}{Type: "tool_use", ID: cb.ID, Name: cb.Name, Input: cb.Input})

	case "tool_result":
		return json.Marshal(struct {
			Type      string `json:"type"`
			ToolUseID string `json:"tool_use_id"`
			IsError   bool   `json:"is_error,omitempty"`
			Content   any    `json:"content,omitempty"`
		}{Type: "tool_result", ToolUseID: cb.ToolUseID, IsError: cb.IsError, Content: cb.Content})

	default:
		type alias ContentBlock
		return json.Marshal(alias(cb))
	}
}

// Usage is the protocol-level token accounting object. Fields are
// zero-valued when a backend does not report them.
type Usage struct {
	InputTokens       int `json:"input_tokens"`
	OutputTokens      int `json:"output_tokens"`
	CachedInputTokens int `json:"cached_input_tokens,omitempty"`
	TotalTokens       int `json:"total_tokens,omitempty"`
}
