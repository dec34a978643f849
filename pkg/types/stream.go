package types

// Stream events are the fine-grained partial updates carried by
// PartialAssistantMessage when partial emission is enabled. Shapes follow
// the Anthropic streaming wire format.

// MessageStartEvent opens a message on the main context.
type MessageStartEvent struct {
	Type    string     `json:"type"` // "message_start"
	Message APIMessage `json:"message"`
}

// ContentBlockStartEvent announces a new block at Index.
type ContentBlockStartEvent struct {
	Type         string       `json:"type"` // "content_block_start"
	MessageID    string       `json:"message_id,omitempty"`
	Index        int          `json:"index"`
	ContentBlock ContentBlock `json:"content_block"`
}

// ContentBlockDeltaEvent carries an incremental fragment for an open block.
type ContentBlockDeltaEvent struct {
	Type      string     `json:"type"` // "content_block_delta"
	MessageID string     `json:"message_id,omitempty"`
	Index     int        `json:"index"`
	Delta     BlockDelta `json:"delta"`
}

// BlockDelta is the fragment payload inside a delta event.
type BlockDelta struct {
	Type        string `json:"type"` // "text_delta" | "thinking_delta" | "input_json_delta"
	Text        string `json:"text,omitempty"`
	Thinking    string `json:"thinking,omitempty"`
	PartialJSON string `json:"partial_json,omitempty"`
}

// ContentBlockStopEvent closes the block at Index.
type ContentBlockStopEvent struct {
	Type      string `json:"type"` // "content_block_stop"
	MessageID string `json:"message_id,omitempty"`
	Index     int    `json:"index"`
}

// MessageStopEvent closes a message on the main context.
type MessageStopEvent struct {
	Type      string `json:"type"` // "message_stop"
	MessageID string `json:"message_id,omitempty"`
}
