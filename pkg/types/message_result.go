package types

// ResultMessage is the final message emitted when a query completes.
// The success variant carries Result; the error variant carries ErrorMessage.
// Both always carry durations, turn count, and every permission denial
// recorded during the session.
type ResultMessage struct {
	BaseMessage
	Type              MessageType           `json:"type"`
	Subtype           ResultSubtype         `json:"subtype"`
	IsError           bool                  `json:"is_error"`
	DurationMs        int64                 `json:"duration_ms"`
	DurationAPIMs     int64                 `json:"duration_api_ms"`
	NumTurns          int                   `json:"num_turns"`
	Usage             Usage                 `json:"usage"`
	ModelUsage        map[string]ModelUsage `json:"modelUsage,omitempty"`
	PermissionDenials []PermissionDenial    `json:"permission_denials"`

	// Success-only
	Result string `json:"result,omitempty"`

	// Error-only
	ErrorMessage string `json:"error,omitempty"`
}

func (m ResultMessage) GetType() MessageType { return MessageTypeResult }

// SubagentResultMessage is the reduced result shape for sub-agent contexts.
// Denials are attributed to the main session and therefore absent here.
type SubagentResultMessage struct {
	BaseMessage
	Type            MessageType   `json:"type"`
	Subtype         ResultSubtype `json:"subtype"`
	IsError         bool          `json:"is_error"`
	DurationMs      int64         `json:"duration_ms"`
	DurationAPIMs   int64         `json:"duration_api_ms"`
	NumTurns        int           `json:"num_turns"`
	ParentToolUseID string        `json:"parent_tool_use_id"`
	ErrorMessage    string        `json:"error,omitempty"`
}

func (m SubagentResultMessage) GetType() MessageType { return MessageTypeResult }

// ModelUsage tracks per-model token consumption and cost.
type ModelUsage struct {
	InputTokens       int     `json:"inputTokens"`
	OutputTokens      int     `json:"outputTokens"`
	CachedInputTokens int     `json:"cachedInputTokens"`
	TotalTokens       int     `json:"totalTokens"`
	CostUSD           float64 `json:"costUSD"`
}

// PermissionDenial records a tool invocation denied by the permission system.
type PermissionDenial struct {
	ToolName  string         `json:"tool_name"`
	ToolUseID string         `json:"tool_use_id"`
	ToolInput map[string]any `json:"tool_input"`
}
