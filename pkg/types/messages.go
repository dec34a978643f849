// Package types defines the externally-visible message protocol: typed,
// JSON-serializable records emitted one per line in line-delimited mode.
package types

import "github.com/google/uuid"

// MessageType is the top-level discriminator for SDKMessage variants.
type MessageType string

const (
	MessageTypeAssistant   MessageType = "assistant"
	MessageTypeUser        MessageType = "user"
	MessageTypeSystem      MessageType = "system"
	MessageTypeResult      MessageType = "result"
	MessageTypeStreamEvent MessageType = "stream_event"
)

// SystemSubtype disambiguates system-typed messages.
type SystemSubtype string

const (
	SystemSubtypeInit   SystemSubtype = "init"
	SystemSubtypeStatus SystemSubtype = "status"
)

// ResultSubtype disambiguates result message variants.
type ResultSubtype string

const (
	ResultSubtypeSuccess              ResultSubtype = "success"
	ResultSubtypeErrorDuringExecution ResultSubtype = "error_during_execution"
	ResultSubtypeErrorMaxTurns        ResultSubtype = "error_max_turns"
)

// SDKMessage is implemented by all message types in the protocol.
type SDKMessage interface {
	GetType() MessageType
	GetUUID() uuid.UUID
	GetSessionID() string
}

// BaseMessage provides the common fields shared by all SDKMessage variants.
type BaseMessage struct {
	UUID      uuid.UUID `json:"uuid"`
	SessionID string    `json:"session_id"`
}

func (b BaseMessage) GetUUID() uuid.UUID   { return b.UUID }
func (b BaseMessage) GetSessionID() string { return b.SessionID }

// AssistantMessage is one complete model message: an ordered list of content
// blocks sharing a single block type, snapshotted from a finalized
// accumulator state.
type AssistantMessage struct {
	BaseMessage
	Type            MessageType `json:"type"`
	Message         APIMessage  `json:"message"`
	ParentToolUseID *string     `json:"parent_tool_use_id"`
}

func (m AssistantMessage) GetType() MessageType { return MessageTypeAssistant }

// PartialAssistantMessage carries a fine-grained stream event for live
// rendering. Event is one of the *Event types in stream.go.
type PartialAssistantMessage struct {
	BaseMessage
	Type            MessageType `json:"type"`
	Event           any         `json:"event"`
	ParentToolUseID *string     `json:"parent_tool_use_id"`
}

func (m PartialAssistantMessage) GetType() MessageType { return MessageTypeStreamEvent }

// UserMessage represents user input, including synthesized tool-result turns.
type UserMessage struct {
	BaseMessage
	Type            MessageType  `json:"type"`
	Message         MessageParam `json:"message"`
	ParentToolUseID *string      `json:"parent_tool_use_id"`
}

func (m UserMessage) GetType() MessageType { return MessageTypeUser }

// MessageParam is the request-side message shape.
type MessageParam struct {
	Role    string `json:"role"`    // "user" | "assistant"
	Content any    `json:"content"` // string | []ContentBlock
}

// SystemInitMessage is the first message emitted on session start.
type SystemInitMessage struct {
	BaseMessage
	Type    MessageType   `json:"type"`
	Subtype SystemSubtype `json:"subtype"`
	Model   string        `json:"model"`
	CWD     string        `json:"cwd"`
	Version string        `json:"version"`
	Tools   []string      `json:"tools"`
}

func (m SystemInitMessage) GetType() MessageType { return MessageTypeSystem }
