package types

import "github.com/google/uuid"

// NewAssistantMessage creates an AssistantMessage with a fresh UUID.
func NewAssistantMessage(msg APIMessage, parentToolUseID *string, sessionID string) *AssistantMessage {
	return &AssistantMessage{
		BaseMessage:     BaseMessage{UUID: uuid.New(), SessionID: sessionID},
		Type:            MessageTypeAssistant,
		Message:         msg,
		ParentToolUseID: parentToolUseID,
	}
}

// NewUserMessage creates a plain-text UserMessage with a fresh UUID.
func NewUserMessage(content string, sessionID string) *UserMessage {
	return &UserMessage{
		BaseMessage: BaseMessage{UUID: uuid.New(), SessionID: sessionID},
		Type:        MessageTypeUser,
		Message:     MessageParam{Role: "user", Content: content},
	}
}

// NewToolResultMessage creates a UserMessage carrying one tool_result block.
func NewToolResultMessage(toolUseID string, content any, isError bool, parentToolUseID *string, sessionID string) *UserMessage {
	return &UserMessage{
		BaseMessage: BaseMessage{UUID: uuid.New(), SessionID: sessionID},
		Type:        MessageTypeUser,
		Message: MessageParam{
			Role: "user",
			Content: []ContentBlock{{
				Type:      "tool_result",
				ToolUseID: toolUseID,
				Content:   content,
				IsError:   isError,
			}},
		},
		ParentToolUseID: parentToolUseID,
	}
}

// NewSystemInit creates the session-start SystemInitMessage with a fresh UUID.
func NewSystemInit(model, version, cwd string, tools []string, sessionID string) *SystemInitMessage {
	return &SystemInitMessage{
		BaseMessage: BaseMessage{UUID: uuid.New(), SessionID: sessionID},
		Type:        MessageTypeSystem,
		Subtype:     SystemSubtypeInit,
		Model:       model,
		Version:     version,
		CWD:         cwd,
		Tools:       tools,
	}
}

// NewPartialAssistantMessage wraps a stream event with a fresh UUID.
func NewPartialAssistantMessage(event any, parentToolUseID *string, sessionID string) *PartialAssistantMessage {
	return &PartialAssistantMessage{
		BaseMessage:     BaseMessage{UUID: uuid.New(), SessionID: sessionID},
		Type:            MessageTypeStreamEvent,
		Event:           event,
		ParentToolUseID: parentToolUseID,
	}
}
