package types

import (
	"encoding/json"
	"fmt"
)

// rawMessage is used for first-pass deserialization to extract discriminators.
type rawMessage struct {
	Type            MessageType    `json:"type"`
	Subtype         *SystemSubtype `json:"subtype,omitempty"`
	ParentToolUseID *string        `json:"parent_tool_use_id"`
}

// UnmarshalSDKMessage deserializes a JSON blob into the concrete SDKMessage
// variant indicated by its type field.
func UnmarshalSDKMessage(data []byte) (SDKMessage, error) {
	var raw rawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal discriminator: %w", err)
	}

	switch raw.Type {
	case MessageTypeAssistant:
		var msg AssistantMessage
		return &msg, json.Unmarshal(data, &msg)

	case MessageTypeUser:
		var msg UserMessage
		return &msg, json.Unmarshal(data, &msg)

	case MessageTypeResult:
		if raw.ParentToolUseID != nil {
			var msg SubagentResultMessage
			return &msg, json.Unmarshal(data, &msg)
		}
		var msg ResultMessage
		return &msg, json.Unmarshal(data, &msg)

	case MessageTypeSystem:
		if raw.Subtype == nil {
			return nil, fmt.Errorf("system message missing subtype")
		}
		switch *raw.Subtype {
		case SystemSubtypeInit:
			var msg SystemInitMessage
			return &msg, json.Unmarshal(data, &msg)
		default:
			return nil, fmt.Errorf("unknown system subtype: %s", *raw.Subtype)
		}

	case MessageTypeStreamEvent:
		var msg PartialAssistantMessage
		return &msg, json.Unmarshal(data, &msg)

	default:
		return nil, fmt.Errorf("unknown message type: %s", raw.Type)
	}
}
