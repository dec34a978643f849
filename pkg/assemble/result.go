package assemble

import (
	"time"

	"github.com/google/uuid"

	"github.com/jg-phare/loom/pkg/types"
)

// defaultErrorMessage fills error results built without a message.
const defaultErrorMessage = "Unknown error"

// ResultBuilder collects session statistics and permission denials for the
// lifetime of a session and produces the terminal result message.
type ResultBuilder struct {
	sessionID   string
	startTime   time.Time
	apiDuration time.Duration
	numTurns    int
	usage       types.Usage
	modelUsage  map[string]types.ModelUsage
	denials     []types.PermissionDenial
}

// NewResultBuilder starts tracking a session from now.
func NewResultBuilder(sessionID string) *ResultBuilder {
	return &ResultBuilder{sessionID: sessionID, startTime: time.Now()}
}

// AddAPITime accumulates time spent inside backend calls.
func (b *ResultBuilder) AddAPITime(d time.Duration) { b.apiDuration += d }

// IncrementTurns counts one completed agent turn.
func (b *ResultBuilder) IncrementTurns() { b.numTurns++ }

// AttachUsage replaces the session usage with a later, more complete value.
func (b *ResultBuilder) AttachUsage(u types.Usage) { b.usage = u }

// SetModelUsage attaches per-model statistics.
func (b *ResultBuilder) SetModelUsage(mu map[string]types.ModelUsage) { b.modelUsage = mu }

// ObserveToolResult records a denial when the executor rejected the call
// with EXECUTION_DENIED. Denials accumulate for the session lifetime and
// ride on every result message.
func (b *ResultBuilder) ObserveToolResult(req ToolCallRequestInfo, resp ToolCallResponseInfo) {
	if resp.ErrorType != ErrorTypeExecutionDenied {
		return
	}
	b.denials = append(b.denials, types.PermissionDenial{
		ToolName:  req.Name,
		ToolUseID: req.CallID,
		ToolInput: req.Args,
	})
}

// Denials returns the denials recorded so far.
func (b *ResultBuilder) Denials() []types.PermissionDenial {
	return append([]types.PermissionDenial(nil), b.denials...)
}

// Success builds the success result. The result text is the override when
// given, otherwise the extracted plain text of the last assistant message.
func (b *ResultBuilder) Success(override *string, lastAssistant *types.AssistantMessage) *types.ResultMessage {
	result := ""
	if override != nil {
		result = *override
	} else if lastAssistant != nil {
		result = extractText(lastAssistant)
	}
	msg := b.base(types.ResultSubtypeSuccess, false)
	msg.Result = result
	return msg
}

// Error builds the error result; an empty message defaults to
// "Unknown error".
func (b *ResultBuilder) Error(errorMessage string) *types.ResultMessage {
	if errorMessage == "" {
		errorMessage = defaultErrorMessage
	}
	msg := b.base(types.ResultSubtypeErrorDuringExecution, true)
	msg.ErrorMessage = errorMessage
	return msg
}

// SubagentError builds the reduced result shape for a sub-agent context.
// Denials stay attributed to the main session and are absent here.
func (b *ResultBuilder) SubagentError(parentToolUseID, errorMessage string) *types.SubagentResultMessage {
	if errorMessage == "" {
		errorMessage = defaultErrorMessage
	}
	return &types.SubagentResultMessage{
		BaseMessage:     types.BaseMessage{UUID: uuid.New(), SessionID: b.sessionID},
		Type:            types.MessageTypeResult,
		Subtype:         types.ResultSubtypeErrorDuringExecution,
		IsError:         true,
		DurationMs:      time.Since(b.startTime).Milliseconds(),
		DurationAPIMs:   b.apiDuration.Milliseconds(),
		NumTurns:        b.numTurns,
		ParentToolUseID: parentToolUseID,
		ErrorMessage:    errorMessage,
	}
}

func (b *ResultBuilder) base(subtype types.ResultSubtype, isError bool) *types.ResultMessage {
	denials := b.denials
	if denials == nil {
		denials = []types.PermissionDenial{}
	}
	return &types.ResultMessage{
		BaseMessage:       types.BaseMessage{UUID: uuid.New(), SessionID: b.sessionID},
		Type:              types.MessageTypeResult,
		Subtype:           subtype,
		IsError:           isError,
		DurationMs:        time.Since(b.startTime).Milliseconds(),
		DurationAPIMs:     b.apiDuration.Milliseconds(),
		NumTurns:          b.numTurns,
		Usage:             b.usage,
		ModelUsage:        b.modelUsage,
		PermissionDenials: denials,
	}
}

// extractText joins the text blocks of an assistant message.
func extractText(msg *types.AssistantMessage) string {
	var out string
	for _, block := range msg.Message.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out
}
