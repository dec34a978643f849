package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jg-phare/loom/pkg/genai"
)

// toChatMessages translates generic request contents into OpenAI-format
// messages: system instructions join into one leading system message,
// function-response turns become tool messages, model turns with calls
// become assistant messages with tool-call descriptors, and remaining roles
// map model→assistant, everything else→user.
//
// The result is always passed through orphan cleanup and the
// consecutive-assistant merge before it is safe to send.
func toChatMessages(req *genai.Request) []ChatMessage {
	var msgs []ChatMessage

	if len(req.SystemInstruction) > 0 {
		msgs = append(msgs, ChatMessage{
			Role:    "system",
			Content: strings.Join(req.SystemInstruction, "\n"),
		})
	}

	callSeq := 0
	for _, content := range req.Contents {
		switch {
		case isFunctionResponseTurn(content):
			for _, p := range content.Parts {
				if p.FunctionResponse == nil {
					continue
				}
				msgs = append(msgs, ChatMessage{
					Role:       "tool",
					ToolCallID: p.FunctionResponse.ID,
					Content:    stringifyFunctionResponse(p.FunctionResponse),
				})
			}

		case content.Role == "model" && hasFunctionCall(content):
			cm := ChatMessage{Role: "assistant"}
			if text := joinText(content); text != "" {
				cm.Content = text
			}
			for _, p := range content.Parts {
				if p.FunctionCall == nil {
					continue
				}
				id := p.FunctionCall.ID
				if id == "" {
					id = fmt.Sprintf("call_%d", callSeq)
				}
				callSeq++
				args := "{}"
				if p.FunctionCall.Args != nil {
					if b, err := json.Marshal(p.FunctionCall.Args); err == nil {
						args = string(b)
					}
				}
				cm.ToolCalls = append(cm.ToolCalls, ToolCall{
					ID:       id,
					Type:     "function",
					Function: FunctionCall{Name: p.FunctionCall.Name, Arguments: args},
				})
			}
			msgs = append(msgs, cm)

		default:
			role := "user"
			if content.Role == "model" {
				role = "assistant"
			}
			msgs = append(msgs, ChatMessage{Role: role, Content: joinText(content)})
		}
	}

	msgs = cleanOrphanedToolCalls(msgs)
	msgs = mergeConsecutiveAssistant(msgs)
	return msgs
}

// isFunctionResponseTurn reports whether the turn holds only function
// responses (ignoring empty parts).
func isFunctionResponseTurn(c genai.Content) bool {
	found := false
	for _, p := range c.Parts {
		if p.FunctionResponse != nil {
			found = true
			continue
		}
		if p.Text != "" || p.FunctionCall != nil {
			return false
		}
	}
	return found
}

func hasFunctionCall(c genai.Content) bool {
	for _, p := range c.Parts {
		if p.FunctionCall != nil {
			return true
		}
	}
	return false
}

// joinText concatenates the non-call, non-thought text parts of a turn.
func joinText(c genai.Content) string {
	var sb strings.Builder
	for _, p := range c.Parts {
		if p.Text != "" && !p.Thought {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// stringifyFunctionResponse renders a tool result for the wire. Plain string
// payloads under the conventional "output"/"error" keys pass through
// unquoted; everything else serializes as JSON.
func stringifyFunctionResponse(fr *genai.FunctionResponse) string {
	if fr.Response == nil {
		return ""
	}
	if out, ok := fr.Response["output"].(string); ok && len(fr.Response) == 1 {
		return out
	}
	if errText, ok := fr.Response["error"].(string); ok && len(fr.Response) == 1 {
		return errText
	}
	b, err := json.Marshal(fr.Response)
	if err != nil {
		return ""
	}
	return string(b)
}

// buildCompletionRequest assembles the wire request for one generation call.
func buildCompletionRequest(model string, req *genai.Request, stream bool, cache bool) *CompletionRequest {
	out := &CompletionRequest{
		Model:       model,
		Messages:    toChatMessages(req),
		Stream:      stream,
		MaxTokens:   req.Config.MaxOutputTokens,
		Temperature: req.Config.Temperature,
		TopP:        req.Config.TopP,
		Stop:        req.Config.StopSequences,
	}
	if req.Model != "" {
		out.Model = req.Model
	}
	if stream {
		out.StreamOptions = &StreamOptions{IncludeUsage: true}
	}
	for _, decl := range req.Tools {
		out.Tools = append(out.Tools, ToolDefinition{
			Type: "function",
			Function: FunctionDef{
				Name:        decl.Name,
				Description: decl.Description,
				Parameters:  decl.Parameters,
			},
		})
	}
	if cache {
		applyCacheControl(out.Messages)
	}
	return out
}
