package openai

import (
	"math"
	"strings"

	"github.com/jg-phare/loom/pkg/genai"
)

// mapFinishReason normalizes an OpenAI finish_reason. Unrecognized values
// fall to UNSPECIFIED; this never errors.
func mapFinishReason(fr string) genai.FinishReason {
	switch fr {
	case "stop", "tool_calls", "function_call":
		return genai.FinishStop
	case "length":
		return genai.FinishMaxTokens
	case "content_filter":
		return genai.FinishSafety
	default:
		return genai.FinishUnspecified
	}
}

// translateUsage converts wire usage to canonical usage. Backends that
// report only a combined total get a 70/30 prompt/completion estimate.
func translateUsage(u *Usage) *genai.Usage {
	if u == nil {
		return nil
	}
	out := &genai.Usage{
		InputTokens:       u.PromptTokens,
		OutputTokens:      u.CompletionTokens,
		CachedInputTokens: u.CacheReadInputTokens,
		TotalTokens:       u.TotalTokens,
	}
	if out.TotalTokens > 0 && out.InputTokens == 0 && out.OutputTokens == 0 {
		out.InputTokens = int(math.Round(float64(out.TotalTokens) * 0.7))
		out.OutputTokens = out.TotalTokens - out.InputTokens
	}
	return out
}

// parseThought splits a reasoning fragment into subject and description.
// Backends that headline their thinking wrap the subject in ** markers;
// anything else is all description.
func parseThought(text string) (subject, description string) {
	if strings.HasPrefix(text, "**") {
		if end := strings.Index(text[2:], "**"); end >= 0 {
			subject = text[2 : 2+end]
			description = strings.TrimSpace(text[4+end:])
			return subject, description
		}
	}
	return "", text
}
