package openai

import (
	"context"
	"encoding/json"
	"math"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/jg-phare/loom/pkg/genai"
)

const tokenizerEncoding = "cl100k_base"

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
	encodingErr  error
)

func loadEncoding() (*tiktoken.Tiktoken, error) {
	encodingOnce.Do(func() {
		encoding, encodingErr = tiktoken.GetEncoding(tokenizerEncoding)
	})
	return encoding, encodingErr
}

// CountTokens estimates the token footprint of a request. OpenAI-compatible
// backends expose no counting endpoint, so this runs locally: tiktoken over
// the serialized messages, falling back to ceil(utf8Len/4) when the
// tokenizer is unavailable. Stateless and safe for concurrent use.
func (g *Generator) CountTokens(_ context.Context, req *genai.Request) (int, error) {
	serialized := serializeForCounting(req)

	if enc, err := loadEncoding(); err == nil {
		return len(enc.Encode(serialized, nil, nil)), nil
	}

	return int(math.Ceil(float64(len(serialized)) / 4)), nil
}

// serializeForCounting renders the request the way it would go on the wire,
// so the estimate tracks what the backend would bill.
func serializeForCounting(req *genai.Request) string {
	msgs := toChatMessages(req)
	b, err := json.Marshal(msgs)
	if err != nil {
		return ""
	}
	return string(b)
}
