package openai

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
)

// sseEvent wraps a parsed chunk or an error.
type sseEvent struct {
	Chunk *StreamChunk // non-nil on successful parse
	Err   error        // non-nil on parse error or stream error
	Done  bool         // true when "data: [DONE]" received
}

// parseSSEStream reads an HTTP response body line-by-line and yields sseEvents.
// The returned channel is closed when the stream ends ([DONE], EOF, or error).
// Malformed data lines are skipped rather than treated as fatal.
func parseSSEStream(ctx context.Context, body io.ReadCloser) <-chan sseEvent {
	ch := make(chan sseEvent)

	go func() {
		defer close(ch)
		defer body.Close()

		// Every send races consumer abandonment: an abandoned stream cancels
		// the context instead of draining, and an unguarded send would park
		// this goroutine forever.
		emit := func(ev sseEvent) bool {
			select {
			case ch <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		scanner := bufio.NewScanner(body)
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				emit(sseEvent{Err: ctx.Err()})
				return
			default:
			}

			line := scanner.Text()

			// SSE comments are keep-alive pings; empty lines are event boundaries
			if line == "" || strings.HasPrefix(line, ":") {
				continue
			}
			if !strings.HasPrefix(line, "data: ") {
				continue
			}

			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				emit(sseEvent{Done: true})
				return
			}

			var chunk StreamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue
			}

			if !emit(sseEvent{Chunk: &chunk}) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case <-ctx.Done():
				emit(sseEvent{Err: ctx.Err()})
			default:
				emit(sseEvent{Err: err})
			}
			return
		}

		// Scanner may exit cleanly on EOF when the body was closed under it.
		select {
		case <-ctx.Done():
			emit(sseEvent{Err: ctx.Err()})
		default:
			// Normal EOF without [DONE] — treat as end of stream.
		}
	}()

	return ch
}
