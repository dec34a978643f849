package genai

import "context"

// ContentGenerator is the single capability set every backend adapter
// satisfies, regardless of wire format.
//
// GenerateContentStream returns a lazy, finite event sequence. Callers must
// drain it to io.EOF or Close it; a half-drained stream holds no adapter
// resources beyond the in-flight HTTP body released by Close.
type ContentGenerator interface {
	// GenerateContent performs one blocking request and returns the complete
	// response.
	GenerateContent(ctx context.Context, req *Request, promptID string) (*Response, error)

	// GenerateContentStream starts a streaming request. Events are pulled
	// one at a time; processing of an event completes before the next pull.
	GenerateContentStream(ctx context.Context, req *Request, promptID string) (EventStream, error)

	// CountTokens estimates the token footprint of a request. Stateless and
	// safe to call concurrently.
	CountTokens(ctx context.Context, req *Request) (int, error)

	// EmbedContent returns one embedding vector per input text. Stateless
	// and safe to call concurrently.
	EmbedContent(ctx context.Context, req *EmbedRequest) ([][]float64, error)
}

// EventStream is a pull-based iterator over canonical events.
type EventStream interface {
	// Next returns the next event, or io.EOF when the stream is exhausted.
	// Returns context.Canceled if the parent context was cancelled.
	Next() (Event, error)

	// Close abandons the stream and releases the underlying connection.
	// Safe to call after Next returned io.EOF.
	Close() error
}
