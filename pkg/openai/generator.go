// Package openai implements the ContentGenerator capability against any
// OpenAI-compatible chat-completions backend, translating between the
// generic request model and the wire format, and reconstructing canonical
// events from arbitrarily chunked SSE deltas.
package openai

import (
	"context"
	"io"
	"time"

	"github.com/jg-phare/loom/pkg/genai"
	"github.com/jg-phare/loom/pkg/telemetry"
)

const defaultBaseURL = "https://api.openai.com/v1"

func init() {
	genai.Register(genai.AuthOpenAICompatible, func(_ context.Context, cfg genai.AuthConfig) (genai.ContentGenerator, error) {
		return NewGenerator(GeneratorConfig{
			Client: ClientConfig{
				BaseURL: cfg.BaseURL,
				APIKey:  cfg.APIKey,
				Headers: cfg.Headers,
			},
			Model:              cfg.Model,
			EnableCacheControl: cfg.EnableCacheControl,
		})
	})
}

// GeneratorConfig configures one Generator instance.
type GeneratorConfig struct {
	Client             ClientConfig
	Model              string
	EnableCacheControl bool
	Telemetry          *telemetry.Logger
}

// Generator talks to one OpenAI-compatible backend. GenerateContent,
// CountTokens and EmbedContent are safe for concurrent use; streams are
// consumed by one logical task each, and the accumulator is per-generator
// state cleared at every stream start.
type Generator struct {
	client *client
	model  string
	cache  bool
	tel    *telemetry.Logger
	accum  *toolCallAccumulator
}

// NewGenerator validates the configuration and constructs a Generator.
// Missing credentials fail here with a configuration error; nothing is
// retried or silently degraded.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if cfg.Client.APIKey == "" {
		return nil, &genai.ConfigError{
			Backend: genai.AuthOpenAICompatible,
			Reason:  "API key is required (set auth.api_key in the config file or the OPENAI_API_KEY environment variable)",
		}
	}
	if cfg.Model == "" {
		return nil, &genai.ConfigError{
			Backend: genai.AuthOpenAICompatible,
			Reason:  "model is required",
		}
	}
	if cfg.Client.BaseURL == "" {
		cfg.Client.BaseURL = defaultBaseURL
	}
	if cfg.Telemetry == nil {
		cfg.Telemetry = telemetry.Nop()
	}
	return &Generator{
		client: newClient(cfg.Client),
		model:  cfg.Model,
		cache:  cfg.EnableCacheControl,
		tel:    cfg.Telemetry,
		accum:  newToolCallAccumulator(),
	}, nil
}

// Model returns the configured model name.
func (g *Generator) Model() string { return g.model }

// SetTelemetry swaps the telemetry sink. Generators built through the
// registry start with a no-op sink; callers attach theirs after construction.
func (g *Generator) SetTelemetry(tel *telemetry.Logger) {
	if tel == nil {
		tel = telemetry.Nop()
	}
	g.tel = tel
}

// GenerateContent performs one blocking request and returns the complete
// response.
func (g *Generator) GenerateContent(ctx context.Context, req *genai.Request, promptID string) (*genai.Response, error) {
	start := time.Now()

	var wireResp CompletionResponse
	wireReq := buildCompletionRequest(g.model, req, false, g.cache)
	if err := g.client.postJSON(ctx, "/chat/completions", wireReq, &wireResp); err != nil {
		g.tel.LogError(g.model, time.Since(start).Milliseconds(), promptID, string(genai.AuthOpenAICompatible), err)
		return nil, err
	}

	resp := responseFromWire(&wireResp)
	g.tel.LogResponse(g.model, time.Since(start).Milliseconds(), promptID, string(genai.AuthOpenAICompatible), resp.Usage)
	return resp, nil
}

func responseFromWire(w *CompletionResponse) *genai.Response {
	out := &genai.Response{FinishReason: genai.FinishUnspecified}
	if u := translateUsage(w.Usage); u != nil {
		out.Usage = *u
	}
	if len(w.Choices) == 0 {
		return out
	}

	choice := w.Choices[0]
	if rc := choice.Message.ReasoningContent; rc != nil && *rc != "" {
		out.Parts = append(out.Parts, genai.Part{Text: *rc, Thought: true})
	}
	if c := choice.Message.Content; c != nil && *c != "" {
		out.Parts = append(out.Parts, genai.TextPart(*c))
	}
	for _, tc := range choice.Message.ToolCalls {
		args, _ := parseCallArgs(tc.Function.Arguments)
		id := tc.ID
		if id == "" {
			id = synthesizeCallID()
		}
		out.Parts = append(out.Parts, genai.FunctionCallPart(id, tc.Function.Name, args))
		out.ToolCalls = append(out.ToolCalls, genai.ToolCallRequest{ID: id, Name: tc.Function.Name, Args: args})
	}
	if choice.FinishReason != nil {
		out.FinishReason = mapFinishReason(*choice.FinishReason)
	}
	return out
}

// GenerateContentStream starts a streaming request and returns a pull-based
// canonical event sequence.
func (g *Generator) GenerateContentStream(ctx context.Context, req *genai.Request, promptID string) (genai.EventStream, error) {
	// The accumulator must never carry entries from a previous stream.
	g.accum.reset()

	start := time.Now()
	wireReq := buildCompletionRequest(g.model, req, true, g.cache)
	resp, err := g.client.post(ctx, "/chat/completions", wireReq, true)
	if err != nil {
		g.tel.LogError(g.model, time.Since(start).Milliseconds(), promptID, string(genai.AuthOpenAICompatible), err)
		return nil, err
	}

	streamCtx, cancel := context.WithCancel(ctx)
	return &eventStream{
		g:        g,
		events:   parseSSEStream(streamCtx, resp.Body),
		body:     resp.Body,
		cancel:   cancel,
		promptID: promptID,
		start:    start,
		reason:   genai.FinishUnspecified,
	}, nil
}

// EmbedContent returns one embedding vector per input text, ordered by
// input index.
func (g *Generator) EmbedContent(ctx context.Context, req *genai.EmbedRequest) ([][]float64, error) {
	model := req.Model
	if model == "" {
		model = g.model
	}

	var wireResp EmbeddingResponse
	if err := g.client.postJSON(ctx, "/embeddings", &EmbeddingRequest{Model: model, Input: req.Texts}, &wireResp); err != nil {
		return nil, err
	}

	out := make([][]float64, len(req.Texts))
	for _, d := range wireResp.Data {
		if d.Index >= 0 && d.Index < len(out) {
			out[d.Index] = d.Embedding
		}
	}
	return out, nil
}

// eventStream adapts the SSE chunk channel to the canonical event iterator.
// Events decoded from one chunk queue up and are handed out one per Next
// call, so consumers process in lock step.
type eventStream struct {
	g        *Generator
	events   <-chan sseEvent
	body     io.ReadCloser
	cancel   context.CancelFunc
	queue    []genai.Event
	usage    *genai.Usage
	reason   genai.FinishReason
	promptID string
	start    time.Time
	done     bool
	err      error
}

func (s *eventStream) Next() (genai.Event, error) {
	for {
		if len(s.queue) > 0 {
			ev := s.queue[0]
			s.queue = s.queue[1:]
			return ev, nil
		}
		if s.err != nil {
			return genai.Event{}, s.err
		}
		if s.done {
			return genai.Event{}, io.EOF
		}

		ev, ok := <-s.events
		if !ok || ev.Done {
			s.done = true
			s.queue = append(s.queue, genai.FinishedEvent(s.reason, s.usage))
			s.logResponse()
			continue
		}
		if ev.Err != nil {
			// A failed stream stays failed: later pulls must not drain the
			// closed channel into a synthetic Finished plus success telemetry.
			s.err = wrapTimeout(ev.Err)
			s.g.tel.LogError(s.g.model, time.Since(s.start).Milliseconds(), s.promptID, string(genai.AuthOpenAICompatible), s.err)
			return genai.Event{}, s.err
		}

		s.ingest(ev.Chunk)
	}
}

// ingest decodes one wire chunk into zero or more queued canonical events.
func (s *eventStream) ingest(chunk *StreamChunk) {
	if u := translateUsage(chunk.Usage); u != nil {
		// later, more complete usage replaces earlier usage
		s.usage = u
	}

	for _, choice := range chunk.Choices {
		d := choice.Delta

		if rc := d.ReasoningContent; rc != nil && *rc != "" {
			subject, description := parseThought(*rc)
			s.queue = append(s.queue, genai.ThoughtEvent(subject, description))
		}
		if c := d.Content; c != nil && *c != "" {
			s.queue = append(s.queue, genai.ContentEvent(*c))
		}
		for _, tc := range d.ToolCalls {
			s.g.accum.addDelta(tc)
		}

		if choice.FinishReason != nil {
			s.reason = mapFinishReason(*choice.FinishReason)
			// Finished descriptors emit only now, on the terminating
			// finish reason; the accumulator clears itself in drain.
			for _, call := range s.g.accum.drain() {
				args, _ := parseCallArgs(call.Function.Arguments)
				s.queue = append(s.queue, genai.ToolCallEvent(call.ID, call.Function.Name, args))
			}
		}
	}
}

func (s *eventStream) logResponse() {
	var usage genai.Usage
	if s.usage != nil {
		usage = *s.usage
	}
	s.g.tel.LogResponse(s.g.model, time.Since(s.start).Milliseconds(), s.promptID, string(genai.AuthOpenAICompatible), usage)
}

// Close abandons the stream and releases the HTTP connection.
func (s *eventStream) Close() error {
	s.done = true
	if s.cancel != nil {
		s.cancel()
	}
	if s.body != nil {
		return s.body.Close()
	}
	return nil
}
