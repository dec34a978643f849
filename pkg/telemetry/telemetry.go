// Package telemetry is the fire-and-forget observability boundary consumed
// by the pipeline. Failures here must never affect control flow: every call
// recovers its own panics and returns nothing.
package telemetry

import (
	"go.uber.org/zap"

	"github.com/jg-phare/loom/pkg/genai"
)

// Logger wraps a zap logger behind the pipeline's two call points.
// A nil *Logger is valid and drops everything.
type Logger struct {
	log *zap.Logger
}

// New creates a Logger over an existing zap logger.
func New(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log}
}

// Nop returns a Logger that discards all events.
func Nop() *Logger { return &Logger{log: zap.NewNop()} }

// LogResponse records a completed backend call.
func (l *Logger) LogResponse(model string, durationMs int64, promptID, authKind string, usage genai.Usage) {
	if l == nil || l.log == nil {
		return
	}
	defer func() { _ = recover() }()
	l.log.Info("api response",
		zap.String("model", model),
		zap.Int64("duration_ms", durationMs),
		zap.String("prompt_id", promptID),
		zap.String("auth_kind", authKind),
		zap.Int("input_tokens", usage.InputTokens),
		zap.Int("output_tokens", usage.OutputTokens),
		zap.Int("cached_input_tokens", usage.CachedInputTokens),
		zap.Int("total_tokens", usage.TotalTokens),
	)
}

// LogError records a failed backend call.
func (l *Logger) LogError(model string, durationMs int64, promptID, authKind string, err error) {
	if l == nil || l.log == nil {
		return
	}
	defer func() { _ = recover() }()
	l.log.Warn("api error",
		zap.String("model", model),
		zap.Int64("duration_ms", durationMs),
		zap.String("prompt_id", promptID),
		zap.String("auth_kind", authKind),
		zap.Error(err),
	)
}
