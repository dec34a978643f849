package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jg-phare/loom/pkg/assemble"
	"github.com/jg-phare/loom/pkg/config"
	"github.com/jg-phare/loom/pkg/genai"
	"github.com/jg-phare/loom/pkg/openai"
	"github.com/jg-phare/loom/pkg/session"
	"github.com/jg-phare/loom/pkg/telemetry"
	"github.com/jg-phare/loom/pkg/transport"
	"github.com/jg-phare/loom/pkg/types"
)

// runPrompt wires one prompt through the full pipeline: generator stream,
// assembler, transport, and optional session persistence.
func runPrompt(ctx context.Context, opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	authCfg := cfg.AuthConfig()
	if opts.model != "" {
		authCfg.Model = opts.model
	}
	applyPricingOverrides(cfg)

	logger := telemetry.Nop()
	if opts.verbose {
		zl, zerr := zap.NewDevelopment()
		if zerr != nil {
			return zerr
		}
		defer zl.Sync()
		logger = telemetry.New(zl)
	}

	gen, err := genai.NewContentGenerator(ctx, authCfg)
	if err != nil {
		return err
	}
	if og, ok := gen.(*openai.Generator); ok {
		og.SetTelemetry(logger)
	}

	sessionID := opts.sessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var writer *session.Writer
	if !opts.noSession {
		baseDir := opts.sessionDir
		if baseDir == "" {
			if baseDir = cfg.Session.Dir; baseDir == "" {
				baseDir = session.DefaultBaseDir()
			}
		}
		writer, err = session.NewWriter(baseDir, sessionID)
		if err != nil {
			return err
		}
		defer writer.Close()
	}

	var renderer *textRenderer
	var out transport.Transport
	if opts.outputFormat == "text" {
		renderer = &textRenderer{w: os.Stdout}
	} else {
		stdio := transport.NewStdioTransport(os.Stdin, os.Stdout)
		defer stdio.Close()
		out = stdio
	}

	emit := func(msg types.SDKMessage) {
		if writer != nil {
			_ = writer.Append(msg)
		}
		if renderer != nil {
			renderer.render(msg)
			return
		}
		if err := transport.WriteMessage(out, msg); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	var strategy assemble.Strategy = assemble.BatchStrategy{}
	if opts.outputFormat == "stream-json" {
		strategy = assemble.StreamingStrategy{IncludePartial: opts.includePartial}
	}

	cwd, _ := os.Getwd()
	emit(types.NewSystemInit(authCfg.Model, version, cwd, nil, sessionID))

	asm := assemble.New(sessionID, authCfg.Model, strategy, emit)
	results := assemble.NewResultBuilder(sessionID)
	tracker := openai.NewCostTracker()

	req := &genai.Request{
		Model: authCfg.Model,
		Contents: []genai.Content{
			{Role: "user", Parts: []genai.Part{genai.TextPart(opts.prompt)}},
		},
	}

	promptID := uuid.NewString()
	apiStart := time.Now()
	stream, err := gen.GenerateContentStream(ctx, req, promptID)
	if err != nil {
		emit(results.Error(err.Error()))
		return err
	}
	defer stream.Close()

	last, usage, err := consume(ctx, asm, stream)
	results.AddAPITime(time.Since(apiStart))
	results.IncrementTurns()
	if usage != nil {
		tracker.Record(authCfg.Model, *usage)
		results.AttachUsage(types.Usage{
			InputTokens:       usage.InputTokens,
			OutputTokens:      usage.OutputTokens,
			CachedInputTokens: usage.CachedInputTokens,
			TotalTokens:       usage.TotalTokens,
		})
	}
	results.SetModelUsage(tracker.Snapshot())

	if err != nil {
		emit(results.Error(err.Error()))
		return err
	}
	emit(results.Success(nil, last))

	if writer != nil {
		return writer.Close()
	}
	return nil
}

// consume drains the stream through the assembler, capturing the final usage
// so the result message can carry it.
func consume(ctx context.Context, asm *assemble.Assembler, stream genai.EventStream) (*types.AssistantMessage, *genai.Usage, error) {
	var usage *genai.Usage
	for {
		if err := ctx.Err(); err != nil {
			return nil, usage, err
		}
		ev, err := stream.Next()
		if err == io.EOF {
			return asm.Finalize(nil), usage, nil
		}
		if err != nil {
			return nil, usage, err
		}
		if ev.Type == genai.EventFinished && ev.Usage != nil {
			usage = ev.Usage
		}
		if err := asm.Process(nil, ev); err != nil {
			return nil, usage, err
		}
	}
}

// applyPricingOverrides pushes config model pricing into the cost tables.
func applyPricingOverrides(cfg *config.Config) {
	for model, info := range cfg.Models {
		if info.InputPerMTok == 0 && info.OutputPerMTok == 0 && info.CachedInputPerMTok == 0 {
			continue
		}
		openai.SetPricing(model, openai.ModelPricing{
			InputPerMTok:       info.InputPerMTok,
			OutputPerMTok:      info.OutputPerMTok,
			CachedInputPerMTok: info.CachedInputPerMTok,
		})
	}
}
