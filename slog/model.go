package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/navigator"
)

// Ensure service types implement interfaces.
var (
	_ navigator.Embedder  = (*LoggingEmbedder)(nil)
	_ navigator.Generator = (*LoggingGenerator)(nil)
)

// LoggingEmbedder wraps an Embedder with debug logging.
type LoggingEmbedder struct {
	next   navigator.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder creates a new LoggingEmbedder.
func NewLoggingEmbedder(next navigator.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// Embed delegates to the wrapped embedder and logs the batch.
func (e *LoggingEmbedder) Embed(ctx context.Context, texts []string) (vecs [][]float32, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("embed",
			"model", e.next.Model(),
			"texts", len(texts),
			"vectors", len(vecs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Embed(ctx, texts)
}

// Model delegates to the wrapped embedder.
func (e *LoggingEmbedder) Model() string {
	return e.next.Model()
}

// LoggingGenerator wraps a Generator with logging. Prompts are logged only
// at debug level.
type LoggingGenerator struct {
	next   navigator.Generator
	logger *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator.
func NewLoggingGenerator(next navigator.Generator, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, logger: logger}
}

// Generate delegates to the wrapped generator and logs the call.
func (g *LoggingGenerator) Generate(ctx context.Context, prompt string, params navigator.GenerationConfig) (text string, err error) {
	g.logger.Debug("generate prompt", "prompt", prompt)
	defer func(begin time.Time) {
		g.logger.Info("generate",
			"prompt_chars", len(prompt),
			"answer_chars", len(text),
			"max_new_tokens", params.MaxNewTokens,
			"temperature", params.Temperature,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Generate(ctx, prompt, params)
}
