package mock

import (
	"context"

	"github.com/fwojciec/navigator"
)

var (
	_ navigator.Embedder  = (*Embedder)(nil)
	_ navigator.Generator = (*Generator)(nil)
)

// Embedder is a mock implementation of navigator.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, texts []string) ([][]float32, error)
	ModelFn func() string
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedFn(ctx, texts)
}

func (e *Embedder) Model() string {
	return e.ModelFn()
}

// Generator is a mock implementation of navigator.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, prompt string, params navigator.GenerationConfig) (string, error)
}

func (g *Generator) Generate(ctx context.Context, prompt string, params navigator.GenerationConfig) (string, error) {
	return g.GenerateFn(ctx, prompt, params)
}
