// Package ollama implements embedding and generation with a local Ollama
// server through github.com/ollama/ollama/api.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fwojciec/navigator"
	"github.com/ollama/ollama/api"
)

// Ensure service types implement interfaces at compile time.
var (
	_ navigator.Embedder  = (*Embedder)(nil)
	_ navigator.Generator = (*Generator)(nil)
)

// NewClient returns a client for host. An empty host falls back to
// OLLAMA_HOST and then the default local server.
func NewClient(host string) (*api.Client, error) {
	if host == "" {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, navigator.WrapError(navigator.EMODELUNAVAILABLE, err, "could not create ollama client")
		}
		return client, nil
	}
	u, err := url.Parse(host)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, navigator.Errorf(navigator.EINVALID, "invalid ollama host %q", host)
	}
	return api.NewClient(u, http.DefaultClient), nil
}

// Embedder embeds text with an Ollama embedding model.
type Embedder struct {
	client  *api.Client
	id      string
	model   string
	options map[string]any
}

// NewEmbedder creates an Embedder for the model id ("ollama:<model>" or a
// bare model name). Device "cpu" keeps the model off the GPU.
func NewEmbedder(client *api.Client, cfg navigator.EmbeddingConfig) (*Embedder, error) {
	provider, model, err := navigator.ParseModelID(cfg.Model)
	if err != nil {
		return nil, err
	}
	if provider != navigator.ProviderOllama {
		return nil, navigator.Errorf(navigator.EINVALID, "model %q is not an ollama model", cfg.Model)
	}
	return &Embedder{
		client:  client,
		id:      cfg.Model,
		model:   model,
		options: DeviceOptions(cfg.Device),
	}, nil
}

// Model returns the model id the embedder was created with.
func (e *Embedder) Model() string {
	return e.id
}

// Embed returns one vector per text.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.Embed(ctx, &api.EmbedRequest{
		Model:   e.model,
		Input:   texts,
		Options: e.options,
	})
	if err != nil {
		return nil, modelError(err, e.id)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, navigator.Errorf(navigator.EINTERNAL, "ollama returned %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}
	return resp.Embeddings, nil
}

// Generator answers prompts with an Ollama language model.
type Generator struct {
	client *api.Client
	id     string
	model  string
}

// NewGenerator creates a Generator for the model id.
func NewGenerator(client *api.Client, id string) (*Generator, error) {
	provider, model, err := navigator.ParseModelID(id)
	if err != nil {
		return nil, err
	}
	if provider != navigator.ProviderOllama {
		return nil, navigator.Errorf(navigator.EINVALID, "model %q is not an ollama model", id)
	}
	return &Generator{client: client, id: id, model: model}, nil
}

// Generate runs a single non-streaming completion and returns its text.
func (g *Generator) Generate(ctx context.Context, prompt string, params navigator.GenerationConfig) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:   g.model,
		Prompt:  prompt,
		Stream:  &stream,
		Options: GenerateOptions(params),
	}

	var out string
	err := g.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out += resp.Response
		return nil
	})
	if err != nil {
		return "", modelError(err, g.id)
	}
	return out, nil
}

// GenerateOptions maps generation parameters onto Ollama option keys.
func GenerateOptions(params navigator.GenerationConfig) map[string]any {
	return map[string]any{
		"num_predict":    params.MaxNewTokens,
		"top_k":          params.TopK,
		"top_p":          params.TopP,
		"typical_p":      params.TypicalP,
		"temperature":    params.Temperature,
		"repeat_penalty": params.RepetitionPenalty,
	}
}

// DeviceOptions maps a device name onto Ollama options.
func DeviceOptions(device string) map[string]any {
	if device == "cpu" {
		return map[string]any{"num_gpu": 0}
	}
	return nil
}

// modelError classifies a client error. A missing model is
// EMODELUNAVAILABLE; other errors keep their cause.
func modelError(err error, id string) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return navigator.WrapError(navigator.EMODELUNAVAILABLE, err, "ollama model %q unavailable", id)
	}
	return fmt.Errorf("ollama %s: %w", id, err)
}
