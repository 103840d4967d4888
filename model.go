package navigator

import (
	"context"
	"strings"
)

// Model providers.
const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// Model defaults.
const (
	DefaultEmbeddingModel = "ollama:all-minilm"
	DefaultLLMModel       = "ollama:mistral"
	DefaultDevice         = "cpu"
)

// Embedder turns text into vectors.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the model id the embedder was built for.
	Model() string
}

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, params GenerationConfig) (string, error)
}

// ModelConfig selects the embedding and language models for a session.
type ModelConfig struct {
	Embedding  EmbeddingConfig  `json:"embedding"`
	LLMModel   string           `json:"llmModel"`
	Generation GenerationConfig `json:"generation"`
}

// DefaultModelConfig returns the default model selection.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Embedding:  DefaultEmbeddingConfig(),
		LLMModel:   DefaultLLMModel,
		Generation: DefaultGenerationConfig(),
	}
}

// Validate returns an error if the configuration is invalid.
func (c *ModelConfig) Validate() error {
	if err := c.Embedding.Validate(); err != nil {
		return err
	}
	if _, _, err := ParseModelID(c.LLMModel); err != nil {
		return err
	}
	return c.Generation.Validate()
}

// EmbeddingConfig selects the embedding model.
type EmbeddingConfig struct {
	Model     string `json:"model"`
	Device    string `json:"device"`
	Normalize bool   `json:"normalize"`
}

// DefaultEmbeddingConfig returns the default embedding selection.
func DefaultEmbeddingConfig() EmbeddingConfig {
	return EmbeddingConfig{
		Model:     DefaultEmbeddingModel,
		Device:    DefaultDevice,
		Normalize: true,
	}
}

// Validate returns an error if the configuration is invalid.
func (c *EmbeddingConfig) Validate() error {
	if _, _, err := ParseModelID(c.Model); err != nil {
		return err
	}
	switch c.Device {
	case "cpu", "cuda", "gpu":
	default:
		return Errorf(EINVALID, "unknown device %q", c.Device)
	}
	return nil
}

// GenerationConfig holds sampling parameters for a Generator.
type GenerationConfig struct {
	MaxNewTokens      int     `json:"maxNewTokens"`
	TopK              int     `json:"topK"`
	TopP              float64 `json:"topP"`
	TypicalP          float64 `json:"typicalP"`
	Temperature       float64 `json:"temperature"`
	RepetitionPenalty float64 `json:"repetitionPenalty"`
}

// DefaultGenerationConfig returns the default sampling parameters.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		MaxNewTokens:      250,
		TopK:              3,
		TopP:              0.95,
		TypicalP:          0.95,
		Temperature:       0.01,
		RepetitionPenalty: 1.035,
	}
}

// Validate returns an error if any parameter is out of range.
func (c *GenerationConfig) Validate() error {
	switch {
	case c.MaxNewTokens <= 0:
		return Errorf(EINVALID, "max new tokens must be positive")
	case c.TopK < 0:
		return Errorf(EINVALID, "top k must not be negative")
	case c.TopP < 0 || c.TopP > 1:
		return Errorf(EINVALID, "top p must be in [0, 1]")
	case c.TypicalP < 0 || c.TypicalP > 1:
		return Errorf(EINVALID, "typical p must be in [0, 1]")
	case c.Temperature < 0:
		return Errorf(EINVALID, "temperature must not be negative")
	case c.RepetitionPenalty <= 0:
		return Errorf(EINVALID, "repetition penalty must be positive")
	}
	return nil
}

// ParseModelID splits a "provider:model" id. An id without a known provider
// prefix belongs to ollama, whose model names may contain colons themselves
// (e.g. "mistral:7b").
func ParseModelID(id string) (provider, model string, err error) {
	if id == "" {
		return "", "", Errorf(EINVALID, "model id required")
	}
	if p, m, ok := strings.Cut(id, ":"); ok {
		switch p {
		case ProviderOllama, ProviderGemini:
			if m == "" {
				return "", "", Errorf(EINVALID, "model id %q has no model name", id)
			}
			return p, m, nil
		}
	}
	return ProviderOllama, id, nil
}
