// Package toml loads navigator settings from a TOML file.
package toml

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/navigator"
	gotoml "github.com/pelletier/go-toml/v2"
)

// Defaults for the [fetch] section.
const (
	DefaultFetchConcurrency = 10
	DefaultFetchTimeout     = 10 * time.Second
)

// Config is the contents of the config file.
type Config struct {
	Models     ModelsSection     `toml:"models"`
	Generation GenerationSection `toml:"generation"`
	Embedding  EmbeddingSection  `toml:"embedding"`
	Fetch      FetchSection      `toml:"fetch"`
	Ollama     OllamaSection     `toml:"ollama"`
}

// ModelsSection selects the embedding and language models.
type ModelsSection struct {
	Embedding string `toml:"embedding"`
	Device    string `toml:"device"`
	Normalize bool   `toml:"normalize"`
	LLM       string `toml:"llm"`
}

// GenerationSection holds default generation parameters.
type GenerationSection struct {
	MaxNewTokens      int     `toml:"max_new_tokens"`
	TopK              int     `toml:"top_k"`
	TopP              float64 `toml:"top_p"`
	TypicalP          float64 `toml:"typical_p"`
	Temperature       float64 `toml:"temperature"`
	RepetitionPenalty float64 `toml:"repetition_penalty"`
}

// EmbeddingSection configures index builds.
type EmbeddingSection struct {
	// RequestsPerSecond caps embedding requests. Zero means no limit.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// FetchSection configures page fetching.
type FetchSection struct {
	Concurrency int    `toml:"concurrency"`
	Timeout     string `toml:"timeout"`
}

// OllamaSection configures the Ollama client.
type OllamaSection struct {
	Host string `toml:"host"`
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() *Config {
	models := navigator.DefaultModelConfig()
	g := models.Generation
	return &Config{
		Models: ModelsSection{
			Embedding: models.Embedding.Model,
			Device:    models.Embedding.Device,
			Normalize: models.Embedding.Normalize,
			LLM:       models.LLMModel,
		},
		Generation: GenerationSection{
			MaxNewTokens:      g.MaxNewTokens,
			TopK:              g.TopK,
			TopP:              g.TopP,
			TypicalP:          g.TypicalP,
			Temperature:       g.Temperature,
			RepetitionPenalty: g.RepetitionPenalty,
		},
		Fetch: FetchSection{
			Concurrency: DefaultFetchConcurrency,
			Timeout:     DefaultFetchTimeout.String(),
		},
	}
}

// Load reads the config at path. Keys absent from the file keep their
// defaults, and a missing file yields DefaultConfig.
// Returns EINVALID if the file cannot be parsed or holds invalid values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	return Decode(data, cfg)
}

// Decode parses data over cfg.
func Decode(data []byte, cfg *Config) (*Config, error) {
	dec := gotoml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var decErr *gotoml.DecodeError
		if errors.As(err, &decErr) {
			row, col := decErr.Position()
			return nil, navigator.Errorf(navigator.EINVALID, "config line %d column %d: %s", row, col, decErr.Error())
		}
		return nil, navigator.WrapError(navigator.EINVALID, err, "invalid config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg *Config) error {
	data, err := gotoml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate returns EINVALID if any setting is invalid.
func (c *Config) Validate() error {
	models := c.ModelConfig()
	if err := models.Validate(); err != nil {
		return err
	}
	if c.Embedding.RequestsPerSecond < 0 {
		return navigator.Errorf(navigator.EINVALID, "embedding requests_per_second must not be negative")
	}
	if c.Fetch.Concurrency <= 0 {
		return navigator.Errorf(navigator.EINVALID, "fetch concurrency must be positive")
	}
	if _, err := c.FetchTimeout(); err != nil {
		return err
	}
	return nil
}

// ModelConfig returns the model selection the config describes.
func (c *Config) ModelConfig() navigator.ModelConfig {
	return navigator.ModelConfig{
		Embedding: navigator.EmbeddingConfig{
			Model:     c.Models.Embedding,
			Device:    c.Models.Device,
			Normalize: c.Models.Normalize,
		},
		LLMModel: c.Models.LLM,
		Generation: navigator.GenerationConfig{
			MaxNewTokens:      c.Generation.MaxNewTokens,
			TopK:              c.Generation.TopK,
			TopP:              c.Generation.TopP,
			TypicalP:          c.Generation.TypicalP,
			Temperature:       c.Generation.Temperature,
			RepetitionPenalty: c.Generation.RepetitionPenalty,
		},
	}
}

// FetchTimeout parses the fetch timeout.
func (c *Config) FetchTimeout() (time.Duration, error) {
	if c.Fetch.Timeout == "" {
		return DefaultFetchTimeout, nil
	}
	d, err := time.ParseDuration(c.Fetch.Timeout)
	if err != nil || d <= 0 {
		return 0, navigator.Errorf(navigator.EINVALID, "invalid fetch timeout %q", c.Fetch.Timeout)
	}
	return d, nil
}
