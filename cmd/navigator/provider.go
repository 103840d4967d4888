package main

import (
	"context"
	"sync"

	"github.com/fwojciec/navigator"
	"github.com/fwojciec/navigator/gemini"
	"github.com/fwojciec/navigator/ollama"
	"github.com/ollama/ollama/api"
	"google.golang.org/genai"
)

// modelFactory builds embedders and generators for model ids, creating each
// provider client on first use.
type modelFactory struct {
	ctx        context.Context
	ollamaHost string

	mu           sync.Mutex
	ollamaClient *api.Client
	geminiClient *genai.Client
}

func (f *modelFactory) embedder(cfg navigator.EmbeddingConfig) (navigator.Embedder, error) {
	provider, _, err := navigator.ParseModelID(cfg.Model)
	if err != nil {
		return nil, err
	}
	switch provider {
	case navigator.ProviderGemini:
		client, err := f.gemini()
		if err != nil {
			return nil, err
		}
		e, err := gemini.NewEmbedder(client, cfg)
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		client, err := f.ollama()
		if err != nil {
			return nil, err
		}
		e, err := ollama.NewEmbedder(client, cfg)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}

func (f *modelFactory) generator(id string) (navigator.Generator, error) {
	provider, _, err := navigator.ParseModelID(id)
	if err != nil {
		return nil, err
	}
	switch provider {
	case navigator.ProviderGemini:
		client, err := f.gemini()
		if err != nil {
			return nil, err
		}
		g, err := gemini.NewGenerator(client, id)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		client, err := f.ollama()
		if err != nil {
			return nil, err
		}
		g, err := ollama.NewGenerator(client, id)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
}

func (f *modelFactory) ollama() (*api.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ollamaClient == nil {
		c, err := ollama.NewClient(f.ollamaHost)
		if err != nil {
			return nil, err
		}
		f.ollamaClient = c
	}
	return f.ollamaClient, nil
}

func (f *modelFactory) gemini() (*genai.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.geminiClient == nil {
		c, err := gemini.NewClient(f.ctx, "")
		if err != nil {
			return nil, err
		}
		f.geminiClient = c
	}
	return f.geminiClient, nil
}
