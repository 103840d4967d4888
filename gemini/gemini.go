// Package gemini implements embedding, generation and token counting with
// Google Gemini through google.golang.org/genai.
package gemini

import (
	"context"
	"fmt"
	"os"

	"github.com/fwojciec/navigator"
	"google.golang.org/genai"
)

// APIKeyEnv is the environment variable holding the Gemini API key.
const APIKeyEnv = "GEMINI_API_KEY"

// TaskRetrievalDocument is the embedding task type used for indexed passages
// and questions alike, so both land in the same vector space.
const TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"

// Ensure service types implement interfaces at compile time.
var (
	_ navigator.Embedder  = (*Embedder)(nil)
	_ navigator.Generator = (*Generator)(nil)
)

// NewClient creates a Gemini API client. An empty apiKey falls back to
// GEMINI_API_KEY.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv(APIKeyEnv)
	}
	if apiKey == "" {
		return nil, navigator.Errorf(navigator.EMODELUNAVAILABLE, "%s not set", APIKeyEnv)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, navigator.WrapError(navigator.EMODELUNAVAILABLE, err, "could not create gemini client")
	}
	return client, nil
}

// Embedder embeds text with a Gemini embedding model.
type Embedder struct {
	client *genai.Client
	id     string
	model  string
}

// NewEmbedder creates an Embedder for a "gemini:<model>" id.
func NewEmbedder(client *genai.Client, cfg navigator.EmbeddingConfig) (*Embedder, error) {
	model, err := geminiModel(cfg.Model)
	if err != nil {
		return nil, err
	}
	return &Embedder{client: client, id: cfg.Model, model: model}, nil
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

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		TaskType: TaskRetrievalDocument,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini %s: %w", e.id, err)
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		return nil, navigator.Errorf(navigator.EINTERNAL, "gemini returned wrong number of embeddings for %d texts", len(texts))
	}

	vecs := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		if emb == nil {
			return nil, navigator.Errorf(navigator.EINTERNAL, "gemini returned empty embedding at %d", i)
		}
		vecs[i] = emb.Values
	}
	return vecs, nil
}

// Generator answers prompts with a Gemini model.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a Generator for a "gemini:<model>" id.
func NewGenerator(client *genai.Client, id string) (*Generator, error) {
	model, err := geminiModel(id)
	if err != nil {
		return nil, err
	}
	return &Generator{client: client, model: model}, nil
}

// Generate sends prompt as a single user turn and returns the response text.
func (g *Generator) Generate(ctx context.Context, prompt string, params navigator.GenerationConfig) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(params),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", navigator.Errorf(navigator.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig maps generation parameters onto a GenerateContentConfig.
// TypicalP and RepetitionPenalty have no Gemini counterpart.
func BuildConfig(params navigator.GenerationConfig) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		MaxOutputTokens: int32(params.MaxNewTokens),
		TopK:            genai.Ptr(float32(params.TopK)),
		TopP:            genai.Ptr(float32(params.TopP)),
		Temperature:     genai.Ptr(float32(params.Temperature)),
	}
}

func geminiModel(id string) (string, error) {
	provider, model, err := navigator.ParseModelID(id)
	if err != nil {
		return "", err
	}
	if provider != navigator.ProviderGemini {
		return "", navigator.Errorf(navigator.EINVALID, "model %q is not a gemini model", id)
	}
	return model, nil
}
