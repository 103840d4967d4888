// Package qa answers questions over an embedding index with a generative
// model: embed the question, retrieve passages, render the prompt, generate.
package qa

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fwojciec/navigator"
)

// DefaultRetrieveK is the number of passages retrieved per question.
const DefaultRetrieveK = 4

// Ensure Chain implements navigator.Asker at compile time.
var _ navigator.Asker = (*Chain)(nil)

// State is the configuration state of a Chain.
type State int

// Chain states. A chain is Queryable once it has both an index and a model.
const (
	Unconfigured State = iota
	IndexReady
	ModelReady
	Queryable
)

func (s State) String() string {
	switch s {
	case IndexReady:
		return "index ready"
	case ModelReady:
		return "model ready"
	case Queryable:
		return "queryable"
	default:
		return "unconfigured"
	}
}

// Chain is a retrieval-augmented question answering pipeline.
type Chain struct {
	// RetrieveK is the number of passages placed in the prompt.
	RetrieveK int

	// Timeout bounds each generation call. Zero means no limit beyond ctx.
	Timeout time.Duration

	mu        sync.RWMutex
	store     navigator.VectorStore
	embedder  navigator.Embedder
	generator navigator.Generator
	params    navigator.GenerationConfig
	template  navigator.PromptTemplate
}

// NewChain returns an unconfigured chain using the default prompt template.
func NewChain() *Chain {
	return &Chain{
		RetrieveK: DefaultRetrieveK,
		template:  navigator.DefaultPromptTemplate,
	}
}

// State reports the current configuration state.
func (c *Chain) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch {
	case c.store != nil && c.generator != nil:
		return Queryable
	case c.store != nil:
		return IndexReady
	case c.generator != nil:
		return ModelReady
	}
	return Unconfigured
}

// SetIndex sets the retrieval side. The embedder must be the model the
// index was built with; otherwise EMODELMISMATCH and nothing changes.
func (c *Chain) SetIndex(store navigator.VectorStore, embedder navigator.Embedder) error {
	if store == nil || embedder == nil {
		return navigator.Errorf(navigator.EINVALID, "store and embedder required")
	}
	if err := checkModel(store.Index(), embedder); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = store
	c.embedder = embedder
	return nil
}

// SetModel sets the generator and its parameters, replacing earlier ones.
func (c *Chain) SetModel(generator navigator.Generator, params navigator.GenerationConfig) error {
	if generator == nil {
		return navigator.Errorf(navigator.EINVALID, "generator required")
	}
	if err := params.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generator = generator
	c.params = params
	return nil
}

// SetPrompt replaces the prompt template.
func (c *Chain) SetPrompt(template navigator.PromptTemplate) error {
	if err := template.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.template = template
	return nil
}

// Ask answers question from the retrieved passages. The generator output is
// returned verbatim.
func (c *Chain) Ask(ctx context.Context, question string) (string, error) {
	if question == "" {
		return "", navigator.Errorf(navigator.EINVALID, "question required")
	}

	c.mu.RLock()
	store, embedder, generator := c.store, c.embedder, c.generator
	params, template, k := c.params, c.template, c.RetrieveK
	c.mu.RUnlock()

	if store == nil || generator == nil {
		return "", navigator.Errorf(navigator.ENOTQUERYABLE, "chain is %s: set both an index and a model before asking", c.State())
	}
	if k <= 0 {
		k = DefaultRetrieveK
	}

	passages, err := retrieve(ctx, store, embedder, question, k)
	if err != nil {
		return "", err
	}

	prompt := template.Render(passages, question)

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	answer, err := generator.Generate(ctx, prompt, params)
	if err != nil {
		if navigator.ErrorCode(err) == navigator.EMODELUNAVAILABLE {
			return "", err
		}
		return "", navigator.WrapError(navigator.EGENERATION, err, "generation failed")
	}
	return answer, nil
}

// Retrieve returns the passages that Ask would place in the prompt.
func (c *Chain) Retrieve(ctx context.Context, question string) ([]*navigator.Passage, error) {
	c.mu.RLock()
	store, embedder, k := c.store, c.embedder, c.RetrieveK
	c.mu.RUnlock()

	if store == nil {
		return nil, navigator.Errorf(navigator.ENOTQUERYABLE, "no index set")
	}
	if k <= 0 {
		k = DefaultRetrieveK
	}
	return retrieve(ctx, store, embedder, question, k)
}

func retrieve(ctx context.Context, store navigator.VectorStore, embedder navigator.Embedder, question string, k int) ([]*navigator.Passage, error) {
	idx := store.Index()
	if idx == nil || idx.Len() == 0 {
		return nil, navigator.Errorf(navigator.EEMPTY, "index has no passages")
	}
	// The store may have been rebuilt since SetIndex.
	if err := checkModel(idx, embedder); err != nil {
		return nil, err
	}

	vecs, err := embedder.Embed(ctx, []string{question})
	if err != nil {
		var appErr *navigator.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, navigator.WrapError(navigator.EMODELUNAVAILABLE, err, "embedding question with %s", embedder.Model())
	}
	if len(vecs) != 1 {
		return nil, navigator.Errorf(navigator.EINTERNAL, "embedder returned %d vectors for one question", len(vecs))
	}

	results, err := store.Search(ctx, vecs[0], k)
	if err != nil {
		return nil, err
	}

	passages := make([]*navigator.Passage, len(results))
	for i, r := range results {
		passages[i] = r.Passage
	}
	return passages, nil
}

func checkModel(idx *navigator.Index, embedder navigator.Embedder) error {
	if idx == nil {
		return nil
	}
	if idx.EmbeddingModel != embedder.Model() {
		return navigator.Errorf(navigator.EMODELMISMATCH, "index built with %q, embedder is %q", idx.EmbeddingModel, embedder.Model())
	}
	return nil
}
