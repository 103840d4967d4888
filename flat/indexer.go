// Package flat implements an exact cosine-similarity vector index with a
// directory snapshot format.
package flat

import (
	"context"
	"fmt"

	"github.com/fwojciec/navigator"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Indexer defaults.
const (
	DefaultBatchSize   = 32
	DefaultConcurrency = 4
)

// Ensure Indexer implements navigator.Indexer at compile time.
var _ navigator.Indexer = (*Indexer)(nil)

// Indexer embeds passages in batches and builds an Index.
type Indexer struct {
	Embedder navigator.Embedder

	// Normalize scales every vector to unit length.
	Normalize bool

	BatchSize   int
	Concurrency int

	// Limiter throttles embedding requests. Nil means unlimited.
	Limiter *rate.Limiter
}

// NewIndexer returns an Indexer with default batching.
func NewIndexer(embedder navigator.Embedder, normalize bool) *Indexer {
	return &Indexer{
		Embedder:    embedder,
		Normalize:   normalize,
		BatchSize:   DefaultBatchSize,
		Concurrency: DefaultConcurrency,
	}
}

// WithRequestsPerSecond limits embedding requests to rps. Zero or less
// removes the limit.
func (ix *Indexer) WithRequestsPerSecond(rps float64) *Indexer {
	if rps <= 0 {
		ix.Limiter = nil
		return ix
	}
	ix.Limiter = rate.NewLimiter(rate.Limit(rps), 1)
	return ix
}

// Build embeds every passage and returns the index in passage order.
// Returns EEMPTY when there are no passages.
func (ix *Indexer) Build(ctx context.Context, passages []*navigator.Passage) (*navigator.Index, error) {
	if len(passages) == 0 {
		return nil, navigator.Errorf(navigator.EEMPTY, "no passages to index")
	}

	batchSize := ix.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	concurrency := ix.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	vectors := make([][]float32, len(passages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for start := 0; start < len(passages); start += batchSize {
		end := min(start+batchSize, len(passages))
		g.Go(func() error {
			return ix.embedBatch(gctx, passages[start:end], vectors[start:end])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, navigator.Errorf(navigator.EINTERNAL, "embedder returned empty vectors")
	}
	idx := navigator.NewIndex(ix.Embedder.Model(), dim, ix.Normalize)
	for i, vec := range vectors {
		if ix.Normalize {
			navigator.Normalize(vec)
		}
		if err := idx.Add(passages[i], vec); err != nil {
			return nil, navigator.Errorf(navigator.EINTERNAL, "passage %d: %s", i, navigator.ErrorMessage(err))
		}
	}
	return idx, nil
}

func (ix *Indexer) embedBatch(ctx context.Context, batch []*navigator.Passage, out [][]float32) error {
	if ix.Limiter != nil {
		if err := ix.Limiter.Wait(ctx); err != nil {
			return err
		}
	}

	texts := make([]string, len(batch))
	for i, p := range batch {
		texts[i] = p.Text
	}

	vecs, err := ix.Embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d passages: %w", len(texts), err)
	}
	if len(vecs) != len(texts) {
		return navigator.Errorf(navigator.EINTERNAL, "embedder returned %d vectors for %d texts", len(vecs), len(texts))
	}
	copy(out, vecs)
	return nil
}
