package flat_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/navigator"
	"github.com/fwojciec/navigator/flat"
	"github.com/fwojciec/navigator/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lengthEmbedder embeds a text as (len, 1).
func lengthEmbedder(model string) *mock.Embedder {
	return &mock.Embedder{
		EmbedFn: func(_ context.Context, texts []string) ([][]float32, error) {
			out := make([][]float32, len(texts))
			for i, t := range texts {
				out[i] = []float32{float32(len(t)), 1}
			}
			return out, nil
		},
		ModelFn: func() string { return model },
	}
}

func passages(texts ...string) []*navigator.Passage {
	out := make([]*navigator.Passage, len(texts))
	for i, t := range texts {
		out[i] = &navigator.Passage{Text: t, SourceURL: "https://example.com/", Offset: i}
	}
	return out
}

func TestIndexer_Build(t *testing.T) {
	t.Parallel()

	t.Run("fails on zero passages", func(t *testing.T) {
		t.Parallel()

		_, err := flat.NewIndexer(lengthEmbedder("m"), true).Build(context.Background(), nil)

		assert.Equal(t, navigator.EEMPTY, navigator.ErrorCode(err))
	})

	t.Run("builds normalized index in passage order", func(t *testing.T) {
		t.Parallel()

		ix := flat.NewIndexer(lengthEmbedder("ollama:all-minilm"), true)
		ix.BatchSize = 2

		idx, err := ix.Build(context.Background(), passages("abc", "a", "abcdefg", "ab", "abcd"))

		require.NoError(t, err)
		assert.Equal(t, "ollama:all-minilm", idx.EmbeddingModel)
		assert.Equal(t, 2, idx.Dimension)
		assert.True(t, idx.Normalized)
		require.Equal(t, 5, idx.Len())
		for i, p := range idx.Passages {
			assert.Equal(t, i, p.Offset)
			assert.InDelta(t, 1.0, navigator.Norm(idx.Vectors[i]), 1e-6)
		}
		assert.Equal(t, "abcdefg", idx.Passages[2].Text)
	})

	t.Run("keeps raw vectors without normalization", func(t *testing.T) {
		t.Parallel()

		idx, err := flat.NewIndexer(lengthEmbedder("m"), false).Build(context.Background(), passages("abc"))

		require.NoError(t, err)
		assert.Equal(t, []float32{3, 1}, idx.Vectors[0])
	})

	t.Run("sends batches of the configured size", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var sizes []int
		emb := &mock.Embedder{
			EmbedFn: func(_ context.Context, texts []string) ([][]float32, error) {
				mu.Lock()
				sizes = append(sizes, len(texts))
				mu.Unlock()
				out := make([][]float32, len(texts))
				for i := range texts {
					out[i] = []float32{1}
				}
				return out, nil
			},
			ModelFn: func() string { return "m" },
		}
		ix := flat.NewIndexer(emb, false)
		ix.BatchSize = 3

		texts := make([]string, 10)
		for i := range texts {
			texts[i] = fmt.Sprint(i)
		}
		_, err := ix.WithRequestsPerSecond(1000).Build(context.Background(), passages(texts...))

		require.NoError(t, err)
		assert.ElementsMatch(t, []int{3, 3, 3, 1}, sizes)
	})

	t.Run("propagates embedder errors with their code", func(t *testing.T) {
		t.Parallel()

		emb := &mock.Embedder{
			EmbedFn: func(context.Context, []string) ([][]float32, error) {
				return nil, navigator.Errorf(navigator.EMODELUNAVAILABLE, "model %q not found", "nope")
			},
			ModelFn: func() string { return "nope" },
		}

		_, err := flat.NewIndexer(emb, true).Build(context.Background(), passages("a"))

		assert.Equal(t, navigator.EMODELUNAVAILABLE, navigator.ErrorCode(err))
	})

	t.Run("rejects wrong vector count", func(t *testing.T) {
		t.Parallel()

		emb := &mock.Embedder{
			EmbedFn: func(context.Context, []string) ([][]float32, error) {
				return [][]float32{}, nil
			},
			ModelFn: func() string { return "m" },
		}

		_, err := flat.NewIndexer(emb, true).Build(context.Background(), passages("a"))

		assert.Equal(t, navigator.EINTERNAL, navigator.ErrorCode(err))
	})

	t.Run("rejects inconsistent dimensions", func(t *testing.T) {
		t.Parallel()

		emb := &mock.Embedder{
			EmbedFn: func(_ context.Context, texts []string) ([][]float32, error) {
				if texts[0] == "b" {
					return [][]float32{{1, 2, 3}}, nil
				}
				return [][]float32{{1, 2}}, nil
			},
			ModelFn: func() string { return "m" },
		}
		ix := flat.NewIndexer(emb, true)
		ix.BatchSize = 1

		_, err := ix.Build(context.Background(), passages("a", "b"))

		assert.Equal(t, navigator.EINTERNAL, navigator.ErrorCode(err))
	})

	t.Run("stops on canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		emb := &mock.Embedder{
			EmbedFn: func(ctx context.Context, _ []string) ([][]float32, error) {
				return nil, ctx.Err()
			},
			ModelFn: func() string { return "m" },
		}

		_, err := flat.NewIndexer(emb, true).Build(ctx, passages("a"))

		assert.True(t, errors.Is(err, context.Canceled))
	})
}
