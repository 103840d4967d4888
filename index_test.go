package navigator_test

import (
	"testing"

	"github.com/fwojciec/navigator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T, vecs ...[]float32) *navigator.Index {
	t.Helper()
	idx := navigator.NewIndex("ollama:all-minilm", len(vecs[0]), false)
	for i, v := range vecs {
		require.NoError(t, idx.Add(&navigator.Passage{Text: string(rune('a' + i))}, v))
	}
	return idx
}

func texts(results []navigator.SearchResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Passage.Text)
	}
	return out
}

func TestIndex_Search(t *testing.T) {
	t.Parallel()

	t.Run("orders by descending cosine similarity", func(t *testing.T) {
		t.Parallel()

		idx := newTestIndex(t,
			[]float32{0, 1},
			[]float32{1, 0},
			[]float32{1, 1},
		)

		results, err := idx.Search([]float32{2, 0}, 3)

		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c", "a"}, texts(results))
		assert.InDelta(t, 1.0, results[0].Score, 1e-6)
		assert.InDelta(t, 0.7071, results[1].Score, 1e-4)
		assert.InDelta(t, 0.0, results[2].Score, 1e-6)
	})

	t.Run("returns at most k results", func(t *testing.T) {
		t.Parallel()

		idx := newTestIndex(t, []float32{1, 0}, []float32{0, 1}, []float32{1, 1})

		results, err := idx.Search([]float32{1, 0}, 2)

		require.NoError(t, err)
		assert.Len(t, results, 2)

		results, err = idx.Search([]float32{1, 0}, 10)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("breaks ties by insertion order", func(t *testing.T) {
		t.Parallel()

		idx := newTestIndex(t, []float32{0, 1}, []float32{2, 0}, []float32{1, 0}, []float32{3, 0})

		results, err := idx.Search([]float32{1, 0}, 3)

		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c", "d"}, texts(results))
	})

	t.Run("returns nothing for non-positive k", func(t *testing.T) {
		t.Parallel()

		idx := newTestIndex(t, []float32{1, 0})

		results, err := idx.Search([]float32{1, 0}, 0)

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("rejects query of wrong dimension", func(t *testing.T) {
		t.Parallel()

		idx := newTestIndex(t, []float32{1, 0})

		_, err := idx.Search([]float32{1, 0, 0}, 1)

		assert.Equal(t, navigator.EINVALID, navigator.ErrorCode(err))
	})

	t.Run("scores zero vectors as zero", func(t *testing.T) {
		t.Parallel()

		idx := newTestIndex(t, []float32{0, 0}, []float32{1, 0})

		results, err := idx.Search([]float32{1, 0}, 2)

		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, texts(results))
	})
}

func TestIndex_Add(t *testing.T) {
	t.Parallel()

	idx := navigator.NewIndex("m", 3, true)

	err := idx.Add(&navigator.Passage{Text: "x"}, []float32{1, 2})

	assert.Equal(t, navigator.EINVALID, navigator.ErrorCode(err))
	assert.Zero(t, idx.Len())
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	v := []float32{3, 4}
	navigator.Normalize(v)
	assert.InDeltaSlice(t, []float32{0.6, 0.8}, v, 1e-6)
	assert.InDelta(t, 1.0, navigator.Norm(v), 1e-6)

	zero := []float32{0, 0}
	navigator.Normalize(zero)
	assert.Equal(t, []float32{0, 0}, zero)
}
