package navigator

import (
	"cmp"
	"context"
	"math"
	"slices"
)

// Index is an immutable set of passages with their embedding vectors.
// Search is safe for concurrent use once the index is built.
type Index struct {
	EmbeddingModel string
	Dimension      int
	Normalized     bool
	Passages       []*Passage
	Vectors        [][]float32
}

// NewIndex returns an empty index for vectors of the given dimension.
func NewIndex(embeddingModel string, dimension int, normalized bool) *Index {
	return &Index{
		EmbeddingModel: embeddingModel,
		Dimension:      dimension,
		Normalized:     normalized,
	}
}

// Add appends a passage and its vector.
// Returns EINVALID if the vector has the wrong dimension.
func (idx *Index) Add(p *Passage, vec []float32) error {
	if len(vec) != idx.Dimension {
		return Errorf(EINVALID, "vector dimension %d, index dimension %d", len(vec), idx.Dimension)
	}
	idx.Passages = append(idx.Passages, p)
	idx.Vectors = append(idx.Vectors, vec)
	return nil
}

// Len returns the number of indexed passages.
func (idx *Index) Len() int {
	return len(idx.Passages)
}

// SearchResult is a passage matched by a query.
type SearchResult struct {
	Passage *Passage `json:"passage"`
	Score   float32  `json:"score"`
}

// Search returns at most k passages ordered by descending cosine similarity
// to query. Equal scores keep insertion order.
func (idx *Index) Search(query []float32, k int) ([]SearchResult, error) {
	if len(query) != idx.Dimension {
		return nil, Errorf(EINVALID, "query dimension %d, index dimension %d", len(query), idx.Dimension)
	}
	if k <= 0 || idx.Len() == 0 {
		return nil, nil
	}

	qnorm := Norm(query)
	results := make([]SearchResult, len(idx.Vectors))
	for i, vec := range idx.Vectors {
		results[i] = SearchResult{Passage: idx.Passages[i], Score: cosine(query, vec, qnorm)}
	}
	slices.SortStableFunc(results, func(a, b SearchResult) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return results[:min(k, len(results))], nil
}

// Indexer builds an index from passages.
type Indexer interface {
	// Build embeds every passage. Returns EEMPTY when passages is empty.
	Build(ctx context.Context, passages []*Passage) (*Index, error)
}

// VectorStore serves searches over the current index.
type VectorStore interface {
	Search(ctx context.Context, query []float32, k int) ([]SearchResult, error)

	// Index returns the current index, or nil if none is loaded.
	Index() *Index
}

// Norm returns the L2 norm of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalize scales v to unit length in place. Zero vectors are left as is.
func Normalize(v []float32) {
	n := Norm(v)
	if n == 0 {
		return
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / n)
	}
}

func cosine(q, v []float32, qnorm float64) float32 {
	vnorm := Norm(v)
	if qnorm == 0 || vnorm == 0 {
		return 0
	}
	var dot float64
	for i := range q {
		dot += float64(q[i]) * float64(v[i])
	}
	return float32(dot / (qnorm * vnorm))
}
