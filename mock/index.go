package mock

import (
	"context"

	"github.com/fwojciec/navigator"
)

var _ navigator.VectorStore = (*VectorStore)(nil)

// VectorStore is a mock implementation of navigator.VectorStore.
type VectorStore struct {
	SearchFn func(ctx context.Context, query []float32, k int) ([]navigator.SearchResult, error)
	IndexFn  func() *navigator.Index
}

func (s *VectorStore) Search(ctx context.Context, query []float32, k int) ([]navigator.SearchResult, error) {
	return s.SearchFn(ctx, query, k)
}

func (s *VectorStore) Index() *navigator.Index {
	return s.IndexFn()
}
