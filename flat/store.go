package flat

import (
	"context"
	"sync"

	"github.com/fwojciec/navigator"
)

// Ensure Store implements navigator.VectorStore at compile time.
var _ navigator.VectorStore = (*Store)(nil)

// Store holds the current index. Searches share a read lock; replacing the
// index takes the write lock, so a rebuild never overlaps a search.
type Store struct {
	mu    sync.RWMutex
	index *navigator.Index
}

// NewStore returns a store serving idx, which may be nil.
func NewStore(idx *navigator.Index) *Store {
	return &Store{index: idx}
}

// Replace swaps in a new index.
func (s *Store) Replace(idx *navigator.Index) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = idx
}

// Index returns the current index, or nil.
func (s *Store) Index() *navigator.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Search queries the current index. Returns EEMPTY if no index is loaded.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]navigator.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index == nil {
		return nil, navigator.Errorf(navigator.EEMPTY, "no index loaded")
	}
	return s.index.Search(query, k)
}
