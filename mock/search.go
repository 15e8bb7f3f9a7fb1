package mock

import (
	"context"

	"github.com/fwojciec/rustindexed"
)

var _ rustindexed.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of rustindexed.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, query string, scope rustindexed.Scope) ([]*rustindexed.SearchResult, error)
}

func (s *Searcher) Search(ctx context.Context, query string, scope rustindexed.Scope) ([]*rustindexed.SearchResult, error) {
	return s.SearchFn(ctx, query, scope)
}
