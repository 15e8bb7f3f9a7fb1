package mock

import (
	"context"

	"github.com/fwojciec/rustindexed"
)

var _ rustindexed.StatsProvider = (*StatsProvider)(nil)

// StatsProvider is a mock implementation of rustindexed.StatsProvider.
type StatsProvider struct {
	StatsFn func(ctx context.Context) (*rustindexed.IndexStats, error)
}

func (s *StatsProvider) Stats(ctx context.Context) (*rustindexed.IndexStats, error) {
	return s.StatsFn(ctx)
}
