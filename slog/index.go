// Package slog provides logging decorators for the domain interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rustindexed"
)

// Ensure LoggingIndex implements rustindexed.Index.
var _ rustindexed.Index = (*LoggingIndex)(nil)

// LoggingIndex wraps an Index with debug logging of every query.
type LoggingIndex struct {
	next   rustindexed.Index
	name   string
	logger *slog.Logger
}

// NewLoggingIndex creates a new LoggingIndex. Name labels the wrapped index
// in log records.
func NewLoggingIndex(next rustindexed.Index, name string, logger *slog.Logger) *LoggingIndex {
	return &LoggingIndex{next: next, name: name, logger: logger}
}

// Search delegates to the wrapped index and logs the query.
func (i *LoggingIndex) Search(ctx context.Context, query string, opts rustindexed.SearchOptions) (results []*rustindexed.SearchResult, err error) {
	defer func(begin time.Time) {
		i.logger.Debug("index search",
			"index", i.name,
			"query", query,
			"limit", opts.Limit,
			"count", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return i.next.Search(ctx, query, opts)
}

// FuzzySearch delegates to the wrapped index and logs the query.
func (i *LoggingIndex) FuzzySearch(ctx context.Context, term string, field rustindexed.Field, opts rustindexed.SearchOptions) (results []*rustindexed.SearchResult, err error) {
	defer func(begin time.Time) {
		i.logger.Debug("index fuzzy search",
			"index", i.name,
			"term", term,
			"field", string(field),
			"count", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return i.next.FuzzySearch(ctx, term, field, opts)
}
