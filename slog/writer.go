package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rustindexed"
)

// Ensure LoggingIndexWriter implements rustindexed.IndexWriter.
var _ rustindexed.IndexWriter = (*LoggingIndexWriter)(nil)

// LoggingIndexWriter wraps an IndexWriter, logging each added document at
// debug level and each commit at info level.
type LoggingIndexWriter struct {
	next   rustindexed.IndexWriter
	name   string
	logger *slog.Logger
}

// NewLoggingIndexWriter creates a new LoggingIndexWriter.
func NewLoggingIndexWriter(next rustindexed.IndexWriter, name string, logger *slog.Logger) *LoggingIndexWriter {
	return &LoggingIndexWriter{next: next, name: name, logger: logger}
}

// AddDocument delegates to the wrapped writer and logs the document.
func (w *LoggingIndexWriter) AddDocument(ctx context.Context, doc *rustindexed.IndexedDocument) (id int64, err error) {
	defer func() {
		w.logger.Debug("add document",
			"index", w.name,
			"url", doc.URL,
			"bytes", len(doc.Body),
			"id", id,
			"err", err,
		)
	}()
	return w.next.AddDocument(ctx, doc)
}

// Commit delegates to the wrapped writer and logs the commit.
func (w *LoggingIndexWriter) Commit(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		w.logger.Info("commit",
			"index", w.name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.Commit(ctx)
}
