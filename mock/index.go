package mock

import (
	"context"

	"github.com/fwojciec/rustindexed"
)

var _ rustindexed.Index = (*Index)(nil)

// Index is a mock implementation of rustindexed.Index.
type Index struct {
	SearchFn      func(ctx context.Context, query string, opts rustindexed.SearchOptions) ([]*rustindexed.SearchResult, error)
	FuzzySearchFn func(ctx context.Context, term string, field rustindexed.Field, opts rustindexed.SearchOptions) ([]*rustindexed.SearchResult, error)
}

func (i *Index) Search(ctx context.Context, query string, opts rustindexed.SearchOptions) ([]*rustindexed.SearchResult, error) {
	return i.SearchFn(ctx, query, opts)
}

func (i *Index) FuzzySearch(ctx context.Context, term string, field rustindexed.Field, opts rustindexed.SearchOptions) ([]*rustindexed.SearchResult, error) {
	return i.FuzzySearchFn(ctx, term, field, opts)
}

var _ rustindexed.IndexWriter = (*IndexWriter)(nil)

// IndexWriter is a mock implementation of rustindexed.IndexWriter.
type IndexWriter struct {
	AddDocumentFn func(ctx context.Context, doc *rustindexed.IndexedDocument) (int64, error)
	CommitFn      func(ctx context.Context) error
}

func (w *IndexWriter) AddDocument(ctx context.Context, doc *rustindexed.IndexedDocument) (int64, error) {
	return w.AddDocumentFn(ctx, doc)
}

func (w *IndexWriter) Commit(ctx context.Context) error {
	return w.CommitFn(ctx)
}

// RecordingIndexWriter returns an IndexWriter mock that appends every added
// document to docs and assigns sequential IDs.
func RecordingIndexWriter(docs *[]*rustindexed.IndexedDocument) *IndexWriter {
	return &IndexWriter{
		AddDocumentFn: func(_ context.Context, doc *rustindexed.IndexedDocument) (int64, error) {
			*docs = append(*docs, doc)
			return int64(len(*docs)), nil
		},
		CommitFn: func(context.Context) error { return nil },
	}
}
