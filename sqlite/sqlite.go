// Package sqlite provides a full-text index backed by SQLite FTS5.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/rustindexed"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Compile-time interface verification.
var (
	_ rustindexed.Index       = (*Index)(nil)
	_ rustindexed.IndexWriter = (*Index)(nil)
)

const schema = `
	CREATE VIRTUAL TABLE documents USING fts5(
		url,
		title,
		body,
		content_hash UNINDEXED,
		tokenize = 'unicode61'
	);

	CREATE VIRTUAL TABLE documents_vocab USING fts5vocab(documents, 'col');
`

const (
	defaultSearchLimit   = 50
	defaultFuzzyLimit    = 10
	defaultSnippetTokens = 16
)

// Index is one on-disk FTS5 index. A handle returned by Create accepts
// writes; a handle returned by Open is read-only.
//
// Searches only see documents at or below the handle's watermark, which is
// captured when the handle is opened and advanced by Commit and Reload.
// Documents are append-only, so the watermark is a consistent snapshot.
type Index struct {
	db       *sql.DB
	path     string
	readOnly bool

	returnBody    bool
	snippet       bool
	snippetTokens int

	mu sync.Mutex // guards tx
	tx *sql.Tx

	watermark atomic.Int64
}

// Option configures an Index.
type Option func(*Index)

// WithReturnBody makes searches return the full indexed body.
func WithReturnBody() Option {
	return func(idx *Index) { idx.returnBody = true }
}

// WithoutSnippet disables snippet generation.
func WithoutSnippet() Option {
	return func(idx *Index) { idx.snippet = false }
}

// WithSnippetTokens bounds generated snippets to n tokens.
func WithSnippetTokens(n int) Option {
	return func(idx *Index) {
		if n > 0 {
			idx.snippetTokens = n
		}
	}
}

func newIndex(path string, readOnly bool, opts []Option) *Index {
	idx := &Index{
		path:          path,
		readOnly:      readOnly,
		snippet:       true,
		snippetTokens: defaultSnippetTokens,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Create creates a new index at path, including missing parent directories.
// Returns ECONFLICT if a file already exists at path.
func Create(ctx context.Context, path string, opts ...Option) (*Index, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, rustindexed.Errorf(rustindexed.ECONFLICT, "index %q already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat index: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	idx := newIndex(path, false, opts)
	idx.db = conn
	return idx, nil
}

// Open opens an existing index read-only. Returns EUNAVAILABLE if the file
// is missing, is not a database, or lacks the index schema.
func Open(ctx context.Context, path string, opts ...Option) (*Index, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, rustindexed.Errorf(rustindexed.EUNAVAILABLE, "index %q not found", path)
	}

	dsn := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(path),
		RawQuery: "mode=ro&_pragma=busy_timeout(5000)",
	}
	conn, err := sql.Open("sqlite3", dsn.String())
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	var tables int
	err = conn.QueryRowContext(ctx,
		"SELECT count(*) FROM sqlite_master WHERE name IN ('documents', 'documents_vocab')",
	).Scan(&tables)
	if err != nil {
		conn.Close()
		return nil, rustindexed.Errorf(rustindexed.EUNAVAILABLE, "index %q unreadable: %v", path, err)
	}
	if tables != 2 {
		conn.Close()
		return nil, rustindexed.Errorf(rustindexed.EUNAVAILABLE, "index %q has no index schema", path)
	}

	idx := newIndex(path, true, opts)
	idx.db = conn
	if err := idx.Reload(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return idx, nil
}

// Path returns the index file path.
func (idx *Index) Path() string {
	return idx.path
}

// Close rolls back uncommitted documents and closes the database.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.tx != nil {
		_ = idx.tx.Rollback()
		idx.tx = nil
	}
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// AddDocument appends doc to the pending write transaction.
func (idx *Index) AddDocument(ctx context.Context, doc *rustindexed.IndexedDocument) (int64, error) {
	if err := doc.Validate(); err != nil {
		return 0, err
	}
	if idx.readOnly {
		return 0, rustindexed.Errorf(rustindexed.EINVALID, "index %q is read-only", idx.path)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.tx == nil {
		tx, err := idx.db.BeginTx(ctx, nil)
		if err != nil {
			return 0, fmt.Errorf("failed to begin transaction: %w", err)
		}
		idx.tx = tx
	}

	res, err := idx.tx.ExecContext(ctx,
		"INSERT INTO documents (url, title, body, content_hash) VALUES (?, ?, ?, ?)",
		doc.URL, doc.Title, doc.Body, hashContent(doc.Body))
	if err != nil {
		return 0, fmt.Errorf("failed to insert document: %w", err)
	}
	return res.LastInsertId()
}

// Commit makes pending documents durable and advances this handle's
// watermark. Other handles see them only after Reload.
func (idx *Index) Commit(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.tx != nil {
		if err := idx.tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit: %w", err)
		}
		idx.tx = nil
	}

	id, err := latestRowID(ctx, idx.db)
	if err != nil {
		return err
	}
	idx.watermark.Store(id)
	return nil
}

// Reload advances the watermark to the latest committed document.
func (idx *Index) Reload(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	id, err := latestRowID(ctx, idx.querier())
	if err != nil {
		return err
	}
	// Rows written by this handle's open transaction are not committed.
	if idx.tx != nil {
		id = min(id, idx.watermark.Load())
	}
	idx.watermark.Store(id)
	return nil
}

// Stats counts the documents visible to this handle.
func (idx *Index) Stats(ctx context.Context) (*rustindexed.IndexStats, error) {
	q, unlock := idx.acquire()
	defer unlock()

	var stats rustindexed.IndexStats
	err := q.QueryRowContext(ctx,
		"SELECT count(*), count(DISTINCT content_hash) FROM documents WHERE rowid <= ?",
		idx.watermark.Load(),
	).Scan(&stats.Documents, &stats.UniqueBodies)
	if err != nil {
		return nil, unavailable(idx.path, err)
	}
	return &stats, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// querier returns the open write transaction, if any, so that reads on a
// writable handle do not wait for its single connection. Caller holds mu.
func (idx *Index) querier() querier {
	if idx.tx != nil {
		return idx.tx
	}
	return idx.db
}

// acquire returns the querier for a read. Read-only handles use the
// connection pool without locking.
func (idx *Index) acquire() (querier, func()) {
	if idx.readOnly {
		return idx.db, func() {}
	}
	idx.mu.Lock()
	return idx.querier(), idx.mu.Unlock
}

func latestRowID(ctx context.Context, q querier) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, "SELECT rowid FROM documents ORDER BY rowid DESC LIMIT 1").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read latest document: %w", err)
	}
	return id, nil
}
