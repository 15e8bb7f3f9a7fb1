package rustindexed

import "context"

// IndexedDocument is the unit committed to an index. URL identifies a result
// for ranking purposes but is not unique by construction: two pages deriving
// the same URL are both indexed.
type IndexedDocument struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Validate returns an error if the document contains invalid fields.
func (d *IndexedDocument) Validate() error {
	if d.URL == "" {
		return Errorf(EINVALID, "document URL required")
	}
	return nil
}

// Field names an indexed document field.
type Field string

// Indexed fields. All are stored and queryable.
const (
	FieldURL   Field = "url"
	FieldTitle Field = "title"
	FieldBody  Field = "body"
)

// SearchOptions configures a single index query.
type SearchOptions struct {
	// Fields restricts matching to the given fields. Empty means all fields.
	Fields []Field

	// Limit caps the number of results. Zero uses the index default.
	Limit int
}

// IndexStats summarizes the documents visible to an index handle.
type IndexStats struct {
	Documents    int `json:"documents"`
	UniqueBodies int `json:"uniqueBodies"`
}

// Index answers queries against one committed full-text index.
// Implementations must be safe for concurrent readers.
type Index interface {
	// Search runs a phrase or conjunctive query over the index.
	// Quoted input is an exact phrase; bare terms are combined with AND.
	// Returns EINVALID if the query cannot be parsed.
	Search(ctx context.Context, query string, opts SearchOptions) ([]*SearchResult, error)

	// FuzzySearch matches a single term against one field, allowing one edit
	// against any prefix of an indexed term. Results never carry snippets.
	FuzzySearch(ctx context.Context, term string, field Field, opts SearchOptions) ([]*SearchResult, error)
}

// IndexWriter appends documents to an index. Documents become visible only
// after Commit, and only to readers that reload afterwards.
type IndexWriter interface {
	// AddDocument buffers a document and returns its document ID.
	AddDocument(ctx context.Context, doc *IndexedDocument) (int64, error)

	// Commit makes all buffered documents durable and queryable.
	Commit(ctx context.Context) error
}

// StatsProvider reports what an index handle can currently see.
type StatsProvider interface {
	Stats(ctx context.Context) (*IndexStats, error)
}
