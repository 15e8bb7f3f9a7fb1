package rustindexed

import (
	"context"
	"strings"
)

// Scope restricts which indexes a search consults.
type Scope int

// Search scopes.
const (
	ScopeAll Scope = iota
	ScopeCodeOnly
)

// String returns the scope name used on the wire.
func (s Scope) String() string {
	switch s {
	case ScopeCodeOnly:
		return "code"
	default:
		return "all"
	}
}

// ParseScope converts a wire value into a Scope. Empty means ScopeAll.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return ScopeAll, nil
	case "code":
		return ScopeCodeOnly, nil
	}
	return ScopeAll, Errorf(EINVALID, "unknown search scope %q (want all or code)", s)
}

// ResultKind records which index produced a result.
type ResultKind string

// Result kinds.
const (
	KindPage ResultKind = "page"
	KindCode ResultKind = "code"
)

// SearchResult is a single ranked match.
type SearchResult struct {
	URL   string `json:"url"`
	Title string `json:"title"`

	// Snippet is a short highlighted excerpt. Empty when the index skips snippets.
	Snippet string `json:"snippet,omitempty"`

	// Body is the full indexed text. Set only by indexes configured to return it.
	Body string `json:"body,omitempty"`

	Kind ResultKind `json:"kind,omitempty"`
}

// Searcher ranks results across the page and code indexes.
type Searcher interface {
	// Search returns ranked results with each URL appearing at most once.
	// A query that matches nothing returns no results and no error; only
	// fatal index failures are returned as errors.
	Search(ctx context.Context, query string, scope Scope) ([]*SearchResult, error)
}
