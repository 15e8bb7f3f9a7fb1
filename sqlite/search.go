package sqlite

import (
	"context"
	"strings"

	"github.com/fwojciec/rustindexed"
)

// Search runs an FTS5 MATCH query ranked by bm25.
func (idx *Index) Search(ctx context.Context, query string, opts rustindexed.SearchOptions) ([]*rustindexed.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, rustindexed.Errorf(rustindexed.EINVALID, "empty query")
	}
	return idx.match(ctx, columnFilter(opts.Fields, query), limitOr(opts.Limit, defaultSearchLimit), idx.snippet)
}

// FuzzySearch expands term against the field's vocabulary and matches any
// indexed term one edit away from term or from a prefix of it.
func (idx *Index) FuzzySearch(ctx context.Context, term string, field rustindexed.Field, opts rustindexed.SearchOptions) ([]*rustindexed.SearchResult, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, rustindexed.Errorf(rustindexed.EINVALID, "empty fuzzy term")
	}
	if !validField(field) {
		return nil, rustindexed.Errorf(rustindexed.EINVALID, "unknown field %q", field)
	}

	terms, err := idx.expand(ctx, term, field)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, nil
	}

	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = quote(t)
	}
	expr := columnFilter([]rustindexed.Field{field}, strings.Join(quoted, " OR "))
	return idx.match(ctx, expr, limitOr(opts.Limit, defaultFuzzyLimit), false)
}

func (idx *Index) match(ctx context.Context, expr string, limit int, withSnippet bool) ([]*rustindexed.SearchResult, error) {
	var query strings.Builder
	args := make([]any, 0, 4)

	query.WriteString("SELECT url, title, ")
	if idx.returnBody {
		query.WriteString("body, ")
	} else {
		query.WriteString("'', ")
	}
	if withSnippet {
		query.WriteString("snippet(documents, 2, ?, ?, ?, ?)")
		args = append(args, snippetOpen, snippetClose, snippetEllipsis, idx.snippetTokens)
	} else {
		query.WriteString("''")
	}
	query.WriteString(" FROM documents WHERE documents MATCH ? AND rowid <= ? ORDER BY rank LIMIT ?")
	args = append(args, expr, idx.watermark.Load(), limit)

	q, unlock := idx.acquire()
	defer unlock()

	rows, err := q.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, queryError(idx.path, expr, err)
	}
	defer rows.Close()

	var results []*rustindexed.SearchResult
	for rows.Next() {
		var r rustindexed.SearchResult
		if err := rows.Scan(&r.URL, &r.Title, &r.Body, &r.Snippet); err != nil {
			return nil, unavailable(idx.path, err)
		}
		r.Snippet = trimSnippet(flattenSnippet(r.Snippet), maxSnippetChars)
		results = append(results, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(idx.path, expr, err)
	}
	return results, nil
}

// columnFilter restricts expr to fields using FTS5 column filter syntax.
func columnFilter(fields []rustindexed.Field, expr string) string {
	switch len(fields) {
	case 0:
		return expr
	case 1:
		return string(fields[0]) + " : (" + expr + ")"
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return "{" + strings.Join(names, " ") + "} : (" + expr + ")"
}

func validField(f rustindexed.Field) bool {
	switch f {
	case rustindexed.FieldURL, rustindexed.FieldTitle, rustindexed.FieldBody:
		return true
	}
	return false
}

// flattenSnippet puts a snippet on a single line.
func flattenSnippet(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

// quote makes s an FTS5 string literal.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func limitOr(n, def int) int {
	if n > 0 {
		return n
	}
	return def
}
