// Package ranking merges tiered queries over the page and code indexes into
// one deduplicated, highlighted result list.
package ranking

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/fwojciec/rustindexed"
)

// Ensure Ranker implements rustindexed.Searcher at compile time.
var _ rustindexed.Searcher = (*Ranker)(nil)

// Highlight markers wrapped around query tokens found in result bodies.
const (
	HighlightOpen  = "<b>"
	HighlightClose = "</b>"
)

// Ranker searches in three tiers: exact phrase, then all terms, then fuzzy
// title and body matches when the first two tiers find nothing. A result
// URL is reported once, by the first tier and index that returns it.
type Ranker struct {
	Page rustindexed.Index
	Code rustindexed.Index

	// SearchLimit and FuzzyLimit cap each index query. Zero uses the
	// index defaults.
	SearchLimit int
	FuzzyLimit  int
}

// NewRanker creates a Ranker over the page and code indexes.
func NewRanker(page, code rustindexed.Index) *Ranker {
	return &Ranker{Page: page, Code: code}
}

type target struct {
	index rustindexed.Index
	kind  rustindexed.ResultKind
}

// tierFunc runs one tier's query against a single index.
type tierFunc func(ctx context.Context, idx rustindexed.Index) ([]*rustindexed.SearchResult, error)

// Search returns ranked results for query. Query syntax the index rejects
// empties that tier only; other index failures are returned.
func (r *Ranker) Search(ctx context.Context, query string, scope rustindexed.Scope) ([]*rustindexed.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	m := &merger{targets: r.targets(scope), seen: make(map[string]struct{})}
	searchOpts := rustindexed.SearchOptions{Limit: r.SearchLimit}
	fuzzyOpts := rustindexed.SearchOptions{Limit: r.FuzzyLimit}

	tiers := []tierFunc{
		func(ctx context.Context, idx rustindexed.Index) ([]*rustindexed.SearchResult, error) {
			return idx.Search(ctx, `"`+query+`"`, searchOpts)
		},
		func(ctx context.Context, idx rustindexed.Index) ([]*rustindexed.SearchResult, error) {
			return idx.Search(ctx, query, searchOpts)
		},
	}
	for _, tier := range tiers {
		if err := m.run(ctx, tier); err != nil {
			return nil, err
		}
	}

	if len(m.results) == 0 {
		for _, field := range []rustindexed.Field{rustindexed.FieldTitle, rustindexed.FieldBody} {
			err := m.run(ctx, func(ctx context.Context, idx rustindexed.Index) ([]*rustindexed.SearchResult, error) {
				return idx.FuzzySearch(ctx, query, field, fuzzyOpts)
			})
			if err != nil {
				return nil, err
			}
		}
	}

	Highlight(m.results, query)
	return m.results, nil
}

// targets lists the indexes consulted for scope, page index first.
func (r *Ranker) targets(scope rustindexed.Scope) []target {
	var targets []target
	if scope != rustindexed.ScopeCodeOnly && r.Page != nil {
		targets = append(targets, target{index: r.Page, kind: rustindexed.KindPage})
	}
	if r.Code != nil {
		targets = append(targets, target{index: r.Code, kind: rustindexed.KindCode})
	}
	return targets
}

// merger accumulates results across tiers, keeping the first result per URL.
type merger struct {
	targets []target
	seen    map[string]struct{}
	results []*rustindexed.SearchResult
}

func (m *merger) run(ctx context.Context, tier tierFunc) error {
	for _, t := range m.targets {
		found, err := tier(ctx, t.index)
		if rustindexed.ErrorCode(err) == rustindexed.EINVALID {
			continue
		}
		if err != nil {
			return fmt.Errorf("%s index: %w", t.kind, err)
		}

		for _, res := range found {
			if _, ok := m.seen[res.URL]; ok {
				continue
			}
			m.seen[res.URL] = struct{}{}
			res.Kind = t.kind
			m.results = append(m.results, res)
		}
	}
	return nil
}

// Highlight wraps every case-sensitive occurrence of each whitespace
// separated token of query in result bodies with highlight markers. Titles
// and snippets are left untouched. Longer tokens win where tokens overlap
// and inserted markers are never matched again.
func Highlight(results []*rustindexed.SearchResult, query string) {
	tokens := slices.Compact(slices.SortedFunc(slices.Values(strings.Fields(query)), func(a, b string) int {
		return cmp.Or(cmp.Compare(len(b), len(a)), strings.Compare(a, b))
	}))
	if len(tokens) == 0 {
		return
	}

	pairs := make([]string, 0, 2*len(tokens))
	for _, tok := range tokens {
		pairs = append(pairs, tok, HighlightOpen+tok+HighlightClose)
	}
	replacer := strings.NewReplacer(pairs...)

	for _, res := range results {
		if res.Body != "" {
			res.Body = replacer.Replace(res.Body)
		}
	}
}
