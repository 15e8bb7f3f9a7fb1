package sqlite

import (
	"context"
	"unicode/utf8"

	"github.com/fwojciec/rustindexed"
)

// maxFuzzyTerms caps how many vocabulary terms one fuzzy query expands to.
const maxFuzzyTerms = 64

// expand returns the vocabulary terms of field within one edit of term or
// of one of its prefixes, in vocabulary order.
func (idx *Index) expand(ctx context.Context, term string, field rustindexed.Field) ([]string, error) {
	q, unlock := idx.acquire()
	defer unlock()

	rows, err := q.QueryContext(ctx,
		"SELECT term FROM documents_vocab WHERE col = ? AND length(term) >= ? ORDER BY term",
		string(field), utf8.RuneCountInString(term)-1)
	if err != nil {
		return nil, unavailable(idx.path, err)
	}
	defer rows.Close()

	query := []rune(term)
	var terms []string
	for rows.Next() {
		var candidate string
		if err := rows.Scan(&candidate); err != nil {
			return nil, unavailable(idx.path, err)
		}
		if prefixWithinOneEdit(query, []rune(candidate)) {
			terms = append(terms, candidate)
			if len(terms) == maxFuzzyTerms {
				break
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(idx.path, err)
	}
	return terms, nil
}

// prefixWithinOneEdit reports whether some prefix of candidate is at most
// one edit from query. Edits are insertion, deletion, substitution and
// transposition of adjacent characters.
func prefixWithinOneEdit(query, candidate []rune) bool {
	n, m := len(query), len(candidate)

	// Rows are indexed by candidate prefix length, columns by query prefix
	// length. Only the last column matters.
	prev2 := make([]int, n+1)
	prev := make([]int, n+1)
	cur := make([]int, n+1)
	for i := range prev {
		prev[i] = i
	}
	if prev[n] <= 1 {
		return true
	}

	for j := 1; j <= m; j++ {
		cur[0] = j
		for i := 1; i <= n; i++ {
			cost := 1
			if query[i-1] == candidate[j-1] {
				cost = 0
			}
			d := min(prev[i]+1, cur[i-1]+1, prev[i-1]+cost)
			if i > 1 && j > 1 && query[i-1] == candidate[j-2] && query[i-2] == candidate[j-1] {
				d = min(d, prev2[i-2]+1)
			}
			cur[i] = d
		}
		if cur[n] <= 1 {
			return true
		}
		prev2, prev, cur = prev, cur, prev2
	}
	return false
}
