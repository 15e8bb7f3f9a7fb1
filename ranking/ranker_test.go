package ranking_test

import (
	"context"
	"testing"

	"github.com/fwojciec/rustindexed"
	"github.com/fwojciec/rustindexed/mock"
	"github.com/fwojciec/rustindexed/ranking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(url string) *rustindexed.SearchResult {
	return &rustindexed.SearchResult{URL: url, Title: url}
}

// queryIndex returns an Index mock answering Search from byQuery. Fuzzy
// searches fail the test unless fuzzy is given.
func queryIndex(t *testing.T, byQuery map[string][]*rustindexed.SearchResult, fuzzy map[rustindexed.Field][]*rustindexed.SearchResult) *mock.Index {
	t.Helper()
	return &mock.Index{
		SearchFn: func(_ context.Context, query string, _ rustindexed.SearchOptions) ([]*rustindexed.SearchResult, error) {
			return byQuery[query], nil
		},
		FuzzySearchFn: func(_ context.Context, _ string, field rustindexed.Field, _ rustindexed.SearchOptions) ([]*rustindexed.SearchResult, error) {
			if fuzzy == nil {
				t.Error("fuzzy search should not be called")
				return nil, nil
			}
			return fuzzy[field], nil
		},
	}
}

func emptyIndex(t *testing.T) *mock.Index {
	t.Helper()
	return queryIndex(t, nil, map[rustindexed.Field][]*rustindexed.SearchResult{})
}

func resultURLs(results []*rustindexed.SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.URL
	}
	return out
}

func TestRanker_Search(t *testing.T) {
	t.Parallel()

	t.Run("lists phrase matches before term matches without duplicates", func(t *testing.T) {
		t.Parallel()

		page := queryIndex(t, map[string][]*rustindexed.SearchResult{
			`"borrow checker"`: {result("a")},
			"borrow checker":   {result("b"), result("a"), result("c")},
		}, nil)
		code := queryIndex(t, nil, nil)
		r := ranking.NewRanker(page, code)

		results, err := r.Search(context.Background(), "borrow checker", rustindexed.ScopeAll)

		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, resultURLs(results))
	})

	t.Run("queries page index before code index within a tier", func(t *testing.T) {
		t.Parallel()

		page := queryIndex(t, map[string][]*rustindexed.SearchResult{
			`"iter"`: {result("page")},
		}, nil)
		code := queryIndex(t, map[string][]*rustindexed.SearchResult{
			`"iter"`: {result("code"), result("page")},
			"iter":   {result("code2")},
		}, nil)
		r := ranking.NewRanker(page, code)

		results, err := r.Search(context.Background(), "iter", rustindexed.ScopeAll)

		require.NoError(t, err)
		require.Equal(t, []string{"page", "code", "code2"}, resultURLs(results))
		assert.Equal(t, rustindexed.KindPage, results[0].Kind)
		assert.Equal(t, rustindexed.KindCode, results[1].Kind)
		assert.Equal(t, rustindexed.KindCode, results[2].Kind)
	})

	t.Run("collapses repeated URLs within one index response", func(t *testing.T) {
		t.Parallel()

		page := queryIndex(t, map[string][]*rustindexed.SearchResult{
			`"trait"`: {result("a"), result("a")},
		}, nil)
		r := ranking.NewRanker(page, queryIndex(t, nil, nil))

		results, err := r.Search(context.Background(), "trait", rustindexed.ScopeAll)

		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, resultURLs(results))
	})

	t.Run("falls back to fuzzy title then body when nothing matches", func(t *testing.T) {
		t.Parallel()

		page := queryIndex(t, nil, map[rustindexed.Field][]*rustindexed.SearchResult{
			rustindexed.FieldTitle: {result("title-hit")},
			rustindexed.FieldBody:  {result("title-hit"), result("body-hit")},
		})
		code := queryIndex(t, nil, map[rustindexed.Field][]*rustindexed.SearchResult{
			rustindexed.FieldTitle: {result("code-title")},
			rustindexed.FieldBody:  {result("body-hit"), result("code-body")},
		})
		r := ranking.NewRanker(page, code)

		results, err := r.Search(context.Background(), "ownrship", rustindexed.ScopeAll)

		require.NoError(t, err)
		assert.Equal(t, []string{"title-hit", "code-title", "body-hit", "code-body"}, resultURLs(results))
	})

	t.Run("passes the raw query as the fuzzy term", func(t *testing.T) {
		t.Parallel()

		var terms []string
		idx := &mock.Index{
			SearchFn: func(context.Context, string, rustindexed.SearchOptions) ([]*rustindexed.SearchResult, error) {
				return nil, nil
			},
			FuzzySearchFn: func(_ context.Context, term string, _ rustindexed.Field, _ rustindexed.SearchOptions) ([]*rustindexed.SearchResult, error) {
				terms = append(terms, term)
				return nil, nil
			},
		}
		r := ranking.NewRanker(nil, idx)

		results, err := r.Search(context.Background(), "lifetmes", rustindexed.ScopeCodeOnly)

		require.NoError(t, err)
		assert.Empty(t, results)
		assert.Equal(t, []string{"lifetmes", "lifetmes"}, terms)
	})

	t.Run("skips fuzzy tier when earlier tiers match", func(t *testing.T) {
		t.Parallel()

		page := queryIndex(t, map[string][]*rustindexed.SearchResult{
			"closure capture": {result("a")},
		}, nil)
		r := ranking.NewRanker(page, queryIndex(t, nil, nil))

		results, err := r.Search(context.Background(), "closure capture", rustindexed.ScopeAll)

		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, resultURLs(results))
	})

	t.Run("code only scope never consults the page index", func(t *testing.T) {
		t.Parallel()

		page := &mock.Index{
			SearchFn: func(context.Context, string, rustindexed.SearchOptions) ([]*rustindexed.SearchResult, error) {
				t.Error("page index should not be searched")
				return nil, nil
			},
			FuzzySearchFn: func(context.Context, string, rustindexed.Field, rustindexed.SearchOptions) ([]*rustindexed.SearchResult, error) {
				t.Error("page index should not be searched")
				return nil, nil
			},
		}
		code := queryIndex(t, map[string][]*rustindexed.SearchResult{
			`"spawn"`: {result("thread")},
		}, nil)
		r := ranking.NewRanker(page, code)

		results, err := r.Search(context.Background(), "spawn", rustindexed.ScopeCodeOnly)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, rustindexed.KindCode, results[0].Kind)
	})

	t.Run("treats unparseable tier as empty", func(t *testing.T) {
		t.Parallel()

		page := &mock.Index{
			SearchFn: func(_ context.Context, query string, _ rustindexed.SearchOptions) ([]*rustindexed.SearchResult, error) {
				if query == `"Vec<T>"` {
					return nil, rustindexed.Errorf(rustindexed.EINVALID, "syntax error")
				}
				return []*rustindexed.SearchResult{result("vec")}, nil
			},
		}
		r := ranking.NewRanker(page, emptyIndex(t))

		results, err := r.Search(context.Background(), "Vec<T>", rustindexed.ScopeAll)

		require.NoError(t, err)
		assert.Equal(t, []string{"vec"}, resultURLs(results))
	})

	t.Run("returns no error when every tier is unparseable", func(t *testing.T) {
		t.Parallel()

		invalid := &mock.Index{
			SearchFn: func(context.Context, string, rustindexed.SearchOptions) ([]*rustindexed.SearchResult, error) {
				return nil, rustindexed.Errorf(rustindexed.EINVALID, "syntax error")
			},
			FuzzySearchFn: func(context.Context, string, rustindexed.Field, rustindexed.SearchOptions) ([]*rustindexed.SearchResult, error) {
				return nil, rustindexed.Errorf(rustindexed.EINVALID, "syntax error")
			},
		}
		r := ranking.NewRanker(invalid, invalid)

		results, err := r.Search(context.Background(), `"`, rustindexed.ScopeAll)

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("returns fatal index errors", func(t *testing.T) {
		t.Parallel()

		broken := &mock.Index{
			SearchFn: func(context.Context, string, rustindexed.SearchOptions) ([]*rustindexed.SearchResult, error) {
				return nil, rustindexed.Errorf(rustindexed.EUNAVAILABLE, "index unreadable")
			},
		}
		r := ranking.NewRanker(broken, emptyIndex(t))

		_, err := r.Search(context.Background(), "anything", rustindexed.ScopeAll)

		require.Error(t, err)
		assert.Equal(t, rustindexed.EUNAVAILABLE, rustindexed.ErrorCode(err))
	})

	t.Run("returns nothing for blank query", func(t *testing.T) {
		t.Parallel()

		r := ranking.NewRanker(queryIndex(t, nil, nil), queryIndex(t, nil, nil))

		results, err := r.Search(context.Background(), "   ", rustindexed.ScopeAll)

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("passes configured limits to indexes", func(t *testing.T) {
		t.Parallel()

		var searchLimits, fuzzyLimits []int
		idx := &mock.Index{
			SearchFn: func(_ context.Context, _ string, opts rustindexed.SearchOptions) ([]*rustindexed.SearchResult, error) {
				searchLimits = append(searchLimits, opts.Limit)
				return nil, nil
			},
			FuzzySearchFn: func(_ context.Context, _ string, _ rustindexed.Field, opts rustindexed.SearchOptions) ([]*rustindexed.SearchResult, error) {
				fuzzyLimits = append(fuzzyLimits, opts.Limit)
				return nil, nil
			},
		}
		r := &ranking.Ranker{Code: idx, SearchLimit: 50, FuzzyLimit: 10}

		_, err := r.Search(context.Background(), "q", rustindexed.ScopeCodeOnly)

		require.NoError(t, err)
		assert.Equal(t, []int{50, 50}, searchLimits)
		assert.Equal(t, []int{10, 10}, fuzzyLimits)
	})

	t.Run("highlights query tokens in bodies only", func(t *testing.T) {
		t.Parallel()

		code := queryIndex(t, map[string][]*rustindexed.SearchResult{
			`"x iter"`: {{URL: "u", Title: "x iter", Snippet: "x iter", Body: "let x = v; x.iter()"}},
		}, nil)
		r := ranking.NewRanker(emptyIndex(t), code)

		results, err := r.Search(context.Background(), "x iter", rustindexed.ScopeAll)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "let <b>x</b> = v; <b>x</b>.<b>iter</b>()", results[0].Body)
		assert.Equal(t, "x iter", results[0].Title)
		assert.Equal(t, "x iter", results[0].Snippet)
	})
}

func TestHighlight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		body  string
		want  string
	}{
		{
			name:  "is case-sensitive",
			query: "Vec",
			body:  "vec Vec",
			want:  "vec <b>Vec</b>",
		},
		{
			name:  "prefers longer overlapping token",
			query: "iter iterator",
			body:  "iterator iter",
			want:  "<b>iterator</b> <b>iter</b>",
		},
		{
			name:  "does not rematch inserted markers",
			query: "b",
			body:  "a b c",
			want:  "a <b>b</b> c",
		},
		{
			name:  "ignores repeated tokens",
			query: "fn fn",
			body:  "fn main",
			want:  "<b>fn</b> main",
		},
		{
			name:  "leaves empty body empty",
			query: "fn",
			body:  "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			results := []*rustindexed.SearchResult{{URL: "u", Body: tt.body}}
			ranking.Highlight(results, tt.query)

			assert.Equal(t, tt.want, results[0].Body)
		})
	}
}
