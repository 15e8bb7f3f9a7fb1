package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/rustindexed"
	rihttp "github.com/fwojciec/rustindexed/http"
	"github.com/fwojciec/rustindexed/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchBody struct {
	Results    []*rustindexed.SearchResult `json:"results"`
	DurationMS *int64                      `json:"duration_ms"`
	Error      string                      `json:"error"`
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, searchBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body searchBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func staticSearcher(results ...*rustindexed.SearchResult) *mock.Searcher {
	return &mock.Searcher{
		SearchFn: func(context.Context, string, rustindexed.Scope) ([]*rustindexed.SearchResult, error) {
			return results, nil
		},
	}
}

func TestServer_Search(t *testing.T) {
	t.Parallel()

	t.Run("returns results with duration", func(t *testing.T) {
		t.Parallel()

		var gotQuery string
		var gotScope rustindexed.Scope
		searcher := &mock.Searcher{
			SearchFn: func(_ context.Context, query string, scope rustindexed.Scope) ([]*rustindexed.SearchResult, error) {
				gotQuery, gotScope = query, scope
				return []*rustindexed.SearchResult{
					{URL: "https://x/own.html", Title: "Ownership - Book", Snippet: "each <b>value</b>", Kind: rustindexed.KindPage},
				}, nil
			},
		}
		s := rihttp.NewServer(searcher, nil)

		rec, body := get(t, s, "/search?q=borrow+checker")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "borrow checker", gotQuery)
		assert.Equal(t, rustindexed.ScopeAll, gotScope)
		require.Len(t, body.Results, 1)
		assert.Equal(t, "https://x/own.html", body.Results[0].URL)
		assert.Equal(t, "each <b>value</b>", body.Results[0].Snippet)
		require.NotNil(t, body.DurationMS)
	})

	t.Run("accepts trailing slash", func(t *testing.T) {
		t.Parallel()

		s := rihttp.NewServer(staticSearcher(&rustindexed.SearchResult{URL: "u"}), nil)

		rec, body := get(t, s, "/search/?q=x")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, body.Results, 1)
	})

	t.Run("encodes empty match as empty list", func(t *testing.T) {
		t.Parallel()

		s := rihttp.NewServer(staticSearcher(), nil)

		rec, _ := get(t, s, "/search?q=nothing")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"results":[]`)
	})

	t.Run("answers empty query with empty list", func(t *testing.T) {
		t.Parallel()

		var got []string
		s := rihttp.NewServer(&mock.Searcher{
			SearchFn: func(_ context.Context, query string, _ rustindexed.Scope) ([]*rustindexed.SearchResult, error) {
				got = append(got, query)
				return nil, nil
			},
		}, nil)

		rec, _ := get(t, s, "/search?q=")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"results":[]`)
		assert.Equal(t, []string{""}, got)
	})

	t.Run("passes code scope", func(t *testing.T) {
		t.Parallel()

		var gotScope rustindexed.Scope
		searcher := &mock.Searcher{
			SearchFn: func(_ context.Context, _ string, scope rustindexed.Scope) ([]*rustindexed.SearchResult, error) {
				gotScope = scope
				return nil, nil
			},
		}
		s := rihttp.NewServer(searcher, nil)

		rec, _ := get(t, s, "/search?q=spawn&scope=code")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, rustindexed.ScopeCodeOnly, gotScope)
	})

	t.Run("accepts and ignores page", func(t *testing.T) {
		t.Parallel()

		s := rihttp.NewServer(staticSearcher(&rustindexed.SearchResult{URL: "first"}), nil)

		rec, body := get(t, s, "/search?q=x&page=3")

		assert.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, body.Results, 1)
		assert.Equal(t, "first", body.Results[0].URL)
	})

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{name: "rejects missing query", target: "/search", want: "missing query parameter q"},
		{name: "rejects zero page", target: "/search?q=x&page=0", want: "page must be a positive integer"},
		{name: "rejects non-numeric page", target: "/search?q=x&page=two", want: "page must be a positive integer"},
		{name: "rejects unknown scope", target: "/search?q=x&scope=tests", want: `unknown search scope "tests" (want all or code)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := rihttp.NewServer(staticSearcher(), nil)

			rec, body := get(t, s, tt.target)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, body.Error)
		})
	}

	t.Run("returns 500 on fatal search error", func(t *testing.T) {
		t.Parallel()

		searcher := &mock.Searcher{
			SearchFn: func(context.Context, string, rustindexed.Scope) ([]*rustindexed.SearchResult, error) {
				return nil, rustindexed.Errorf(rustindexed.EUNAVAILABLE, "index unreadable")
			},
		}
		s := rihttp.NewServer(searcher, nil)

		rec, body := get(t, s, "/search?q=x")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "index unreadable", body.Error)
	})

	t.Run("hides internal error details", func(t *testing.T) {
		t.Parallel()

		searcher := &mock.Searcher{
			SearchFn: func(context.Context, string, rustindexed.Scope) ([]*rustindexed.SearchResult, error) {
				return nil, errors.New("sql: connection refused")
			},
		}
		s := rihttp.NewServer(searcher, nil)

		rec, body := get(t, s, "/search?q=x")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal error.", body.Error)
	})

	t.Run("recovers from handler panics", func(t *testing.T) {
		t.Parallel()

		searcher := &mock.Searcher{
			SearchFn: func(context.Context, string, rustindexed.Scope) ([]*rustindexed.SearchResult, error) {
				panic("boom")
			},
		}
		s := rihttp.NewServer(searcher, nil)

		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=x", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	s := rihttp.NewServer(staticSearcher(), nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_OpenServeClose(t *testing.T) {
	t.Parallel()

	s := rihttp.NewServer(staticSearcher(), nil)
	s.Addr = "127.0.0.1:0"
	require.NoError(t, s.Open())

	done := make(chan error, 1)
	go func() { done <- s.Serve() }()

	resp, err := http.Get(s.URL() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Close())
	assert.NoError(t, <-done)
}
