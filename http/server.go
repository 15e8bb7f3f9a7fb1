// Package http serves the search API over HTTP.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/rustindexed"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ShutdownTimeout bounds graceful shutdown in Close.
const ShutdownTimeout = 5 * time.Second

// Server is the HTTP search API.
type Server struct {
	ln     net.Listener
	server *http.Server
	router chi.Router

	searcher rustindexed.Searcher
	logger   *slog.Logger
	limiter  *ClientLimiter

	// Addr is the address to listen on, e.g. "127.0.0.1:3000".
	Addr string
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit limits each client IP to rps requests per second with the
// given burst. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 {
			s.limiter = NewClientLimiter(rps, burst)
		}
	}
}

// NewServer creates a Server answering queries with searcher.
func NewServer(searcher rustindexed.Searcher, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{searcher: searcher, logger: logger}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.logger))
	if s.limiter != nil {
		r.Use(s.limiter.Middleware)
	}

	r.Get("/health", s.handleHealth)
	r.Get("/search", s.handleSearch)
	r.Get("/search/", s.handleSearch)

	s.router = r
	s.server = &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Open binds the listener on Addr. Serve must be called to accept requests.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	return nil
}

// Serve accepts connections until Close is called.
func (s *Server) Serve() error {
	if err := s.server.Serve(s.ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// URL returns the local base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// searchResponse is the body of a successful search.
type searchResponse struct {
	Results    []*rustindexed.SearchResult `json:"results"`
	DurationMS int64                       `json:"duration_ms"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	// An empty q is a valid query that matches nothing.
	query := params.Get("q")
	if !params.Has("q") {
		writeError(w, rustindexed.Errorf(rustindexed.EINVALID, "missing query parameter q"))
		return
	}

	// Page is validated but results always start at the first match.
	if page := params.Get("page"); page != "" {
		if n, err := strconv.Atoi(page); err != nil || n < 1 {
			writeError(w, rustindexed.Errorf(rustindexed.EINVALID, "page must be a positive integer"))
			return
		}
	}

	scope, err := rustindexed.ParseScope(params.Get("scope"))
	if err != nil {
		writeError(w, err)
		return
	}

	begin := time.Now()
	results, err := s.searcher.Search(r.Context(), query, scope)
	if err != nil {
		s.logger.Error("search failed",
			"query", query,
			"request_id", middleware.GetReqID(r.Context()),
			"err", err,
		)
		writeError(w, err)
		return
	}
	if results == nil {
		results = []*rustindexed.SearchResult{}
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Results:    results,
		DurationMS: time.Since(begin).Milliseconds(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	rustindexed.EINVALID:  http.StatusBadRequest,
	rustindexed.ENOTFOUND: http.StatusNotFound,
}

// writeError writes err as a JSON error body. Codes without a mapping are
// internal server errors.
func writeError(w http.ResponseWriter, err error) {
	status, ok := codes[rustindexed.ErrorCode(err)]
	if !ok {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, map[string]string{"error": rustindexed.ErrorMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
