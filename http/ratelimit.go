package http

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTimeout is how long a client's limiter is kept after its
// last request.
const DefaultIdleTimeout = 10 * time.Minute

// ClientLimiter provides per-client rate limiting using token buckets keyed
// by remote IP. Limiters unused for IdleTimeout are dropped; a client seen
// again afterwards starts with a full bucket.
type ClientLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*clientEntry
	lastSweep time.Time
	rps       float64
	burst     int

	// IdleTimeout defaults to DefaultIdleTimeout.
	IdleTimeout time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter creates a ClientLimiter allowing rps requests per second
// per client. Burst below 1 is raised to 1.
func NewClientLimiter(rps float64, burst int) *ClientLimiter {
	return &ClientLimiter{
		limiters:    make(map[string]*clientEntry),
		rps:         rps,
		burst:       max(burst, 1),
		IdleTimeout: DefaultIdleTimeout,
		Now:         time.Now,
	}
}

// Allow reports whether client may make a request now.
func (l *ClientLimiter) Allow(client string) bool {
	l.mu.Lock()
	now := l.Now()
	if now.Sub(l.lastSweep) >= l.IdleTimeout {
		l.sweep(now)
	}
	entry, ok := l.limiters[client]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(rate.Limit(l.rps), l.burst)}
		l.limiters[client] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

// Len returns the number of clients currently tracked.
func (l *ClientLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// sweep drops idle limiters. Callers hold mu.
func (l *ClientLimiter) sweep(now time.Time) {
	for client, entry := range l.limiters {
		if now.Sub(entry.lastSeen) >= l.IdleTimeout {
			delete(l.limiters, client)
		}
	}
	l.lastSweep = now
}

// Middleware rejects requests over the client's limit with 429.
func (l *ClientLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
