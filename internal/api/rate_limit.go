package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/vytor/mistakeflash/internal/errors"
)

// DefaultLimiterIdleTTL is how long an unused bucket is kept.
const DefaultLimiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per key. Buckets idle for longer than
// the idle TTL are dropped on a later call.
type RateLimiter struct {
	mu        sync.Mutex
	limits    map[string]*limiterEntry
	rate      rate.Limit
	burst     int
	idleTTL   time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// RateLimiterOption configures a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithLimiterClock replaces the wall clock used for idle tracking.
func WithLimiterClock(now func() time.Time) RateLimiterOption {
	return func(rl *RateLimiter) { rl.now = now }
}

// WithIdleTTL sets how long an unused bucket survives.
func WithIdleTTL(d time.Duration) RateLimiterOption {
	return func(rl *RateLimiter) { rl.idleTTL = d }
}

// NewRateLimiter allows perSecond requests per key with the given burst.
func NewRateLimiter(perSecond float64, burst int, opts ...RateLimiterOption) *RateLimiter {
	rl := &RateLimiter{
		limits:  make(map[string]*limiterEntry),
		rate:    rate.Limit(perSecond),
		burst:   burst,
		idleTTL: DefaultLimiterIdleTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(rl)
	}
	// A dropped bucket must already have refilled, or eviction would hand out a fresh burst early.
	if perSecond > 0 {
		if refill := time.Duration(float64(burst) / perSecond * float64(time.Second)); rl.idleTTL < refill {
			rl.idleTTL = refill
		}
	}
	rl.lastSweep = rl.now()
	return rl
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.idleTTL {
		rl.sweep(now)
	}

	if e, ok := rl.limits[key]; ok {
		e.lastSeen = now
		return e.limiter
	}
	e := &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst), lastSeen: now}
	rl.limits[key] = e
	return e.limiter
}

func (rl *RateLimiter) sweep(now time.Time) {
	for key, e := range rl.limits {
		if now.Sub(e.lastSeen) >= rl.idleTTL {
			delete(rl.limits, key)
		}
	}
	rl.lastSweep = now
}

// Allow reports whether a request for key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.limiter(key).Allow()
}

// Len returns the number of tracked keys.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limits)
}

// rateLimitMiddleware throttles per user. A nil limiter disables it.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Limiter != nil && !s.Limiter.Allow(chi.URLParam(r, "userID")) {
			w.Header().Set("Retry-After", "1")
			handleError(w, r, errors.NewRateLimitError())
			return
		}
		next.ServeHTTP(w, r)
	})
}
