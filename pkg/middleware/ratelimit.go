package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/chris/coin-rewards-ledger/pkg/api"
	"github.com/chris/coin-rewards-ledger/pkg/metrics"
	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long an unused per-user limiter is kept.
const idleLimiterTTL = 10 * time.Minute

type rateEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles each authenticated user independently.
type RateLimiter struct {
	perSecond rate.Limit
	burst     int
	metrics   *metrics.Ledger

	mu        sync.Mutex
	visitors  map[string]*rateEntry
	lastSweep time.Time
	clockNow  func() time.Time
}

// NewRateLimiter allows requestsPerMinute per user with the given burst.
func NewRateLimiter(requestsPerMinute float64, burst int, m *metrics.Ledger) *RateLimiter {
	perSecond := requestsPerMinute / 60.0
	if perSecond <= 0 {
		perSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		perSecond: rate.Limit(perSecond),
		burst:     burst,
		metrics:   m,
		visitors:  make(map[string]*rateEntry),
		clockNow:  time.Now,
	}
}

// Middleware limits requests on route. It must run after the Authenticator;
// unauthenticated requests fall back to the remote address.
func (l *RateLimiter) Middleware(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr
			if id, ok := IdentityFrom(r.Context()); ok {
				key = id.UserID
			}
			if !l.allow(key) {
				l.metrics.RecordThrottle(route)
				api.WriteMessage(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (l *RateLimiter) allow(key string) bool {
	now := l.clockNow()

	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.lastSweep) > idleLimiterTTL {
		for k, e := range l.visitors {
			if now.Sub(e.lastSeen) > idleLimiterTTL {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}
	entry, ok := l.visitors[key]
	if !ok {
		entry = &rateEntry{limiter: rate.NewLimiter(l.perSecond, l.burst)}
		l.visitors[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}
