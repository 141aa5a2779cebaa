// Package ratelimit throttles credential endpoints with a token bucket per client IP.
package ratelimit

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	dErrors "consultly/pkg/domain-errors"
	"consultly/pkg/platform/httputil"
	"consultly/pkg/requestcontext"
)

const idleTTL = 5 * time.Minute

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Limiter holds one bucket per client IP. Idle buckets are swept lazily.
type Limiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	perSecond rate.Limit
	burst     int
	lastSweep time.Time
	logger    *slog.Logger
	now       func() time.Time
}

func New(perSecond float64, burst int, logger *slog.Logger) *Limiter {
	return &Limiter{
		buckets:   make(map[string]*bucket),
		perSecond: rate.Limit(perSecond),
		burst:     burst,
		logger:    logger,
		now:       time.Now,
	}
}

// Allow reports whether a request from key may proceed.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > time.Minute {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > idleTTL {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.perSecond, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.lim.AllowN(now, 1)
}

// Middleware rejects requests over the limit with 429. Client IP comes from
// the metadata middleware, which must run first.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := requestcontext.ClientIP(ctx)
		if ip == "" {
			ip = "unknown"
		}
		if !l.Allow(ip) {
			if l.logger != nil {
				l.logger.WarnContext(ctx, "rate limit exceeded",
					"client_ip", ip,
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
			}
			httputil.WriteError(w, dErrors.New(dErrors.CodeTooManyRequests, "too many requests, slow down"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
