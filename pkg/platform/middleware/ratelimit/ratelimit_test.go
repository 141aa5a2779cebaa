package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"consultly/pkg/requestcontext"
)

func TestLimiter(t *testing.T) {
	t.Run("burst then reject", func(t *testing.T) {
		l := New(1, 2, nil)
		fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		l.now = func() time.Time { return fixed }

		assert.True(t, l.Allow("198.51.100.1"))
		assert.True(t, l.Allow("198.51.100.1"))
		assert.False(t, l.Allow("198.51.100.1"))
		assert.True(t, l.Allow("198.51.100.2"), "buckets are per key")
	})

	t.Run("idle buckets are swept", func(t *testing.T) {
		l := New(1, 1, nil)
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		l.now = func() time.Time { return now }
		l.Allow("a")

		now = now.Add(10 * time.Minute)
		l.Allow("b")
		_, ok := l.buckets["a"]
		assert.False(t, ok)
	})
}

func TestMiddleware(t *testing.T) {
	l := New(0.001, 1, nil)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func() int {
		r := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		r = r.WithContext(requestcontext.WithClientMetadata(r.Context(), "203.0.113.9", "test"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}
