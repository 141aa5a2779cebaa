package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process-wide Prometheus metrics shared across modules.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
}

// New creates and registers all process-wide metrics.
func New() *Metrics {
	return &Metrics{
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consultly_http_requests_total",
			Help: "HTTP requests served, by method and status class",
		}, []string{"method", "class"}),
		HTTPLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "consultly_http_request_duration_seconds",
			Help:    "HTTP request latency, by method",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// Middleware counts requests by method and status class and records latency.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if m != nil {
			m.HTTPRequests.WithLabelValues(r.Method, statusClass(rec.status)).Inc()
			m.HTTPLatency.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		}
	})
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
