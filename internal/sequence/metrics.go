package sequence

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks allocation latency and failures per sequence name.
type Metrics struct {
	AllocateDuration *prometheus.HistogramVec
	AllocateFailures *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		AllocateDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "consultly_sequence_allocate_duration_seconds",
			Help:    "Duration of sequence allocations",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"name"}),
		AllocateFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consultly_sequence_allocate_failures_total",
			Help: "Sequence allocations that failed",
		}, []string{"name"}),
	}
}

// Instrumented decorates an Allocator with metrics.
type Instrumented struct {
	next    Allocator
	metrics *Metrics
}

func NewInstrumented(next Allocator, m *Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: m}
}

func (a *Instrumented) Next(ctx context.Context, name string) (int64, error) {
	start := time.Now()
	value, err := a.next.Next(ctx, name)
	if a.metrics != nil {
		a.metrics.AllocateDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if err != nil {
			a.metrics.AllocateFailures.WithLabelValues(name).Inc()
		}
	}
	return value, err
}
