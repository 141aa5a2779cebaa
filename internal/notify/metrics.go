package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts notifications through the queue, by template.
type Metrics struct {
	Enqueued  *prometheus.CounterVec
	Delivered *prometheus.CounterVec
	Failed    *prometheus.CounterVec
	Dropped   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		Enqueued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consultly_notifications_enqueued_total",
			Help: "Notifications accepted for delivery",
		}, []string{"template"}),
		Delivered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consultly_notifications_delivered_total",
			Help: "Notifications the dispatcher reported as delivered",
		}, []string{"template"}),
		Failed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consultly_notifications_failed_total",
			Help: "Notifications the dispatcher reported as undelivered",
		}, []string{"template"}),
		Dropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consultly_notifications_dropped_total",
			Help: "Notifications dropped because the queue was full or closed",
		}, []string{"template"}),
	}
}

func (m *Metrics) IncrementEnqueued(template string) {
	if m != nil {
		m.Enqueued.WithLabelValues(template).Inc()
	}
}

func (m *Metrics) IncrementDelivered(template string) {
	if m != nil {
		m.Delivered.WithLabelValues(template).Inc()
	}
}

func (m *Metrics) IncrementFailed(template string) {
	if m != nil {
		m.Failed.WithLabelValues(template).Inc()
	}
}

func (m *Metrics) IncrementDropped(template string) {
	if m != nil {
		m.Dropped.WithLabelValues(template).Inc()
	}
}
