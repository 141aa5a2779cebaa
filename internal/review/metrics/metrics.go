package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts review transitions.
type Metrics struct {
	Transitions *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consultly_review_transitions_total",
			Help: "Review transitions applied, by principal kind and action",
		}, []string{"kind", "action"}),
	}
}

func (m *Metrics) IncrementTransition(kind, action string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(kind, action).Inc()
}
