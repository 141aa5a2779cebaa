package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for login and password reset.
type Metrics struct {
	Logins         *prometheus.CounterVec
	PasswordResets *prometheus.CounterVec
	Logouts        prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Logins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consultly_logins_total",
			Help: "Login attempts, by principal kind and result",
		}, []string{"kind", "result"}),
		PasswordResets: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consultly_password_resets_total",
			Help: "Password reset steps, by stage (request, confirm) and result",
		}, []string{"stage", "result"}),
		Logouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consultly_logouts_total",
			Help: "Session tokens revoked by logout",
		}),
	}
}

// IncrementLogin records a login attempt. kind is empty when the principal
// could not be resolved.
func (m *Metrics) IncrementLogin(kind, result string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.Logins.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) IncrementPasswordReset(stage, result string) {
	if m == nil {
		return
	}
	m.PasswordResets.WithLabelValues(stage, result).Inc()
}

func (m *Metrics) IncrementLogout() {
	if m == nil {
		return
	}
	m.Logouts.Inc()
}
