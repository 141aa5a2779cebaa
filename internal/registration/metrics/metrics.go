package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registration workflow.
type Metrics struct {
	Registrations        *prometheus.CounterVec
	RegistrationDuration *prometheus.HistogramVec
	OtpVerifications     *prometheus.CounterVec
	OtpIssued            *prometheus.CounterVec
}

// New creates a new Metrics instance with all registration metrics registered.
func New() *Metrics {
	return &Metrics{
		Registrations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consultly_registrations_total",
			Help: "Registrations accepted, by principal kind, path and outcome",
		}, []string{"kind", "path", "outcome"}),
		RegistrationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "consultly_registration_duration_seconds",
			Help:    "Duration of registration calls, by path",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"path"}),
		OtpVerifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consultly_otp_verifications_total",
			Help: "OTP verification attempts, by channel and result",
		}, []string{"channel", "result"}),
		OtpIssued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consultly_otp_issued_total",
			Help: "Verification codes issued, by channel",
		}, []string{"channel"}),
	}
}

// IncrementRegistration records an accepted registration.
func (m *Metrics) IncrementRegistration(kind, path, outcome string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(kind, path, outcome).Inc()
}

// ObserveRegistration records the duration of a registration call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRegistration(path string, start time.Time) {
	if m == nil {
		return
	}
	m.RegistrationDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementOtpVerification(channel, result string) {
	if m == nil {
		return
	}
	m.OtpVerifications.WithLabelValues(channel, result).Inc()
}

func (m *Metrics) IncrementOtpIssued(channel string) {
	if m == nil {
		return
	}
	m.OtpIssued.WithLabelValues(channel).Inc()
}
