package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the token lifecycle module.
type Metrics struct {
	TokensIssued    prometheus.Counter
	TokensRotated   prometheus.Counter
	ReplaysDetected prometheus.Counter
	VerifyOutcomes  *prometheus.CounterVec
}

// New creates a new Metrics instance with all token lifecycle metrics registered.
func New() *Metrics {
	return &Metrics{
		TokensIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustcore_tokens_issued_total",
			Help: "Total number of token pairs issued",
		}),
		TokensRotated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustcore_tokens_rotated_total",
			Help: "Total number of successful refresh token rotations",
		}),
		ReplaysDetected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustcore_refresh_replays_detected_total",
			Help: "Total number of refresh token replay attempts detected",
		}),
		VerifyOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustcore_access_verifications_total",
			Help: "Access token verifications by outcome",
		}, []string{"outcome"}), // outcome: "ok", "expired", "invalid", "revoked"
	}
}

func (m *Metrics) IncIssued() {
	if m != nil {
		m.TokensIssued.Inc()
	}
}

func (m *Metrics) IncRotated() {
	if m != nil {
		m.TokensRotated.Inc()
	}
}

func (m *Metrics) IncReplays() {
	if m != nil {
		m.ReplaysDetected.Inc()
	}
}

func (m *Metrics) ObserveVerify(outcome string) {
	if m != nil {
		m.VerifyOutcomes.WithLabelValues(outcome).Inc()
	}
}
