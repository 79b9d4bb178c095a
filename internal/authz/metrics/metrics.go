package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the authorization module.
type Metrics struct {
	// Decisions by outcome ("allow"/"deny") and source ("cache"/"store")
	Decisions *prometheus.CounterVec

	// Overall check latency including the policy store round trip on miss
	CheckLatency prometheus.Histogram
}

// New creates a new Metrics instance with all authorization metrics registered.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustcore_authz_decisions_total",
			Help: "Authorization decisions by outcome and source",
		}, []string{"outcome", "source"}),

		CheckLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "trustcore_authz_check_duration_seconds",
			Help:    "Duration of authorization checks",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
	}
}

// ObserveDecision records one decision.
func (m *Metrics) ObserveDecision(allowed bool, source string) {
	if m != nil {
		outcome := "deny"
		if allowed {
			outcome = "allow"
		}
		m.Decisions.WithLabelValues(outcome, source).Inc()
	}
}

// ObserveCheckLatency records the duration of a full check.
func (m *Metrics) ObserveCheckLatency(d time.Duration) {
	if m != nil {
		m.CheckLatency.Observe(d.Seconds())
	}
}
