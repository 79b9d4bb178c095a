package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the audit pipeline.
type Metrics struct {
	Published    prometheus.Counter
	Dropped      prometheus.Counter
	SinkFailures prometheus.Counter
}

// New creates a new Metrics instance with all audit pipeline metrics registered.
func New() *Metrics {
	return &Metrics{
		Published: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustcore_audit_events_published_total",
			Help: "Total number of audit events accepted by the pipeline",
		}),
		Dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustcore_audit_events_dropped_total",
			Help: "Total number of audit events dropped under backpressure",
		}),
		SinkFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustcore_audit_sink_failures_total",
			Help: "Total number of contained audit subscriber failures",
		}),
	}
}

func (m *Metrics) IncPublished() {
	if m != nil {
		m.Published.Inc()
	}
}

func (m *Metrics) IncDropped() {
	if m != nil {
		m.Dropped.Inc()
	}
}

func (m *Metrics) IncSinkFailures() {
	if m != nil {
		m.SinkFailures.Inc()
	}
}
