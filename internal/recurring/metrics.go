package recurring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts scheduler outcomes. A nil *Metrics records nothing.
type Metrics struct {
	generated prometheus.Counter
	skipped   prometheus.Counter
	failed    prometheus.Counter
	duration  prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		generated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tally",
			Subsystem: "scheduler",
			Name:      "occurrences_generated_total",
			Help:      "Recurring occurrences materialized into shared debts.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tally",
			Subsystem: "scheduler",
			Name:      "occurrences_skipped_total",
			Help:      "Due occurrences found already generated or deactivated.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tally",
			Subsystem: "scheduler",
			Name:      "occurrences_failed_total",
			Help:      "Occurrences whose generation failed and was rolled back.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tally",
			Subsystem: "scheduler",
			Name:      "tick_duration_seconds",
			Help:      "Time spent in one scheduler tick.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(m.generated, m.skipped, m.failed, m.duration)
	}

	return m
}

func (m *Metrics) observe(res *TickResult, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.generated.Add(float64(len(res.Generated)))
	m.skipped.Add(float64(res.Skipped))
	m.failed.Add(float64(len(res.Failed)))
	m.duration.Observe(elapsed.Seconds())
}
