// Package metrics registers the Prometheus series an operator scrapes
// alongside the JSON GET /metrics aggregate, adapted from the Prometheus
// vocabulary used for worker/dispatcher observability in the distributed
// job scheduler in the retrieval pack.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TickDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "httpcron",
		Name:      "tick_duration_seconds",
		Help:      "Duration of one scheduler engine tick.",
		Buckets:   prometheus.DefBuckets,
	})

	RunsDispatchedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "httpcron",
		Name:      "runs_dispatched_total",
		Help:      "Total Runs dispatched, by final status.",
	}, []string{"status"})

	AttemptDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "httpcron",
		Name:      "attempt_duration_seconds",
		Help:      "Duration of one HTTP Dispatcher attempt.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"error_type"})

	RegistrySize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "httpcron",
		Name:      "registry_in_flight",
		Help:      "Number of schedules currently admitted to the Active-Execution Registry.",
	})

	OrphansRecoveredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "httpcron",
		Name:      "orphans_recovered_total",
		Help:      "Total pending Runs marked interrupted by the startup orphan-recovery sweep.",
	})
)

// Register adds every series to the default Prometheus registry. Calling it
// twice would panic (prometheus.MustRegister), so callers must invoke it
// exactly once during process startup.
func Register() {
	prometheus.MustRegister(
		TickDuration,
		RunsDispatchedTotal,
		AttemptDuration,
		RegistrySize,
		OrphansRecoveredTotal,
	)
}
