// Package metrics exposes Prometheus instrumentation for reconciliation runs.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// ReconcileRunsTotal counts reconciliation runs by outcome
	// (changed, unchanged, failed).
	ReconcileRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gntsync_reconcile_runs_total",
			Help: "Total number of reconciliation runs by outcome",
		},
		[]string{"outcome"},
	)

	// MutationsTotal counts remote mutations submitted by operation name.
	MutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gntsync_mutations_total",
			Help: "Total number of remote mutations submitted by operation",
		},
		[]string{"operation"},
	)

	// ReconcileDuration measures end-to-end run duration in seconds.
	ReconcileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gntsync_reconcile_duration_seconds",
			Help:    "Reconciliation run duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// JobWaitDuration measures how long awaited cluster jobs took to
	// reach a terminal status.
	JobWaitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gntsync_job_wait_duration_seconds",
			Help:    "Time spent waiting for cluster jobs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)
)

func init() {
	prometheus.MustRegister(ReconcileRunsTotal)
	prometheus.MustRegister(MutationsTotal)
	prometheus.MustRegister(ReconcileDuration)
	prometheus.MustRegister(JobWaitDuration)
}
