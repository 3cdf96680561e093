// Package metrics holds Prometheus instruments used by the bootstrap
// pipeline.  All collectors are registered with the global registry, so
// mounting promhttp.Handler in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BootstrapDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bootstrap_duration_seconds",
			Help:    "Time spent resolving the per-request context.",
			Buckets: prometheus.DefBuckets,
		}, []string{"mode"})

	BootstrapErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bootstrap_errors_total",
			Help: "Bootstrap runs aborted by a store failure, by stage.",
		}, []string{"stage"})

	SessionOutcomeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_outcome_total",
			Help: "Session guard results by final state.",
		}, []string{"state"})

	EditionDowngradeTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "edition_downgrade_total",
			Help: "Pro editions downgraded after a failed asset integrity check.",
		})

	CryptoKeyed = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "crypto_keyed",
			Help: "1 when field encryption runs with key material, 0 in unsafe mode.",
		})
)

func init() {
	prometheus.MustRegister(
		BootstrapDuration,
		BootstrapErrorsTotal,
		SessionOutcomeTotal,
		EditionDowngradeTotal,
		CryptoKeyed,
	)
}
