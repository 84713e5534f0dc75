package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	VisitsSynced      prometheus.Counter
	SyncDuration      prometheus.Histogram
	EligibilityChecks *prometheus.CounterVec
	ErrorsCount       *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		VisitsSynced: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "visits_synced_total",
			Help:      "The total number of visit records upserted from the HIS",
		}),
		SyncDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Time taken to run a visit sync batch",
			Buckets:   prometheus.DefBuckets,
		}),
		EligibilityChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eligibility_checks_total",
			Help:      "The total number of NHSO eligibility checks by outcome",
		}, []string{"outcome"}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
