package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MutationsTotal counts engine mutations by operation and outcome.
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learn_mutations_total",
			Help: "Engine mutation operations by operation and status.",
		},
		[]string{"operation", "status"},
	)

	// PartialAppliesTotal counts counter writes that failed after their
	// primary row write succeeded, leaving the mirror and store diverged
	// for one field until the next refresh.
	PartialAppliesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "learn_partial_applies_total",
			Help: "Counter writes that failed after a successful row write.",
		},
	)

	// MirrorLoadDuration observes full bulk-load latency.
	MirrorLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "learn_mirror_load_duration_seconds",
			Help:    "Duration of full mirror bulk loads.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// MirrorRows tracks the size of each mirrored collection.
	MirrorRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "learn_mirror_rows",
			Help: "Rows currently held per mirrored collection.",
		},
		[]string{"collection"},
	)
)

// Statuses recorded on MutationsTotal.
const (
	StatusOK           = "ok"
	StatusError        = "error"
	StatusPartialApply = "partial_apply"
)

// Handler exposes the default registry for the ops router.
func Handler() http.Handler {
	return promhttp.Handler()
}
