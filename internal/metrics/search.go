package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeBackend  = "backend_error"
	OutcomeShape    = "no_hits"
)

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchgate",
			Name:      "search_requests_total",
			Help:      "Total number of search requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	SearchBackendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchgate",
			Name:      "search_backend_duration_seconds",
			Help:      "Backend search call duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	SearchHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchgate",
			Name:      "search_hits_returned_total",
			Help:      "Total documents returned to callers",
		},
		[]string{"endpoint"},
	)

	ConfigReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchgate",
			Name:      "config_reloads_total",
			Help:      "Endpoint configuration reloads by result",
		},
		[]string{"result"}, // "ok" / "error"
	)
)

var registerSearchOnce sync.Once

// RegisterSearchMetrics registers search metrics with the default registry.
// Safe to call more than once.
func RegisterSearchMetrics() {
	registerSearchOnce.Do(func() {
		prometheus.MustRegister(SearchRequestsTotal)
		prometheus.MustRegister(SearchBackendDuration)
		prometheus.MustRegister(SearchHitsTotal)
		prometheus.MustRegister(ConfigReloadsTotal)
	})
}
