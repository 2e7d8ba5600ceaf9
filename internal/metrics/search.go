package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lexidex",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"type", "status"}, // type: semantic/hybrid, status: success/error
	)

	SearchStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lexidex",
			Name:      "search_stage_duration_seconds",
			Help:      "Search pipeline stage duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"type", "stage"}, // stage: embedding/backend/context/total
	)

	SearchResultsReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lexidex",
			Name:      "search_results_returned",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"type"},
	)

	TelemetryPersistTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lexidex",
			Name:      "telemetry_persist_total",
			Help:      "Telemetry record persistence outcomes",
		},
		[]string{"status"}, // "persisted" / "failed" / "skipped"
	)

	AnalyticsWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lexidex",
			Name:      "analytics_writes_total",
			Help:      "Analytics fact write outcomes",
		},
		[]string{"kind", "status"}, // kind: query/view
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search pipeline metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchStageDuration)
	prometheus.MustRegister(SearchResultsReturned)
	prometheus.MustRegister(TelemetryPersistTotal)
	prometheus.MustRegister(AnalyticsWritesTotal)
	searchMetricsRegistered = true
}
