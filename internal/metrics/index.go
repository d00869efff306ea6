package metrics

import "github.com/prometheus/client_golang/prometheus"

// Vector index Prometheus metrics.
var (
	IndexQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "index_queries_total",
			Help:      "Total number of vector index queries",
		},
		[]string{"backend", "status"},
	)

	IndexQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "index_query_duration_seconds",
			Help:      "Vector index query duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"backend"},
	)

	IndexMatchesReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "index_matches_returned",
			Help:      "Number of documents returned per index query",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		},
		[]string{"backend"},
	)
)

var indexMetricsRegistered bool

// RegisterIndexMetrics registers Prometheus index metrics. Must be called once from main.
func RegisterIndexMetrics() {
	if indexMetricsRegistered {
		return
	}
	prometheus.MustRegister(IndexQueriesTotal)
	prometheus.MustRegister(IndexQueryDuration)
	prometheus.MustRegister(IndexMatchesReturned)
	indexMetricsRegistered = true
}
