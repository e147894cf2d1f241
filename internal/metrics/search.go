package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and document Prometheus metrics.
var (
	SearchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_total",
			Help:      "Search passes by outcome",
		},
		[]string{"status"}, // ranked / nothing_indexed / no_query / unavailable
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_duration_seconds",
			Help:      "Full search pass duration including embedding",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	DocumentsRanked = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_documents_ranked",
			Help:      "Documents scored per search pass",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	ExtractionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "extraction_total",
			Help:      "Text extraction outcomes per uploaded file",
		},
		[]string{"kind", "status"},
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "sessions_active",
			Help:      "Sessions currently holding documents",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search and document metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(DocumentsRanked)
	prometheus.MustRegister(ExtractionTotal)
	prometheus.MustRegister(SessionsActive)
	searchMetricsRegistered = true
}
