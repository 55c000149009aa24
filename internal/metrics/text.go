package metrics

import "github.com/prometheus/client_golang/prometheus"

// Text store and classifier Prometheus metrics.
var (
	RecordsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "textdex",
			Name:      "records_created_total",
			Help:      "Total number of string records created",
		},
	)

	RecordsDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "textdex",
			Name:      "records_deleted_total",
			Help:      "Total number of string records deleted",
		},
	)

	ClassifierQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "textdex",
			Name:      "classifier_queries_total",
			Help:      "Natural-language queries by matched rule",
		},
		[]string{"rule"}, // rule name or "unmatched"
	)
)

var textMetricsRegistered bool

// RegisterTextMetrics registers text Prometheus metrics. Must be called once from main.
func RegisterTextMetrics() {
	if textMetricsRegistered {
		return
	}
	prometheus.MustRegister(RecordsCreatedTotal)
	prometheus.MustRegister(RecordsDeletedTotal)
	prometheus.MustRegister(ClassifierQueriesTotal)
	textMetricsRegistered = true
}
