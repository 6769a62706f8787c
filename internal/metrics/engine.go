package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Engine Prometheus metrics.
var (
	EngineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sitesearch",
			Name:      "engine_requests_total",
			Help:      "Total number of search engine round trips",
		},
		[]string{"method", "status"},
	)

	EngineRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sitesearch",
			Name:      "engine_request_duration_seconds",
			Help:      "Search engine round trip duration in seconds, retries included",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method"},
	)

	SearchTripsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sitesearch",
			Name:      "search_trips_total",
			Help:      "Planned search round trips by kind",
		},
		[]string{"kind"},
	)

	ExportRecordsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sitesearch",
			Name:      "export_records_total",
			Help:      "Total number of records written by streaming exports",
		},
	)

	ExportPagesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sitesearch",
			Name:      "export_pages_total",
			Help:      "Total number of cursor pages fetched by streaming exports",
		},
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers Prometheus engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(EngineRequestsTotal)
	prometheus.MustRegister(EngineRequestDuration)
	prometheus.MustRegister(SearchTripsTotal)
	prometheus.MustRegister(ExportRecordsTotal)
	prometheus.MustRegister(ExportPagesTotal)
	engineMetricsRegistered = true
}

// ObserveEngineRequest records the outcome and latency of one engine round trip.
func ObserveEngineRequest(method string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	EngineRequestsTotal.WithLabelValues(method, status).Inc()
	EngineRequestDuration.WithLabelValues(method).Observe(d.Seconds())
}
