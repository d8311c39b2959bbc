// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Dataset Metrics
	DatasetRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dataset_rows",
			Help: "Number of rows loaded per source table",
		},
		[]string{"table"},
	)

	DatasetLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dataset_load_duration_seconds",
			Help:    "Time spent loading the dataset, by source",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// Pipeline Metrics
	PipelineBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_build_duration_seconds",
			Help:    "Time spent joining and expanding the dataset",
			Buckets: prometheus.DefBuckets,
		},
	)

	PipelineJoinedRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_joined_rows",
			Help: "Rows in the joined ratings relation",
		},
	)

	PipelineExpandedRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_expanded_rows",
			Help: "Rows in the genre-expanded relation",
		},
	)

	PipelineDroppedRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pipeline_dropped_rows",
			Help: "Ratings dropped by the inner join, by missing side",
		},
		[]string{"reason"},
	)

	// Dashboard Metrics
	ViewRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_view_requests_total",
			Help: "Total number of view renders, by view id",
		},
		[]string{"view"},
	)

	// Database Metrics
	DBPoolConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "db_pool_connections",
			Help: "Postgres pool connections, by state",
		},
		[]string{"state"},
	)

	// API Endpoint Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route", "status_code"},
	)
)

// RecordHTTPRequest observes a finished request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordView counts a view render. Unknown ids are folded into one label so
// arbitrary input cannot grow the series set.
func RecordView(view string, known bool) {
	if !known {
		view = "unknown"
	}
	ViewRequestsTotal.WithLabelValues(view).Inc()
}

// RecordDBPool publishes a snapshot of the postgres pool.
func RecordDBPool(total, idle, acquired int32) {
	DBPoolConnections.WithLabelValues("total").Set(float64(total))
	DBPoolConnections.WithLabelValues("idle").Set(float64(idle))
	DBPoolConnections.WithLabelValues("acquired").Set(float64(acquired))
}
