package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics for the ops endpoints
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_catalog_http_requests_total",
			Help: "Total number of HTTP requests to the ops endpoints",
		},
		[]string{"path", "status"},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_catalog_db_queries_total",
			Help: "Total number of catalog operations",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_catalog_db_query_duration_seconds",
			Help:    "Catalog operation duration in seconds, guard wait included",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBTransactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_catalog_db_transaction_duration_seconds",
			Help:    "Batch transaction duration in seconds by outcome",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"outcome"}, // "commit", "rollback"
	)

	DBRowsAffected = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_catalog_db_rows_affected",
			Help:    "Rows affected per batch mutation",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"operation"},
	)

	DBGuardWaitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photo_catalog_db_guard_wait_seconds",
			Help:    "Time spent waiting to acquire the connection guard",
			Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	DBGuardHoldDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photo_catalog_db_guard_hold_seconds",
			Help:    "Time the connection guard was held per operation",
			Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	DBGuardWaiters = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_catalog_db_guard_waiters",
			Help: "Number of operations waiting for the connection guard",
		},
	)

	DBSizeBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photo_catalog_db_size_bytes",
			Help: "Size of SQLite database files in bytes",
		},
		[]string{"file"}, // "main", "wal", "shm"
	)
)

// Catalog content metrics
var (
	CatalogPhotosTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_catalog_photos_total",
			Help: "Number of photo records in the catalog",
		},
	)

	CatalogPathsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_catalog_paths_total",
			Help: "Number of distinct paths in the catalog",
		},
	)

	CatalogMetadataPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_catalog_metadata_pending",
			Help: "Number of photo records whose metadata has not been parsed yet",
		},
	)

	CollectorErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_catalog_collector_errors_total",
			Help: "Total number of failed catalog statistics collections",
		},
	)
)

// Application info
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photo_catalog_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)
