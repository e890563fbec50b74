// Package metrics provides Prometheus instrumentation for the photo catalog.
//
// All metrics are prefixed with "photo_catalog_" and registered with the
// default registry through promauto. Mount promhttp.Handler() to expose them.
//
// # Database Metrics
//
//   - DBQueryTotal: Counter of catalog operations by operation and status
//   - DBQueryDuration: Histogram of operation duration, guard wait included
//   - DBTransactionDuration: Histogram of batch transactions by outcome
//   - DBRowsAffected: Histogram of rows touched per batch mutation
//   - DBGuardWaitDuration, DBGuardHoldDuration: connection guard contention
//   - DBGuardWaiters: Gauge of operations queued on the guard
//   - DBSizeBytes: Gauge of database file sizes (main, WAL, SHM)
//
// # Catalog Metrics
//
// Set by [Collector] from a [StatsProvider]:
//   - CatalogPhotosTotal
//   - CatalogPathsTotal
//   - CatalogMetadataPending
//
// # Usage
//
//	collector := metrics.NewCollector(provider, dbPath, time.Minute)
//	collector.Start()
//	defer collector.Stop()
package metrics
