// Package startup handles configuration loading and startup/shutdown logging
// for the photo catalog.
//
// # Configuration
//
// [LoadConfig] reads environment variables, applies [Overrides] from the
// command line on top, and makes sure the database directory exists and is
// writable:
//
//   - DATABASE_PATH: SQLite file (default: photos.db)
//   - SCHEMA_PATH: schema file applied to an empty store (default: embedded)
//   - METRICS_PORT: ops/metrics server port (default: 9090)
//   - METRICS_ENABLED: serve /metrics and health endpoints (default: true)
//   - STATS_INTERVAL: catalog statistics collection interval (default: 1m)
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//
// # Build Information
//
// Version, Commit and BuildTime are injected via ldflags and exposed via
// [GetBuildInfo].
package startup
