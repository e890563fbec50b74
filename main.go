package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photo-catalog/internal/database"
	"photo-catalog/internal/handlers"
	"photo-catalog/internal/logging"
	"photo-catalog/internal/metrics"
	"photo-catalog/internal/startup"

	"github.com/spf13/cobra"
)

var overrides startup.Overrides

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "photo-catalog",
		Short: "Photo gallery catalog store",
		Long: `photo-catalog owns the SQLite catalog of a photo gallery. It bootstraps
the store and serves health and Prometheus metrics endpoints while the rest of
the gallery reads and writes the catalog.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&overrides.DatabasePath, "db", "", "path to the SQLite catalog file (overrides DATABASE_PATH)")
	rootCmd.PersistentFlags().StringVar(&overrides.SchemaPath, "schema", "", "schema file for an empty store (overrides SCHEMA_PATH)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the catalog store and apply the schema, then exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db := openCatalog(cmd.Context())
			return db.Close()
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Open the catalog and serve health and metrics endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	})

	return rootCmd
}

// openCatalog loads configuration and bootstraps the store. Any failure is
// fatal: the process never runs with an uninitialized catalog.
func openCatalog(ctx context.Context) (*startup.Config, *database.Database) {
	if ctx == nil {
		ctx = context.Background()
	}

	config, err := startup.LoadConfig(overrides)
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	dbStart := time.Now()
	db, err := database.New(ctx, config.DatabasePath, &database.Options{SchemaPath: config.SchemaPath})
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	startup.LogDatabaseInit(time.Since(dbStart))

	return config, db
}

func runServe(ctx context.Context) error {
	startTime := time.Now()
	config, db := openCatalog(ctx)

	metrics.InitializeMetrics()
	build := startup.GetBuildInfo()
	metrics.AppInfo.WithLabelValues(build.Version, build.Commit, build.GoVersion).Set(1)

	collector := metrics.NewCollector(catalogStats(db), config.DatabasePath, config.StatsInterval)
	collector.Start()

	var srv *http.Server
	if config.MetricsEnabled {
		h := handlers.New(db)
		router := h.Router()
		startup.LogHTTPRoutes(router)

		srv = &http.Server{
			Addr:              ":" + config.MetricsPort,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				startup.LogFatal("Metrics server error: %v", err)
			}
		}()
	}

	startup.LogServerStarted(config.MetricsPort, config.MetricsEnabled, time.Since(startTime))

	waitForShutdown(srv, collector, db)
	return nil
}

// catalogStats adapts the store to the metrics collector.
func catalogStats(db *database.Database) metrics.StatsProvider {
	return metrics.StatsProviderFunc(func(ctx context.Context) (metrics.Stats, error) {
		stats, err := db.Stats(ctx)
		if err != nil {
			return metrics.Stats{}, err
		}
		return metrics.Stats{
			Photos:          stats.Photos,
			Paths:           stats.Paths,
			MetadataPending: stats.MetadataPending,
		}, nil
	})
}

func waitForShutdown(srv *http.Server, collector *metrics.Collector, db *database.Database) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if srv != nil {
		startup.LogShutdownStep("Shutting down HTTP server")
		if err := srv.Shutdown(ctx); err != nil {
			logging.Warn("Server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("HTTP server stopped")
		}
	}

	startup.LogShutdownStep("Stopping metrics collector")
	collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	startup.LogShutdownStep("Closing database")
	if err := db.Close(); err != nil {
		logging.Warn("Database close error: %v", err)
	} else {
		startup.LogShutdownStepComplete("Database closed")
	}

	startup.LogShutdownComplete()
}
