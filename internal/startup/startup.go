package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"time"

	"photo-catalog/internal/logging"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
}

const (
	defaultDatabasePath  = "photos.db"
	defaultMetricsPort   = "9090"
	defaultStatsInterval = time.Minute
)

// Config holds all application configuration
type Config struct {
	DatabasePath   string
	SchemaPath     string
	MetricsPort    string
	MetricsEnabled bool
	StatsInterval  time.Duration
}

// Overrides holds values that take precedence over the environment, usually
// command-line flags. Empty fields are ignored.
type Overrides struct {
	DatabasePath string
	SchemaPath   string
}

// LoadConfig loads and validates configuration from environment variables.
// The database directory is created if missing and must be writable.
func LoadConfig(overrides Overrides) (*Config, error) {
	printBanner()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	config := &Config{
		DatabasePath:   firstNonEmpty(overrides.DatabasePath, getEnv("DATABASE_PATH", defaultDatabasePath)),
		SchemaPath:     firstNonEmpty(overrides.SchemaPath, getEnv("SCHEMA_PATH", "")),
		MetricsPort:    getEnv("METRICS_PORT", defaultMetricsPort),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		StatsInterval:  getEnvDuration("STATS_INTERVAL", defaultStatsInterval),
	}

	schemaSource := config.SchemaPath
	if schemaSource == "" {
		schemaSource = "(embedded)"
	}

	logging.Info("  DATABASE_PATH:    %s", config.DatabasePath)
	logging.Info("  SCHEMA_PATH:      %s", schemaSource)
	logging.Info("  METRICS_PORT:     %s", config.MetricsPort)
	logging.Info("  METRICS_ENABLED:  %v", config.MetricsEnabled)
	logging.Info("  STATS_INTERVAL:   %v", config.StatsInterval)
	logging.Info("  LOG_LEVEL:        %s", logging.GetLevel())

	dbPath, err := filepath.Abs(config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}
	config.DatabasePath = dbPath
	logging.Info("  Database path (absolute): %s", dbPath)

	if config.SchemaPath != "" {
		if _, err := os.Stat(config.SchemaPath); err != nil {
			return nil, fmt.Errorf("schema file error: %w", err)
		}
	}

	dbDir := filepath.Dir(dbPath)
	if err := ensureDirectory(dbDir); err != nil {
		return nil, fmt.Errorf("database directory error: %w", err)
	}

	logging.Debug("  Testing database directory write access...")
	if err := testWriteAccess(dbDir); err != nil {
		return nil, fmt.Errorf("database directory is not writable (required for database): %w", err)
	}
	logging.Info("  [OK] Database directory is writable")

	return config, nil
}

// LogDatabaseInit logs database initialization
func LogDatabaseInit(duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DATABASE INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] Database initialized in %v", duration)
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}

		for _, method := range methods {
			routes = append(routes, RouteInfo{Method: method, Path: pathTemplate})
		}
		return nil
	})

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})

	return routes, err
}

// LogHTTPRoutes logs the registered ops routes at debug level
func LogHTTPRoutes(router *mux.Router) {
	if !logging.IsDebugEnabled() {
		return
	}

	routes, err := GetRoutes(router)
	if err != nil {
		logging.Warn("error walking routes: %v", err)
	}

	logging.Debug("  Registered routes (%d total):", len(routes))
	for _, route := range routes {
		logging.Debug("    %-6s %s", route.Method, route.Path)
	}
}

// LogServerStarted logs the ops server endpoints and startup duration
func LogServerStarted(metricsPort string, metricsEnabled bool, startupDuration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("CATALOG READY")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", startupDuration)
	if metricsEnabled {
		logging.Info("  Metrics:         http://0.0.0.0:%s/metrics", metricsPort)
		logging.Info("  Health:          http://0.0.0.0:%s/healthz", metricsPort)
	} else {
		logging.Info("  Metrics:         DISABLED")
	}
	logging.Info("")
}

// LogShutdownInitiated logs the start of graceful shutdown
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (signal: %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step in progress
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	logging.Info("------------------------------------------------------------")
	logging.Info("PHOTO CATALOG")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Go version: %s (%s/%s)", GoVersion, runtime.GOOS, runtime.GOARCH)
	logging.Info("")
}

func ensureDirectory(path string) error {
	logging.Debug("  Checking database directory: %s", path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		logging.Warn("Invalid duration for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
