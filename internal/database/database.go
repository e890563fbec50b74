package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"photo-catalog/internal/logging"
	"photo-catalog/internal/metrics"
)

// catalogTable is the table whose presence marks a bootstrapped store.
const catalogTable = "photo"

// Options tunes how the store is opened.
type Options struct {
	// SchemaPath is a schema file applied to an empty store. Empty means the
	// schema compiled into the binary.
	SchemaPath string
}

// Database is the photo catalog store. It owns a single SQLite connection and
// serializes every operation on it through one mutex.
type Database struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// New opens the store at dbPath, creating the file if needed, and applies the
// schema when the catalog table is missing. Every failure is a KindBootstrap
// error; the caller is expected to terminate on it.
func New(ctx context.Context, dbPath string, opts *Options) (*Database, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("bootstrap", start, err) }()

	if opts == nil {
		opts = &Options{}
	}

	logging.Info("Database path: %s", dbPath)

	// Diagnose potential permission issues
	if diagErr := diagnoseDatabasePermissions(dbPath); diagErr != nil {
		logging.Warn("Database permission diagnostics: %v", diagErr)
	}

	// busy_timeout helps prevent "database is locked" errors from other processes
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, newError("open", KindBootstrap, fmt.Errorf("failed to open database: %w", err))
	}

	// One connection for the process lifetime; the mutex below is the only
	// way to reach it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err = db.PingContext(ctx); err != nil {
		closeAfterFailure(db, "ping")
		return nil, newError("open", KindBootstrap, fmt.Errorf("failed to connect to database: %w", err))
	}

	d := &Database{
		db:     db,
		dbPath: dbPath,
	}

	if err = d.bootstrap(ctx, opts.SchemaPath); err != nil {
		closeAfterFailure(db, "initialization")
		return nil, err
	}

	logging.Info("Database initialized successfully at %s", dbPath)
	return d, nil
}

func closeAfterFailure(db *sql.DB, stage string) {
	if closeErr := db.Close(); closeErr != nil {
		logging.Error("failed to close database after %s failure: %v", stage, closeErr)
	}
}

// bootstrap applies the schema in one transaction if the catalog table does
// not exist yet.
func (d *Database) bootstrap(ctx context.Context, schemaPath string) error {
	const op = "bootstrap"

	release := d.acquire()
	defer release()

	exists, err := d.tableExists(ctx, catalogTable)
	if err != nil {
		return newError(op, KindBootstrap, fmt.Errorf("failed to read from the database: %w", err))
	}
	if exists {
		logging.Debug("Catalog table %q present, schema already applied", catalogTable)
		return nil
	}

	schema, err := loadSchema(schemaPath)
	if err != nil {
		return newError(op, KindBootstrap, err)
	}

	logging.Info("Database is empty, creating schema...")

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return newError(op, KindBootstrap, fmt.Errorf("failed to begin schema transaction: %w", err))
	}
	if _, err = tx.ExecContext(ctx, schema); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			err = errors.Join(err, fmt.Errorf("rollback also failed: %w", rbErr))
		}
		return newError(op, KindBootstrap, fmt.Errorf("failed to apply schema: %w", err))
	}
	if err = tx.Commit(); err != nil {
		return newError(op, KindBootstrap, fmt.Errorf("failed to commit schema: %w", err))
	}

	exists, err = d.tableExists(ctx, catalogTable)
	if err != nil {
		return newError(op, KindBootstrap, err)
	}
	if !exists {
		return newError(op, KindBootstrap, fmt.Errorf("schema does not define table %q", catalogTable))
	}

	logging.Info("Schema created")
	return nil
}

// tableExists must be called with the guard held.
func (d *Database) tableExists(ctx context.Context, name string) (bool, error) {
	var found string
	err := d.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	release := d.acquire()
	defer release()
	return d.db.Close()
}

// Path returns the store file path.
func (d *Database) Path() string {
	return d.dbPath
}

// Ping checks that the store answers through the guard.
func (d *Database) Ping(ctx context.Context) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("ping", start, err) }()

	release := d.acquire()
	defer release()

	if err = d.db.PingContext(ctx); err != nil {
		return newError("ping", KindQuery, err)
	}
	return nil
}

// recordQuery records database query metrics
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}

// diagnoseDatabasePermissions checks database directory and file permissions
func diagnoseDatabasePermissions(dbPath string) error {
	dir := filepath.Dir(dbPath)

	dirInfo, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot stat database directory: %w", err)
	}
	logging.Debug("Database directory: %s (mode: %v)", dir, dirInfo.Mode())

	testFile := filepath.Join(dir, ".perm-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return fmt.Errorf("database directory not writable: %w", err)
	}
	_ = os.Remove(testFile)

	for _, path := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		logging.Debug("Database file exists: %s (mode: %v, size: %d bytes)", path, info.Mode(), info.Size())
		if info.Mode().Perm()&0o200 == 0 {
			logging.Warn("%s is read-only! Mode: %v - writes will fail", path, info.Mode())
		}
	}

	return nil
}
