package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"unicode/utf8"

	"photo-catalog/internal/logging"
)

// ListUIDs returns every uid in the catalog, in storage order.
func (d *Database) ListUIDs(ctx context.Context) ([]string, error) {
	const op = "list_uids"
	start := time.Now()
	var err error
	defer func() { recordQuery(op, start, err) }()

	release := d.acquire()
	defer release()

	rows, err := d.db.QueryContext(ctx, "SELECT uid FROM photo ORDER BY id")
	if err != nil {
		return nil, newError(op, KindQuery, err)
	}
	defer rows.Close()

	uids := []string{}
	for i := 0; rows.Next(); i++ {
		var uid string
		if err = rows.Scan(&uid); err != nil {
			return nil, newError(op, KindDecode, fmt.Errorf("row %d: %w", i, err))
		}
		uids = append(uids, uid)
	}
	if err = rows.Err(); err != nil {
		return nil, newError(op, KindQuery, err)
	}

	return uids, nil
}

// ListPathsWithPrefix returns the distinct paths whose leading characters equal
// prefix. The match is character-exact: prefix "/a/b" matches "/a/b",
// "/a/b/c" and also "/a/bc". Paths are returned in order of first appearance.
func (d *Database) ListPathsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	const op = "list_paths_with_prefix"
	start := time.Now()
	var err error
	defer func() { recordQuery(op, start, err) }()

	release := d.acquire()
	defer release()

	// SUBSTR counts characters, so the length is the rune count of prefix.
	query := `
		SELECT path FROM photo
		WHERE SUBSTR(path, 1, ?) = ?
		GROUP BY path
		ORDER BY MIN(id)
	`

	rows, err := d.db.QueryContext(ctx, query, utf8.RuneCountInString(prefix), prefix)
	if err != nil {
		return nil, newError(op, KindQuery, err)
	}
	defer rows.Close()

	paths := []string{}
	for i := 0; rows.Next(); i++ {
		var path string
		if err = rows.Scan(&path); err != nil {
			return nil, newError(op, KindDecode, fmt.Errorf("row %d: %w", i, err))
		}
		paths = append(paths, path)
	}
	if err = rows.Err(); err != nil {
		return nil, newError(op, KindQuery, err)
	}

	return paths, nil
}

// ListPhotosInPaths returns the photos whose path equals one of paths, in
// storage order. An empty paths returns an empty result without a query.
func (d *Database) ListPhotosInPaths(ctx context.Context, paths []string) ([]Photo, error) {
	const op = "list_photos_in_paths"
	if len(paths) == 0 {
		return []Photo{}, nil
	}

	start := time.Now()
	var err error
	defer func() { recordQuery(op, start, err) }()

	// Placeholders come from the count only; path values are always bound.
	query := fmt.Sprintf("SELECT %s FROM photo WHERE path IN (%s) ORDER BY id",
		selectPhotoColumns, placeholders(len(paths)))

	args := make([]interface{}, len(paths))
	for i, p := range paths {
		args[i] = p
	}

	release := d.acquire()
	defer release()

	photos, err := d.queryPhotos(ctx, op, query, args...)
	return photos, err
}

// ListPhotosInPath returns the photos whose path equals path, ordered by
// sortColumns. Each column sorts ascending, or descending when reverse is set.
// Column names must be photo columns; anything else fails with
// ErrInvalidSortColumn before the store is touched. No columns sorts by
// storage order.
func (d *Database) ListPhotosInPath(ctx context.Context, path string, sortColumns []string, reverse bool) ([]Photo, error) {
	const op = "list_photos_in_path"
	start := time.Now()
	var err error
	defer func() { recordQuery(op, start, err) }()

	orderBy, err := orderByClause(sortColumns, reverse)
	if err != nil {
		return nil, newError(op, KindInvalidArgument, err)
	}

	query := fmt.Sprintf("SELECT %s FROM photo WHERE path = ? %s", selectPhotoColumns, orderBy)

	release := d.acquire()
	defer release()

	photos, err := d.queryPhotos(ctx, op, query, path)
	return photos, err
}

// ListPhotosPendingMetadata returns the photos that metadata enrichment has
// not processed yet, in storage order.
func (d *Database) ListPhotosPendingMetadata(ctx context.Context) ([]Photo, error) {
	const op = "list_photos_pending_metadata"
	start := time.Now()
	var err error
	defer func() { recordQuery(op, start, err) }()

	query := fmt.Sprintf("SELECT %s FROM photo WHERE metadata_parsed = 0 ORDER BY id", selectPhotoColumns)

	release := d.acquire()
	defer release()

	photos, err := d.queryPhotos(ctx, op, query)
	return photos, err
}

// Stats summarises the catalog.
func (d *Database) Stats(ctx context.Context) (CatalogStats, error) {
	const op = "stats"
	start := time.Now()
	var err error
	defer func() { recordQuery(op, start, err) }()

	release := d.acquire()
	defer release()

	query := `
		SELECT
			COUNT(*),
			COUNT(DISTINCT path),
			COALESCE(SUM(CASE WHEN metadata_parsed = 0 THEN 1 ELSE 0 END), 0)
		FROM photo
	`

	var stats CatalogStats
	err = d.db.QueryRowContext(ctx, query).Scan(&stats.Photos, &stats.Paths, &stats.MetadataPending)
	if err != nil {
		return CatalogStats{}, newError(op, KindQuery, err)
	}
	return stats, nil
}

// queryPhotos prepares query, runs it and maps every row. The guard must be
// held.
func (d *Database) queryPhotos(ctx context.Context, op, query string, args ...interface{}) ([]Photo, error) {
	stmt, err := d.db.PrepareContext(ctx, query)
	if err != nil {
		logging.Debug("%s: prepare failed for %q: %v", op, query, err)
		return nil, newError(op, KindPrepare, err)
	}
	defer closeStmt(op, stmt)

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, newError(op, KindQuery, err)
	}
	defer rows.Close()

	return collectPhotos(op, rows)
}

func closeStmt(op string, stmt *sql.Stmt) {
	if err := stmt.Close(); err != nil {
		logging.Warn("%s: failed to close statement: %v", op, err)
	}
}
