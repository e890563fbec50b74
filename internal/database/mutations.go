package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"photo-catalog/internal/metrics"
)

// InsertPhotos records new photos. Only filename, path, uid and md5 are
// written; the remaining columns keep their defaults until UpdateMetadata.
// A uid that already exists, in the store or earlier in the batch, fails the
// whole batch with a KindConflict error matching ErrDuplicateUID.
func (d *Database) InsertPhotos(ctx context.Context, photos []Photo) error {
	return runBatch(ctx, d, "insert_photos",
		"INSERT INTO photo (filename, path, uid, md5) VALUES (?, ?, ?, ?)",
		photos,
		func(p Photo) []interface{} {
			return []interface{}{p.Filename, p.Path, p.UID, p.MD5}
		},
	)
}

// RemovePhotos deletes the records matching each photo's uid. Unknown uids
// are ignored.
func (d *Database) RemovePhotos(ctx context.Context, photos []Photo) error {
	return runBatch(ctx, d, "remove_photos",
		"DELETE FROM photo WHERE uid = ?",
		photos,
		func(p Photo) []interface{} {
			return []interface{}{p.UID}
		},
	)
}

// MovePhotos renames or moves records: the row matching Old.UID takes the
// filename and path of New. Unknown uids are ignored.
func (d *Database) MovePhotos(ctx context.Context, pairs []MovePair) error {
	return runBatch(ctx, d, "move_photos",
		"UPDATE photo SET filename = ?, path = ? WHERE uid = ?",
		pairs,
		func(m MovePair) []interface{} {
			return []interface{}{m.New.Filename, m.New.Path, m.Old.UID}
		},
	)
}

// UpdateMetadata writes the descriptive columns of each photo to the row with
// the same uid and marks it as parsed. Unknown uids are ignored.
func (d *Database) UpdateMetadata(ctx context.Context, photos []Photo) error {
	query := `
		UPDATE photo SET
			sort_order = ?, hidden = ?, metadata_parsed = 1,
			width = ?, height = ?, color = ?, title = ?, place = ?, date_taken = ?,
			camera_model = ?, lens_mode = ?, focal_length = ?, aperture = ?,
			exposure_time = ?, sensitivity = ?
		WHERE uid = ?
	`
	return runBatch(ctx, d, "update_metadata", query, photos,
		func(p Photo) []interface{} {
			return []interface{}{
				p.SortOrder, p.Hidden,
				p.Width, p.Height, p.Color, p.Title, p.Place, p.DateTaken,
				p.CameraModel, p.LensMode, p.FocalLength, p.Aperture,
				p.ExposureTime, p.Sensitivity,
				p.UID,
			}
		},
	)
}

// runBatch applies query once per item inside a single transaction, reusing
// one prepared statement. Any failure rolls back every item of the batch.
func runBatch[T any](ctx context.Context, d *Database, op, query string, items []T, args func(T) []interface{}) (err error) {
	if len(items) == 0 {
		return nil
	}

	start := time.Now()
	defer func() { recordQuery(op, start, err) }()

	release := d.acquire()
	defer release()

	txStart := time.Now()
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return newError(op, KindQuery, fmt.Errorf("failed to begin transaction: %w", err))
	}

	var affected int64
	defer func() {
		outcome := "commit"
		if err != nil {
			outcome = "rollback"
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback also failed: %w", rbErr))
			}
		} else {
			metrics.DBRowsAffected.WithLabelValues(op).Observe(float64(affected))
		}
		metrics.DBTransactionDuration.WithLabelValues(outcome).Observe(time.Since(txStart).Seconds())
	}()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return newError(op, KindPrepare, err)
	}

	for i, item := range items {
		result, execErr := stmt.ExecContext(ctx, args(item)...)
		if execErr != nil {
			closeStmt(op, stmt)
			ce := execError(op, execErr)
			ce.Err = fmt.Errorf("item %d: %w", i, ce.Err)
			return ce
		}
		if n, rowsErr := result.RowsAffected(); rowsErr == nil {
			affected += n
		}
	}

	if err = stmt.Close(); err != nil {
		return newError(op, KindQuery, fmt.Errorf("failed to finalize statement: %w", err))
	}

	if err = tx.Commit(); err != nil {
		return execError(op, fmt.Errorf("failed to commit: %w", err))
	}
	return nil
}
