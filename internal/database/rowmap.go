package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// photoColumns lists the photo table columns in schema order. scanPhoto reads
// them positionally, so both must change together with schema.sql.
var photoColumns = []string{
	"id", "filename", "path", "uid", "md5",
	"sort_order", "hidden", "metadata_parsed",
	"width", "height", "color", "title", "place", "date_taken",
	"camera_model", "lens_mode", "focal_length", "aperture",
	"exposure_time", "sensitivity",
}

var (
	selectPhotoColumns = strings.Join(photoColumns, ", ")
	sortableColumns    = makeColumnSet(photoColumns)
)

func makeColumnSet(columns []string) map[string]struct{} {
	set := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		set[c] = struct{}{}
	}
	return set
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanPhoto maps one row selected with selectPhotoColumns to a Photo.
func scanPhoto(row rowScanner) (Photo, error) {
	var (
		p                                   Photo
		md5, color, title, place, dateTaken sql.NullString
		cameraModel, lensMode, focalLength  sql.NullString
		aperture, exposureTime, sensitivity sql.NullString
		sortOrder, width, height            sql.NullInt64
		hidden, metadataParsed              sql.NullBool
	)

	err := row.Scan(
		&p.ID, &p.Filename, &p.Path, &p.UID, &md5,
		&sortOrder, &hidden, &metadataParsed,
		&width, &height, &color, &title, &place, &dateTaken,
		&cameraModel, &lensMode, &focalLength, &aperture,
		&exposureTime, &sensitivity,
	)
	if err != nil {
		return Photo{}, err
	}

	p.MD5 = md5.String
	p.SortOrder = sortOrder.Int64
	p.Hidden = hidden.Bool
	p.MetadataParsed = metadataParsed.Bool
	p.Width = width.Int64
	p.Height = height.Int64
	p.Color = color.String
	p.Title = title.String
	p.Place = place.String
	p.DateTaken = dateTaken.String
	p.CameraModel = cameraModel.String
	p.LensMode = lensMode.String
	p.FocalLength = focalLength.String
	p.Aperture = aperture.String
	p.ExposureTime = exposureTime.String
	p.Sensitivity = sensitivity.String

	return p, nil
}

// collectPhotos drains rows, failing on the first row that does not decode.
func collectPhotos(op string, rows *sql.Rows) ([]Photo, error) {
	photos := []Photo{}
	for i := 0; rows.Next(); i++ {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, newError(op, KindDecode, fmt.Errorf("row %d: %w", i, err))
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, newError(op, KindQuery, err)
	}
	return photos, nil
}

// orderByClause validates columns against the photo columns and renders an
// ORDER BY clause. No columns falls back to storage order.
func orderByClause(columns []string, reverse bool) (string, error) {
	dir := "ASC"
	if reverse {
		dir = "DESC"
	}
	if len(columns) == 0 {
		return "ORDER BY id " + dir, nil
	}

	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		if _, ok := sortableColumns[c]; !ok {
			return "", fmt.Errorf("%w: %q", ErrInvalidSortColumn, c)
		}
		parts = append(parts, c+" "+dir)
	}
	return "ORDER BY " + strings.Join(parts, ", "), nil
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
