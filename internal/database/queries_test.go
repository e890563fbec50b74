package database

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"
)

func insertTestPhotos(t *testing.T, db *Database, photos ...Photo) {
	t.Helper()
	if err := db.InsertPhotos(context.Background(), photos); err != nil {
		t.Fatalf("InsertPhotos failed: %v", err)
	}
}

func filenames(photos []Photo) []string {
	names := make([]string, 0, len(photos))
	for _, p := range photos {
		names = append(names, p.Filename)
	}
	return names
}

func TestListUIDs(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	uids, err := db.ListUIDs(ctx)
	if err != nil {
		t.Fatalf("ListUIDs on empty catalog failed: %v", err)
	}
	if uids == nil || len(uids) != 0 {
		t.Errorf("ListUIDs() on empty catalog = %#v, want empty slice", uids)
	}

	insertTestPhotos(t, db,
		Photo{Filename: "c.jpg", Path: "/p", UID: "uid-3"},
		Photo{Filename: "a.jpg", Path: "/p", UID: "uid-1"},
		Photo{Filename: "b.jpg", Path: "/q", UID: "uid-2"},
	)

	uids, err = db.ListUIDs(ctx)
	if err != nil {
		t.Fatalf("ListUIDs failed: %v", err)
	}
	want := []string{"uid-3", "uid-1", "uid-2"}
	if !reflect.DeepEqual(uids, want) {
		t.Errorf("ListUIDs() = %v, want storage order %v", uids, want)
	}
}

func TestListPathsWithPrefix(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	insertTestPhotos(t, db,
		Photo{Filename: "1.jpg", Path: "/a/b", UID: "u1"},
		Photo{Filename: "2.jpg", Path: "/a/bc", UID: "u2"},
		Photo{Filename: "3.jpg", Path: "/a/b/c", UID: "u3"},
		Photo{Filename: "4.jpg", Path: "/a/b", UID: "u4"},
		Photo{Filename: "5.jpg", Path: "/a", UID: "u5"},
		Photo{Filename: "6.jpg", Path: "/z/a/b", UID: "u6"},
		Photo{Filename: "7.jpg", Path: "/été/x", UID: "u7"},
	)

	tests := []struct {
		name   string
		prefix string
		want   []string
	}{
		{
			name:   "character prefix includes sibling with longer name",
			prefix: "/a/b",
			want:   []string{"/a/b", "/a/bc", "/a/b/c"},
		},
		{
			name:   "trailing separator excludes sibling",
			prefix: "/a/b/",
			want:   []string{"/a/b/c"},
		},
		{
			name:   "longer prefix excludes shorter paths",
			prefix: "/a/bc",
			want:   []string{"/a/bc"},
		},
		{
			name:   "prefix must match from the first character",
			prefix: "a/b",
			want:   []string{},
		},
		{
			name:   "multi-byte prefix counts characters",
			prefix: "/été",
			want:   []string{"/été/x"},
		},
		{
			name:   "no match",
			prefix: "/nothing",
			want:   []string{},
		},
		{
			name:   "empty prefix matches everything",
			prefix: "",
			want:   []string{"/a/b", "/a/bc", "/a/b/c", "/a", "/z/a/b", "/été/x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.ListPathsWithPrefix(ctx, tt.prefix)
			if err != nil {
				t.Fatalf("ListPathsWithPrefix(%q) failed: %v", tt.prefix, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ListPathsWithPrefix(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestListPhotosInPaths(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	insertTestPhotos(t, db,
		Photo{Filename: "1.jpg", Path: "/a", UID: "u1"},
		Photo{Filename: "2.jpg", Path: "/b", UID: "u2"},
		Photo{Filename: "3.jpg", Path: "/a/sub", UID: "u3"},
		Photo{Filename: "4.jpg", Path: "/c", UID: "u4"},
	)

	t.Run("empty set", func(t *testing.T) {
		got, err := db.ListPhotosInPaths(ctx, nil)
		if err != nil {
			t.Fatalf("ListPhotosInPaths(nil) failed: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("ListPhotosInPaths(nil) = %#v, want empty slice", got)
		}

		got, err = db.ListPhotosInPaths(ctx, []string{})
		if err != nil || len(got) != 0 {
			t.Errorf("ListPhotosInPaths([]) = %v, %v; want empty, nil", got, err)
		}
	})

	t.Run("exact match only", func(t *testing.T) {
		got, err := db.ListPhotosInPaths(ctx, []string{"/a", "/c"})
		if err != nil {
			t.Fatalf("ListPhotosInPaths failed: %v", err)
		}
		if want := []string{"1.jpg", "4.jpg"}; !reflect.DeepEqual(filenames(got), want) {
			t.Errorf("filenames = %v, want %v", filenames(got), want)
		}
	})

	t.Run("duplicates and unknown paths", func(t *testing.T) {
		got, err := db.ListPhotosInPaths(ctx, []string{"/b", "/b", "/missing"})
		if err != nil {
			t.Fatalf("ListPhotosInPaths failed: %v", err)
		}
		if want := []string{"2.jpg"}; !reflect.DeepEqual(filenames(got), want) {
			t.Errorf("filenames = %v, want %v", filenames(got), want)
		}
	})

	t.Run("path values are bound, not interpolated", func(t *testing.T) {
		got, err := db.ListPhotosInPaths(ctx, []string{"/a') OR 1=1 --"})
		if err != nil {
			t.Fatalf("ListPhotosInPaths failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("injection-shaped path matched %d photos", len(got))
		}
	})
}

func TestListPhotosInPathRoundTrip(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	in := Photo{Filename: "sunset.jpg", Path: "/holidays/2023", UID: "uid-sunset", MD5: "d41d8cd98f00b204e9800998ecf8427e"}
	insertTestPhotos(t, db, in)

	got, err := db.ListPhotosInPath(ctx, in.Path, []string{"filename"}, false)
	if err != nil {
		t.Fatalf("ListPhotosInPath failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ListPhotosInPath returned %d photos, want 1", len(got))
	}

	p := got[0]
	if p.ID == 0 {
		t.Error("ID should be assigned by storage")
	}

	// Storage-only fields read back as their zero values.
	want := in
	want.ID = p.ID
	if !reflect.DeepEqual(p, want) {
		t.Errorf("round trip = %+v, want %+v", p, want)
	}
}

func TestListPhotosInPathSortOrder(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	insertTestPhotos(t, db,
		Photo{Filename: "b.jpg", Path: "/album", UID: "u1"},
		Photo{Filename: "c.jpg", Path: "/album", UID: "u2"},
		Photo{Filename: "a.jpg", Path: "/album", UID: "u3"},
		Photo{Filename: "0.jpg", Path: "/album/nested", UID: "u4"},
	)
	if err := db.UpdateMetadata(ctx, []Photo{
		{UID: "u1", Width: 100},
		{UID: "u2", Width: 100},
		{UID: "u3", Width: 50},
	}); err != nil {
		t.Fatalf("UpdateMetadata failed: %v", err)
	}

	tests := []struct {
		name    string
		columns []string
		reverse bool
		want    []string
	}{
		{name: "filename ascending", columns: []string{"filename"}, want: []string{"a.jpg", "b.jpg", "c.jpg"}},
		{name: "filename descending", columns: []string{"filename"}, reverse: true, want: []string{"c.jpg", "b.jpg", "a.jpg"}},
		{name: "multiple columns", columns: []string{"width", "filename"}, want: []string{"a.jpg", "b.jpg", "c.jpg"}},
		{name: "reverse applies to every column", columns: []string{"width", "filename"}, reverse: true, want: []string{"c.jpg", "b.jpg", "a.jpg"}},
		{name: "no columns uses storage order", want: []string{"b.jpg", "c.jpg", "a.jpg"}},
		{name: "no columns reversed", reverse: true, want: []string{"a.jpg", "c.jpg", "b.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.ListPhotosInPath(ctx, "/album", tt.columns, tt.reverse)
			if err != nil {
				t.Fatalf("ListPhotosInPath failed: %v", err)
			}
			if !reflect.DeepEqual(filenames(got), tt.want) {
				t.Errorf("filenames = %v, want %v", filenames(got), tt.want)
			}
		})
	}
}

func TestListPhotosInPathRejectsUnknownColumns(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()
	insertTestPhotos(t, db, Photo{Filename: "a.jpg", Path: "/p", UID: "u1"})

	for _, column := range []string{"nope", "filename; DROP TABLE photo", "filename DESC", "FILENAME", ""} {
		t.Run(column, func(t *testing.T) {
			_, err := db.ListPhotosInPath(ctx, "/p", []string{"filename", column}, false)
			if err == nil {
				t.Fatalf("ListPhotosInPath should reject column %q", column)
			}
			if !errors.Is(err, ErrInvalidSortColumn) {
				t.Errorf("errors.Is(err, ErrInvalidSortColumn) = false (err: %v)", err)
			}
			if KindOf(err) != KindInvalidArgument {
				t.Errorf("KindOf(err) = %v, want %v", KindOf(err), KindInvalidArgument)
			}
		})
	}

	// The table survived.
	uids, err := db.ListUIDs(ctx)
	if err != nil || len(uids) != 1 {
		t.Errorf("ListUIDs() = %v, %v; want one uid", uids, err)
	}
}

func TestListPhotosPendingMetadataAndStats(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	stats, err := db.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats on empty catalog failed: %v", err)
	}
	if stats != (CatalogStats{}) {
		t.Errorf("Stats() on empty catalog = %+v, want zero", stats)
	}

	insertTestPhotos(t, db,
		Photo{Filename: "1.jpg", Path: "/a", UID: "u1"},
		Photo{Filename: "2.jpg", Path: "/a", UID: "u2"},
		Photo{Filename: "3.jpg", Path: "/b", UID: "u3"},
	)
	if err := db.UpdateMetadata(ctx, []Photo{{UID: "u2", Title: "Parsed"}}); err != nil {
		t.Fatalf("UpdateMetadata failed: %v", err)
	}

	pending, err := db.ListPhotosPendingMetadata(ctx)
	if err != nil {
		t.Fatalf("ListPhotosPendingMetadata failed: %v", err)
	}
	var uids []string
	for _, p := range pending {
		uids = append(uids, p.UID)
	}
	sort.Strings(uids)
	if want := []string{"u1", "u3"}; !reflect.DeepEqual(uids, want) {
		t.Errorf("pending uids = %v, want %v", uids, want)
	}

	stats, err = db.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if want := (CatalogStats{Photos: 3, Paths: 2, MetadataPending: 2}); stats != want {
		t.Errorf("Stats() = %+v, want %+v", stats, want)
	}
}

func TestRowDecodeFailureAbortsQuery(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	insertTestPhotos(t, db, Photo{Filename: "ok.jpg", Path: "/p", UID: "u1"})
	if _, err := db.db.ExecContext(ctx,
		"INSERT INTO photo (filename, path, uid, width) VALUES ('bad.jpg', '/p', 'u2', 'not-a-number')",
	); err != nil {
		t.Fatalf("raw insert failed: %v", err)
	}

	photos, err := db.ListPhotosInPath(ctx, "/p", []string{"id"}, false)
	if err == nil {
		t.Fatalf("ListPhotosInPath should fail on an undecodable row, got %d photos", len(photos))
	}
	if KindOf(err) != KindDecode {
		t.Errorf("KindOf(err) = %v, want %v (err: %v)", KindOf(err), KindDecode, err)
	}
	if photos != nil {
		t.Errorf("photos = %v, want nil on decode failure", photos)
	}

	// The guard is released and other queries keep working.
	if _, err := db.ListUIDs(ctx); err != nil {
		t.Errorf("ListUIDs after decode failure: %v", err)
	}
}
