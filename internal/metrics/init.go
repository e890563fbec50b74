package metrics

// Operations lists every catalog operation label recorded in DBQueryTotal.
var Operations = []string{
	"bootstrap", "ping", "stats",
	"list_uids", "list_paths_with_prefix", "list_photos_in_paths",
	"list_photos_in_path", "list_photos_pending_metadata",
	"insert_photos", "remove_photos", "move_photos", "update_metadata",
}

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, file := range []string{"main", "wal", "shm"} {
		DBSizeBytes.WithLabelValues(file)
	}

	for _, op := range Operations {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}

	for _, op := range []string{"insert_photos", "remove_photos", "move_photos", "update_metadata"} {
		DBRowsAffected.WithLabelValues(op)
	}

	for _, outcome := range []string{"commit", "rollback"} {
		DBTransactionDuration.WithLabelValues(outcome)
	}
}
