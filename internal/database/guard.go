package database

import (
	"time"

	"photo-catalog/internal/metrics"
)

// acquire takes the connection guard and returns the function that releases
// it. Callers defer the release immediately so that every return path, error
// paths included, gives the guard back:
//
//	release := d.acquire()
//	defer release()
//
// Rows and statements opened under the guard must be closed before release
// runs; with deferred calls that holds because defers run last-in first-out.
func (d *Database) acquire() (release func()) {
	metrics.DBGuardWaiters.Inc()
	waitStart := time.Now()

	d.mu.Lock()

	heldAt := time.Now()
	metrics.DBGuardWaiters.Dec()
	metrics.DBGuardWaitDuration.Observe(heldAt.Sub(waitStart).Seconds())

	return func() {
		metrics.DBGuardHoldDuration.Observe(time.Since(heldAt).Seconds())
		d.mu.Unlock()
	}
}
