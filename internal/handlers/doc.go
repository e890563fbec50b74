// Package handlers provides the ops HTTP endpoints of the photo catalog:
// liveness, readiness and health checks backed by the catalog store, plus
// the Prometheus metrics endpoint.
package handlers
