package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"photo-catalog/internal/logging"
	"photo-catalog/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Error   string `json:"error,omitempty"`

	// Catalog summary
	Photos          int `json:"photos"`
	Paths           int `json:"paths"`
	MetadataPending int `json:"metadataPending"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service including a catalog
// summary. It answers 503 when the store cannot be read.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	response := HealthResponse{
		Status:       statusHealthy,
		Ready:        true,
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	stats, err := h.catalog.Stats(ctx)
	if err != nil {
		logging.Warn("Health check: catalog stats failed: %v", err)
		response.Status = statusDegraded
		response.Ready = false
		response.Error = err.Error()
	} else {
		response.Photos = stats.Photos
		response.Paths = stats.Paths
		response.MetadataPending = stats.MetadataPending
	}

	w.Header().Set("Content-Type", "application/json")
	if response.Ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}

// ReadinessCheck returns 200 only when the store answers a ping
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.catalog.Ping(ctx); err != nil {
		logging.Warn("Readiness check failed: %v", err)
		writeJSONStatus(w, "not_ready", http.StatusServiceUnavailable)
		return
	}
	writeJSONStatus(w, "ready", http.StatusOK)
}
