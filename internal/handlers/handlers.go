package handlers

import (
	"context"
	"net/http"
	"time"

	"photo-catalog/internal/database"
	"photo-catalog/internal/metrics"

	"github.com/gorilla/mux"
)

// Catalog is the part of the store the ops endpoints need.
type Catalog interface {
	Ping(ctx context.Context) error
	Stats(ctx context.Context) (database.CatalogStats, error)
}

type Handlers struct {
	catalog   Catalog
	startTime time.Time
	timeout   time.Duration
}

func New(catalog Catalog) *Handlers {
	return &Handlers{
		catalog:   catalog,
		startTime: time.Now(),
		timeout:   5 * time.Second,
	}
}

// Router registers the ops routes on a new gorilla/mux router.
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(countRequests)

	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet)
	r.Handle("/metrics", h.MetricsHandler()).Methods(http.MethodGet)

	return r
}

// countRequests records one HTTPRequestsTotal sample per request, labelled
// by route template.
func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}
		metrics.HTTPRequestsTotal.WithLabelValues(path, http.StatusText(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
