// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/beachvis/pkg/metrics"
)

// HealthHandler handles health check and metrics requests.
type HealthHandler struct {
	environment string
	version     string
	started     time.Time
	now         func() time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(environment, version string, now func() time.Time) *HealthHandler {
	return &HealthHandler{environment: environment, version: version, started: now(), now: now}
}

type healthResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Uptime      float64           `json:"uptime"`
	Environment string            `json:"environment"`
	Version     string            `json:"version"`
	Services    map[string]string `json:"services"`
}

// HandleHealth handles GET /api/health requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	now := h.now()
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "healthy",
		Timestamp:   now.UTC(),
		Uptime:      now.Sub(h.started).Seconds(),
		Environment: h.environment,
		Version:     h.version,
		Services: map[string]string{
			"database":        "not_applicable",
			"external_apis":   "operational",
			"tournament_data": "available",
		},
	})
}

// HandleMetrics serves the Prometheus registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	// Use our custom metrics registry to serve metrics
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
