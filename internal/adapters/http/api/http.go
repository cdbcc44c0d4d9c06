// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	service "github.com/okian/beachvis/internal/app"
	"github.com/okian/beachvis/internal/domain/model"
	"github.com/okian/beachvis/internal/domain/outcome"
	"github.com/okian/beachvis/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Tournament(ctx context.Context, code string) outcome.Result[service.Fetched[model.TournamentDetail]]
	Schedule(ctx context.Context, code string) outcome.Result[service.Fetched[service.Schedule]]
	Match(ctx context.Context, code, matchID string) outcome.Result[service.Fetched[model.BeachMatchDetail]]
	Results(ctx context.Context, code string) outcome.Result[service.Fetched[service.Results]]
	Tournaments(ctx context.Context, year int) outcome.Result[service.Fetched[[]model.Tournament]]
	DefaultYear() int
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	tournamentHandler *TournamentHandler
	logger            logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := settings{
		environment: "development",
		version:     "dev",
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.Get().Named("api")
	}
	return &Server{
		healthHandler:     NewHealthHandler(cfg.environment, cfg.version, cfg.now),
		statsHandler:      NewStatsHandler(statsProvider),
		tournamentHandler: NewTournamentHandler(deps, cfg.logger),
		logger:            cfg.logger,
	}
}

// Register attaches all HTTP routes to r. Tournament routes are mounted both
// at the root and under /api.
func (s *Server) Register(_ context.Context, r *mux.Router) {
	r.Use(RequestIDMiddleware)

	t := s.tournamentHandler
	for _, prefix := range []string{"", "/api"} {
		r.HandleFunc(prefix+"/tournament/{code}",
			MetricsMiddleware(t.HandleDetail, "tournament")).Methods(http.MethodGet)
		r.HandleFunc(prefix+"/tournament/{code}/schedule",
			MetricsMiddleware(t.HandleSchedule, "schedule")).Methods(http.MethodGet)
		r.HandleFunc(prefix+"/tournament/{code}/matches/{matchId}",
			MetricsMiddleware(t.HandleMatch, "match")).Methods(http.MethodGet)
		r.HandleFunc(prefix+"/tournament/{code}/results",
			MetricsMiddleware(t.HandleResults, "results")).Methods(http.MethodGet)
	}
	r.HandleFunc("/api/tournaments", MetricsMiddleware(t.HandleList, "tournaments")).Methods(http.MethodGet)
	r.HandleFunc("/api/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health")).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)
	r.HandleFunc("/metrics", s.healthHandler.HandleMetrics).Methods(http.MethodGet)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeCached writes a successful payload with its cache headers.
func writeCached[T any](w http.ResponseWriter, f service.Fetched[T], v any) {
	status := "MISS"
	if f.Cached {
		status = "HIT"
	}
	w.Header().Set("X-Cache", status)
	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int(f.TTL.Seconds())))
	writeJSON(w, http.StatusOK, v)
}
