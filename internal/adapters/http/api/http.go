// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/paddock/internal/domain/model"
	"github.com/okian/paddock/internal/domain/types"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	TopN(ctx context.Context, season, n int) ([]types.Entry, error)
	Rank(ctx context.Context, season, driverNumber int) (types.Entry, error)

	// Refresh schedules a recompute. Returns false on backpressure.
	Refresh(ctx context.Context, season int) bool

	Drivers(ctx context.Context, season int) []model.Driver
	Circuits(ctx context.Context, season int) []model.Meeting
}

// Entry mirrors the read shape returned by standings queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	standingsHandler *StandingsHandler
	driversHandler   *DriversHandler
	circuitsHandler  *CircuitsHandler
	refreshHandler   *RefreshHandler
}

// NewServer creates a new API server with all handlers.
// maxLimit caps ?limit and defaultSeason applies when ?season is absent.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit, defaultSeason int) *Server {
	seasons := seasonParser{fallback: defaultSeason}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		standingsHandler: NewStandingsHandler(deps, seasons, maxLimit),
		driversHandler:   NewDriversHandler(deps, seasons),
		circuitsHandler:  NewCircuitsHandler(deps, seasons),
		refreshHandler:   NewRefreshHandler(deps, seasons),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/standings", MetricsMiddleware(s.standingsHandler.HandleList, "standings"))
	mux.HandleFunc("/api/standings/", MetricsMiddleware(s.standingsHandler.HandleDriver, "standings_driver"))
	mux.HandleFunc("/api/drivers", MetricsMiddleware(s.driversHandler.HandleList, "drivers"))
	mux.HandleFunc("/api/circuits", MetricsMiddleware(s.circuitsHandler.HandleList, "circuits"))
	mux.HandleFunc("/api/refresh", MetricsMiddleware(s.refreshHandler.HandleRefresh, "refresh"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

type seasonParser struct {
	fallback int
}

// parse reads ?season. An absent value gives the fallback.
func (p seasonParser) parse(r *http.Request) (int, error) {
	return model.ParseSeason(r.URL.Query().Get("season"), p.fallback)
}
