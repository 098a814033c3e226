package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/paddock/internal/adapters/repository"
)

// StandingsDependencies defines the interface for standings reads.
type StandingsDependencies interface {
	TopN(ctx context.Context, season, n int) ([]Entry, error)
	Rank(ctx context.Context, season, driverNumber int) (Entry, error)
}

// StandingsHandler handles standings requests.
type StandingsHandler struct {
	deps     StandingsDependencies
	seasons  seasonParser
	maxLimit int
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps StandingsDependencies, seasons seasonParser, maxLimit int) *StandingsHandler {
	return &StandingsHandler{
		deps:     deps,
		seasons:  seasons,
		maxLimit: maxLimit,
	}
}

type standingsResponse struct {
	Season    int     `json:"season"`
	Standings []Entry `json:"standings"`
}

// HandleList handles GET /api/standings?season=YYYY&limit=N requests.
func (h *StandingsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_standings"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	season, err := h.seasons.parse(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	n, err := h.limit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	entries, err := h.deps.TopN(r.Context(), season, n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, standingsResponse{Season: season, Standings: entries})
}

// limit reads ?limit. Absent or larger values are capped at maxLimit.
func (h *StandingsHandler) limit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return h.maxLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	return min(n, h.maxLimit), nil
}

// HandleDriver handles GET /api/standings/{driver_number} requests.
func (h *StandingsHandler) HandleDriver(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_driver_standing"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/api/standings/")
	number, err := strconv.Atoi(path)
	if path == "" || err != nil || number < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	season, err := h.seasons.parse(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	entry, err := h.deps.Rank(r.Context(), season, number)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
