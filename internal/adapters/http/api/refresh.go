package api

import (
	"context"
	"net/http"
)

// RefreshDependencies defines the interface for scheduling recomputes.
type RefreshDependencies interface {
	Refresh(ctx context.Context, season int) bool
}

// RefreshHandler handles refresh requests.
type RefreshHandler struct {
	deps    RefreshDependencies
	seasons seasonParser
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies, seasons seasonParser) *RefreshHandler {
	return &RefreshHandler{deps: deps, seasons: seasons}
}

type refreshResponse struct {
	Status string `json:"status"`
	Season int    `json:"season"`
}

// HandleRefresh handles POST /api/refresh?season=YYYY requests.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_refresh"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	season, err := h.seasons.parse(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if !h.deps.Refresh(r.Context(), season) {
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, refreshResponse{Status: "accepted", Season: season})
}
