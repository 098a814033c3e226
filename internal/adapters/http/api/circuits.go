package api

import (
	"context"
	"net/http"

	"github.com/okian/paddock/internal/domain/model"
	"github.com/okian/paddock/internal/domain/types"
)

// CircuitsDependencies defines the interface for calendar reads.
type CircuitsDependencies interface {
	Circuits(ctx context.Context, season int) []model.Meeting
}

// CircuitsHandler handles circuit requests.
type CircuitsHandler struct {
	deps    CircuitsDependencies
	seasons seasonParser
}

// NewCircuitsHandler creates a new circuits handler.
func NewCircuitsHandler(deps CircuitsDependencies, seasons seasonParser) *CircuitsHandler {
	return &CircuitsHandler{deps: deps, seasons: seasons}
}

type circuitsResponse struct {
	Season   int             `json:"season"`
	Circuits []types.Circuit `json:"circuits"`
}

// HandleList handles GET /api/circuits?season=YYYY requests.
func (h *CircuitsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_circuits"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	season, err := h.seasons.parse(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	meetings := h.deps.Circuits(r.Context(), season)
	writeJSON(w, http.StatusOK, circuitsResponse{Season: season, Circuits: types.Circuits(meetings)})
}
