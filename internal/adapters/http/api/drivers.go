package api

import (
	"context"
	"net/http"

	"github.com/okian/paddock/internal/domain/model"
	"github.com/okian/paddock/internal/domain/types"
)

// DriversDependencies defines the interface for roster reads.
type DriversDependencies interface {
	Drivers(ctx context.Context, season int) []model.Driver
}

// DriversHandler handles roster requests.
type DriversHandler struct {
	deps    DriversDependencies
	seasons seasonParser
}

// NewDriversHandler creates a new drivers handler.
func NewDriversHandler(deps DriversDependencies, seasons seasonParser) *DriversHandler {
	return &DriversHandler{deps: deps, seasons: seasons}
}

type driversResponse struct {
	Season  int            `json:"season"`
	Drivers []types.Driver `json:"drivers"`
}

// HandleList handles GET /api/drivers?season=YYYY requests.
func (h *DriversHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_drivers"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	season, err := h.seasons.parse(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	drivers := h.deps.Drivers(r.Context(), season)
	writeJSON(w, http.StatusOK, driversResponse{Season: season, Drivers: types.Drivers(drivers)})
}
