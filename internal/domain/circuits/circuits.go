// Package circuits lists the venues of a season.
package circuits

import (
	"context"
	"sort"

	"github.com/okian/paddock/internal/domain/dedupe"
	"github.com/okian/paddock/internal/domain/model"
	"github.com/okian/paddock/pkg/logger"
)

// Source fetches the meetings of a year.
type Source interface {
	Meetings(ctx context.Context, year int) ([]model.Meeting, error)
}

// Lister returns one meeting per circuit.
type Lister struct {
	src Source
	log logger.Logger
}

// NewLister creates a Lister. A nil logger discards output.
func NewLister(src Source, log logger.Logger) *Lister {
	if log == nil {
		log = logger.Nop()
	}
	return &Lister{src: src, log: log}
}

// List returns the first meeting held at each circuit in year, ordered by start date.
func (l *Lister) List(ctx context.Context, year int) []model.Meeting {
	meetings, err := l.src.Meetings(ctx, year)
	if err != nil {
		l.log.Warn(ctx, "meetings unavailable",
			logger.String("endpoint", "meetings"),
			logger.Int("year", year),
			logger.Error(err))
		return []model.Meeting{}
	}

	out := dedupe.Unique(meetings, func(m model.Meeting) int { return m.CircuitKey })
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start().Before(out[j].Start())
	})
	return out
}
