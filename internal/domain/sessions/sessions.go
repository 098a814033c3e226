// Package sessions resolves the ordered list of sessions that make up a season.
package sessions

import (
	"context"
	"sort"

	"github.com/okian/paddock/internal/domain/model"
	"github.com/okian/paddock/pkg/logger"
)

// Source fetches session listings.
type Source interface {
	Sessions(ctx context.Context, q model.SessionQuery) ([]model.Session, error)
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for degraded fetches.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// Resolver lists a season's sessions in chronological order.
type Resolver struct {
	src Source
	log logger.Logger
}

// NewResolver creates a Resolver reading from src.
func NewResolver(src Source, opts ...Option) *Resolver {
	r := &Resolver{src: src, log: logger.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the sessions of year, filtered by sessionType when non-empty,
// sorted ascending by start time. Sessions starting together keep their source order.
// Fetch failures are logged and yield an empty list.
func (r *Resolver) Resolve(ctx context.Context, year int, sessionType string) []model.Session {
	list, err := r.src.Sessions(ctx, model.SessionQuery{Year: year, Name: sessionType})
	if err != nil {
		r.log.Warn(ctx, "sessions unavailable",
			logger.String("endpoint", "sessions"),
			logger.Int("year", year),
			logger.String("session_type", sessionType),
			logger.Error(err))
		return []model.Session{}
	}

	out := make([]model.Session, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start().Before(out[j].Start())
	})
	return out
}

// Latest returns the last session of a sorted list.
func Latest(sessions []model.Session) (model.Session, bool) {
	if len(sessions) == 0 {
		return model.Session{}, false
	}
	return sessions[len(sessions)-1], true
}
