// Package roster builds the set of drivers entered in a session.
package roster

import (
	"context"

	"github.com/okian/paddock/internal/domain/dedupe"
	"github.com/okian/paddock/internal/domain/model"
	"github.com/okian/paddock/pkg/logger"
)

// Source fetches the drivers of one session.
type Source interface {
	Drivers(ctx context.Context, sessionKey int) ([]model.Driver, error)
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithFallbacks sets the headshot fallbacks.
func WithFallbacks(f Fallbacks) Option {
	return func(b *Builder) {
		b.fallbacks = f
	}
}

// WithLogger sets the logger used for degraded fetches.
func WithLogger(l logger.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// Builder turns a session's driver listing into a roster with one entry per car number.
type Builder struct {
	src       Source
	fallbacks Fallbacks
	log       logger.Logger
}

// NewBuilder creates a Builder reading from src.
func NewBuilder(src Source, opts ...Option) *Builder {
	b := &Builder{src: src, log: logger.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns the drivers of ref in source order, deduplicated by number.
// Missing headshots are filled from the fallbacks. A zero ref or a failed fetch yields an empty roster.
func (b *Builder) Build(ctx context.Context, ref model.Session) []model.Driver {
	if ref.IsZero() {
		return []model.Driver{}
	}

	list, err := b.src.Drivers(ctx, ref.Key)
	if err != nil {
		b.log.Warn(ctx, "drivers unavailable",
			logger.String("endpoint", "drivers"),
			logger.Int("session_key", ref.Key),
			logger.Error(err))
		return []model.Driver{}
	}

	drivers := dedupe.Unique(list, func(d model.Driver) int { return d.Number })
	for i := range drivers {
		if drivers[i].HeadshotURL != "" {
			continue
		}
		if url, ok := b.fallbacks.Headshot(drivers[i].FullName, drivers[i].Number); ok {
			drivers[i].HeadshotURL = url
		}
	}
	return drivers
}
