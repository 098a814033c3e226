// Package repository holds computed standings snapshots.
package repository

import (
	"context"
	"time"

	"github.com/okian/paddock/internal/domain/model"
)

// Snapshot is an immutable set of standings for one season.
type Snapshot struct {
	Season     int
	Standings  []model.Standing
	ComputedAt time.Time

	// Index into Standings by driver number.
	byNumber map[int]int
}

func newSnapshot(season int, standings []model.Standing, at time.Time) *Snapshot {
	rows := make([]model.Standing, len(standings))
	copy(rows, standings)
	idx := make(map[int]int, len(rows))
	for i, s := range rows {
		idx[s.Driver.Number] = i
	}
	return &Snapshot{Season: season, Standings: rows, ComputedAt: at, byNumber: idx}
}

// Lookup returns the standing of one driver.
func (s *Snapshot) Lookup(driverNumber int) (model.Standing, bool) {
	i, ok := s.byNumber[driverNumber]
	if !ok {
		return model.Standing{}, false
	}
	return s.Standings[i], true
}

// Store provides read/write access to standings snapshots keyed by season.
type Store interface {
	// Put replaces the snapshot of season.
	Put(ctx context.Context, season int, standings []model.Standing) *Snapshot

	// Get returns the snapshot of season if one exists and has not expired.
	Get(ctx context.Context, season int) (*Snapshot, bool)

	// TopN returns the first n standings of season.
	// Returns ErrInvalidLimit for n < 1 and ErrNoSnapshot if nothing fresh is stored.
	TopN(ctx context.Context, season, n int) ([]model.Standing, error)

	// Rank returns one driver's standing.
	// Returns ErrNotFound if the driver is not in the snapshot.
	Rank(ctx context.Context, season, driverNumber int) (model.Standing, error)

	// Count returns the number of drivers in the season snapshot.
	Count(ctx context.Context, season int) int

	// Seasons lists the seasons with a fresh snapshot, ascending.
	Seasons(ctx context.Context) []int

	// Invalidate drops the snapshot of season.
	Invalidate(ctx context.Context, season int)
}
