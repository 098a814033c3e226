// Package points turns session classifications into championship standings.
package points

import (
	"context"
	"sort"
	"time"

	"github.com/okian/paddock/internal/domain/model"
	"github.com/okian/paddock/pkg/logger"
	"github.com/okian/paddock/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// PositionSource fetches the position reports of one session.
type PositionSource interface {
	Positions(ctx context.Context, sessionKey int) (model.PositionBatch, error)
}

// Aggregator sums points and wins over a list of sessions.
type Aggregator struct {
	src         PositionSource
	table       PointsTable
	concurrency int
	log         logger.Logger
}

// NewAggregator creates an Aggregator reading positions from src.
func NewAggregator(src PositionSource, opts ...Option) *Aggregator {
	a := &Aggregator{
		src:         src,
		table:       DefaultPointsTable(),
		concurrency: 1,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Table returns the points scale in use.
func (a *Aggregator) Table() PointsTable { return a.table }

// FinalPositions returns each driver's position from their latest report.
// Reports with equal timestamps keep the earlier one; a missing timestamp counts as the zero time.
func FinalPositions(records []model.Position) map[int]int {
	type latest struct {
		at       time.Time
		position int
	}
	best := make(map[int]latest, len(records))
	for _, r := range records {
		at := r.Timestamp()
		cur, ok := best[r.DriverNumber]
		if ok && !at.After(cur.at) {
			continue
		}
		best[r.DriverNumber] = latest{at: at, position: r.Position}
	}

	out := make(map[int]int, len(best))
	for num, l := range best {
		out[num] = l.position
	}
	return out
}

type fetched struct {
	batch model.PositionBatch
	err   error
}

// Compute returns the standings of roster over sessions, ranked from 1.
// Sessions must be in chronological order. Sessions whose positions cannot be
// fetched or decoded contribute nothing.
func (a *Aggregator) Compute(ctx context.Context, sessions []model.Session, roster []model.Driver) []model.Standing {
	tally := make(map[int]*model.Standing, len(roster))
	standings := make([]*model.Standing, 0, len(roster))
	for _, d := range roster {
		if _, dup := tally[d.Number]; dup {
			continue
		}
		s := &model.Standing{Driver: d}
		tally[d.Number] = s
		standings = append(standings, s)
	}

	if a.concurrency > 1 && len(sessions) > 1 {
		results := a.fetchAll(ctx, sessions)
		for i, session := range sessions {
			a.apply(ctx, session, results[i], tally)
		}
	} else {
		for _, session := range sessions {
			batch, err := a.src.Positions(ctx, session.Key)
			a.apply(ctx, session, fetched{batch: batch, err: err}, tally)
		}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		x, y := standings[i], standings[j]
		if x.Points != y.Points {
			return x.Points > y.Points
		}
		if x.Wins != y.Wins {
			return x.Wins > y.Wins
		}
		if x.Driver.FullName != y.Driver.FullName {
			return x.Driver.FullName < y.Driver.FullName
		}
		return x.Driver.Number < y.Driver.Number
	})

	out := make([]model.Standing, len(standings))
	for i, s := range standings {
		s.Rank = i + 1
		out[i] = *s
	}
	return out
}

// fetchAll fetches every session's positions with at most a.concurrency requests in flight.
// Results are indexed like sessions.
func (a *Aggregator) fetchAll(ctx context.Context, sessions []model.Session) []fetched {
	results := make([]fetched, len(sessions))
	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, session := range sessions {
		g.Go(func() error {
			batch, err := a.src.Positions(ctx, session.Key)
			results[i] = fetched{batch: batch, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// apply credits one session's final positions to the tally.
func (a *Aggregator) apply(ctx context.Context, session model.Session, f fetched, tally map[int]*model.Standing) {
	metrics.RecordSessionProcessed()

	if f.err != nil {
		a.log.Warn(ctx, "positions unavailable",
			logger.String("endpoint", "position"),
			logger.Int("session_key", session.Key),
			logger.Error(f.err))
		return
	}
	if f.batch.Shape != model.ShapeList {
		metrics.RecordPositionShape(f.batch.Shape.String())
	}
	if !f.batch.Known() {
		a.log.Warn(ctx, "positions payload has unknown shape",
			logger.String("endpoint", "position"),
			logger.Int("session_key", session.Key))
		return
	}

	for num, pos := range FinalPositions(f.batch.Records) {
		s, ok := tally[num]
		if !ok {
			metrics.RecordOrphanedPosition()
			continue
		}
		s.Points += a.table.Points(pos)
		if pos == 1 {
			s.Wins++
		}
	}
}
