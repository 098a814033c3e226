package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/paddock/internal/domain/model"
	"github.com/okian/paddock/pkg/metrics"
)

// MemoryStore is an in-memory Store. Snapshots are replaced wholesale, never mutated.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[int]*Snapshot

	ttl                   time.Duration
	metricsUpdateInterval time.Duration
	now                   func() time.Time

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore constructs a store and starts its metrics updater.
// The updater stops when ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		snapshots:             make(map[int]*Snapshot),
		ttl:                   time.Hour,
		metricsUpdateInterval: 5 * time.Second,
		now:                   time.Now,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startMetricsUpdater(ctx)
	return s
}

// Close stops background goroutines.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// Put replaces the snapshot of season.
func (s *MemoryStore) Put(_ context.Context, season int, standings []model.Standing) *Snapshot {
	snap := newSnapshot(season, standings, s.now())
	s.mu.Lock()
	s.snapshots[season] = snap
	s.mu.Unlock()
	return snap
}

// Get returns the fresh snapshot of season.
func (s *MemoryStore) Get(_ context.Context, season int) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fresh(season)
}

// TopN returns the first n standings of season.
func (s *MemoryStore) TopN(ctx context.Context, season, n int) ([]model.Standing, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	snap, ok := s.Get(ctx, season)
	if !ok {
		return nil, ErrNoSnapshot
	}
	if n > len(snap.Standings) {
		n = len(snap.Standings)
	}
	out := make([]model.Standing, n)
	copy(out, snap.Standings[:n])
	return out, nil
}

// Rank returns one driver's standing.
func (s *MemoryStore) Rank(ctx context.Context, season, driverNumber int) (model.Standing, error) {
	snap, ok := s.Get(ctx, season)
	if !ok {
		return model.Standing{}, ErrNoSnapshot
	}
	st, ok := snap.Lookup(driverNumber)
	if !ok {
		return model.Standing{}, ErrNotFound
	}
	return st, nil
}

// Count returns the number of drivers in the season snapshot.
func (s *MemoryStore) Count(ctx context.Context, season int) int {
	snap, ok := s.Get(ctx, season)
	if !ok {
		return 0
	}
	return len(snap.Standings)
}

// Seasons lists seasons with a fresh snapshot.
func (s *MemoryStore) Seasons(_ context.Context) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int, 0, len(s.snapshots))
	for season := range s.snapshots {
		if _, ok := s.fresh(season); ok {
			out = append(out, season)
		}
	}
	sort.Ints(out)
	return out
}

// Invalidate drops the snapshot of season.
func (s *MemoryStore) Invalidate(_ context.Context, season int) {
	s.mu.Lock()
	delete(s.snapshots, season)
	s.mu.Unlock()
}

// fresh assumes the lock is held.
func (s *MemoryStore) fresh(season int) (*Snapshot, bool) {
	snap, ok := s.snapshots[season]
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && !s.now().Before(snap.ComputedAt.Add(s.ttl)) {
		return nil, false
	}
	return snap, true
}

// startMetricsUpdater publishes the cached season count and drops expired snapshots.
func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	for season := range s.snapshots {
		if _, ok := s.fresh(season); !ok {
			delete(s.snapshots, season)
		}
	}
	n := len(s.snapshots)
	s.mu.Unlock()
	metrics.UpdateCachedSeasons(n)
}
