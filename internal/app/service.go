// Package service provides the core business service behind the HTTP API,
// the site and the CLI.
package service

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/okian/paddock/internal/adapters/mq/queue"
	"github.com/okian/paddock/internal/adapters/mq/worker"
	"github.com/okian/paddock/internal/adapters/openf1"
	"github.com/okian/paddock/internal/adapters/repository"
	"github.com/okian/paddock/internal/domain/circuits"
	"github.com/okian/paddock/internal/domain/dedupe"
	"github.com/okian/paddock/internal/domain/model"
	"github.com/okian/paddock/internal/domain/points"
	"github.com/okian/paddock/internal/domain/roster"
	"github.com/okian/paddock/internal/domain/sessions"
	"github.com/okian/paddock/internal/domain/types"
	"github.com/okian/paddock/pkg/logger"
	"github.com/okian/paddock/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// Upstream is everything the service reads from OpenF1.
type Upstream interface {
	sessions.Source
	roster.Source
	points.PositionSource
	circuits.Source
}

// storeUpdater adapts the snapshot store to worker.Updater.
type storeUpdater struct {
	store repository.Store
}

func (u storeUpdater) Put(ctx context.Context, season int, standings []model.Standing) {
	if len(standings) == 0 {
		return
	}
	u.store.Put(ctx, season, standings)
}

// Service computes and serves standings, rosters and circuits.
type Service struct {
	mu sync.RWMutex

	// Core components
	upstream   Upstream
	resolver   *sessions.Resolver
	builder    *roster.Builder
	aggregator *points.Aggregator
	lister     *circuits.Lister
	store      *repository.MemoryStore
	refreshQ   *queue.InMemoryQueue
	pool       *worker.Pool
	pending    dedupe.Deduper[int]
	group      singleflight.Group

	// Configuration
	sessionType      string
	workerCount      int
	queueSize        int
	snapshotTTL      time.Duration
	refreshInterval  time.Duration
	refreshSeasons   []int
	fetchConcurrency int
	table            points.PointsTable
	fallbacks        roster.Fallbacks

	// State
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	logger logger.Logger
}

// New constructs a Service. Without WithUpstream it reads the public OpenF1 API.
func New(opts ...Option) *Service {
	s := &Service{
		sessionType:      "Race",
		workerCount:      runtime.NumCPU(),
		queueSize:        64,
		snapshotTTL:      time.Hour,
		fetchConcurrency: 1,
		table:            points.DefaultPointsTable(),
		logger:           logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.upstream == nil {
		s.upstream = openf1.New(openf1.DefaultBaseURL, openf1.WithLogger(s.logger.Named("openf1")))
	}

	s.resolver = sessions.NewResolver(s.upstream, sessions.WithLogger(s.logger.Named("sessions")))
	s.builder = roster.NewBuilder(s.upstream,
		roster.WithFallbacks(s.fallbacks),
		roster.WithLogger(s.logger.Named("roster")))
	s.aggregator = points.NewAggregator(s.upstream,
		points.WithPointsTable(s.table),
		points.WithFetchConcurrency(s.fetchConcurrency),
		points.WithLogger(s.logger.Named("points")))
	s.lister = circuits.NewLister(s.upstream, s.logger.Named("circuits"))
	s.store = repository.NewMemoryStore(context.Background(), repository.WithTTL(s.snapshotTTL))
	s.pending = dedupe.New[int]()
	return s
}

// Start launches the refresh workers and, when configured, the warm-up ticker.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting standings service...")

	s.refreshQ = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.refreshQ, s, storeUpdater{store: s.store},
		worker.WithLogger(s.logger.Named("worker")),
		worker.WithJobHook(func(ctx context.Context, job worker.Job, _ error) {
			s.pending.Unrecord(ctx, job.Season)
		}))
	s.pool.Start(ctx)

	s.stopCh = make(chan struct{})
	if s.refreshInterval > 0 && len(s.refreshSeasons) > 0 {
		s.wg.Add(1)
		go s.warmLoop(ctx, s.stopCh)
	}

	s.started = true
	s.logger.Info(ctx, "standings service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.String("sessionType", s.sessionType),
	)
	return nil
}

// Stop shuts down workers and background loops. It is safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	if s.started {
		s.logger.Info(ctx, "stopping standings service...")
		close(s.stopCh)
		s.wg.Wait()
		if err := s.pool.Shutdown(ctx); err != nil {
			s.logger.Error(ctx, "worker pool shutdown", logger.Error(err))
		}
		s.started = false
		s.logger.Info(ctx, "standings service stopped")
	}
	_ = s.store.Close()
}

// warmLoop enqueues the configured seasons now and on every tick.
func (s *Service) warmLoop(ctx context.Context, stop <-chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	s.enqueueAll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			s.enqueueAll(ctx)
		}
	}
}

func (s *Service) enqueueAll(ctx context.Context) {
	for _, season := range s.refreshSeasons {
		if !s.enqueue(ctx, season) {
			s.logger.Warn(ctx, "refresh not queued", logger.Int("season", season))
		}
	}
}

// Compute runs the full pipeline for season without touching the snapshot store.
func (s *Service) Compute(ctx context.Context, season int) ([]model.Standing, error) {
	start := time.Now()

	races := s.resolver.Resolve(ctx, season, s.sessionType)
	ref, _ := sessions.Latest(races)
	drivers := s.builder.Build(ctx, ref)
	standings := s.aggregator.Compute(ctx, races, drivers)

	ms := float64(time.Since(start).Milliseconds())
	if err := ctx.Err(); err != nil {
		metrics.RecordComputation("cancelled", ms)
		return nil, err
	}
	outcome := "ok"
	if len(standings) == 0 {
		outcome = "empty"
	}
	metrics.RecordComputation(outcome, ms)
	s.logger.Debug(ctx, "standings computed",
		logger.Int("season", season),
		logger.Int("sessions", len(races)),
		logger.Int("drivers", len(drivers)),
		logger.Float64("ms", ms))
	return standings, nil
}

// Standings returns the ranked standings of season, computing them when no fresh
// snapshot exists. Concurrent callers for one season share a computation.
// Empty results are returned but not stored.
func (s *Service) Standings(ctx context.Context, season int) ([]model.Standing, error) {
	if snap, ok := s.store.Get(ctx, season); ok {
		return snap.Standings, nil
	}

	// The shared computation outlives any one caller's cancellation.
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(strconv.Itoa(season), func() (any, error) {
		if snap, ok := s.store.Get(shared, season); ok {
			return snap.Standings, nil
		}
		standings, err := s.Compute(shared, season)
		if err != nil {
			return nil, err
		}
		if len(standings) > 0 {
			s.store.Put(shared, season, standings)
			metrics.UpdateCachedSeasons(len(s.store.Seasons(shared)))
		}
		return standings, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]model.Standing), nil
	}
}

// TopN returns the first n entries of season.
func (s *Service) TopN(ctx context.Context, season, n int) ([]types.Entry, error) {
	if n < 1 {
		return nil, repository.ErrInvalidLimit
	}
	if _, err := s.Standings(ctx, season); err != nil {
		return nil, err
	}
	rows, err := s.store.TopN(ctx, season, n)
	if errors.Is(err, repository.ErrNoSnapshot) {
		return []types.Entry{}, nil
	}
	if err != nil {
		return nil, err
	}
	return types.Entries(rows), nil
}

// Rank returns the entry of one driver in season.
// Returns repository.ErrNotFound if the driver has no standing.
func (s *Service) Rank(ctx context.Context, season, driverNumber int) (types.Entry, error) {
	if _, err := s.Standings(ctx, season); err != nil {
		return types.Entry{}, err
	}
	row, err := s.store.Rank(ctx, season, driverNumber)
	if errors.Is(err, repository.ErrNoSnapshot) {
		return types.Entry{}, repository.ErrNotFound
	}
	if err != nil {
		return types.Entry{}, err
	}
	return types.NewEntry(row), nil
}

// Refresh asks the workers to recompute season. A season already pending counts as queued.
// Returns false when the service is not started or the queue is full.
func (s *Service) Refresh(ctx context.Context, season int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return false
	}
	return s.enqueue(ctx, season)
}

// enqueue assumes the service is started.
func (s *Service) enqueue(ctx context.Context, season int) bool {
	if s.pending.SeenAndRecord(ctx, season) {
		return true
	}
	ok := s.refreshQ.Enqueue(ctx, model.RefreshJob{Season: season, RequestedAt: time.Now().UnixMilli()})
	if !ok {
		s.pending.Unrecord(ctx, season)
	}
	return ok
}

// Drivers returns the roster of the latest session of season, any session type,
// ordered by car number.
func (s *Service) Drivers(ctx context.Context, season int) []model.Driver {
	all := s.resolver.Resolve(ctx, season, "")
	ref, _ := sessions.Latest(all)
	drivers := s.builder.Build(ctx, ref)
	sort.SliceStable(drivers, func(i, j int) bool {
		return drivers[i].Number < drivers[j].Number
	})
	return drivers
}

// Circuits returns one meeting per circuit of season, by start date.
func (s *Service) Circuits(ctx context.Context, season int) []model.Meeting {
	return s.lister.List(ctx, season)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	seasons := s.store.Seasons(ctx)
	stats := map[string]interface{}{
		"started":          s.started,
		"workerCount":      s.workerCount,
		"queueSize":        s.queueSize,
		"sessionType":      s.sessionType,
		"cachedSeasons":    seasons,
		"pendingRefreshes": s.pending.Size(),
	}
	metrics.UpdateCachedSeasons(len(seasons))

	if s.started {
		queueLen := s.refreshQ.Len(ctx)
		stats["queueLength"] = queueLen
		metrics.UpdateQueueSize(queueLen)
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	metrics.UpdateSystemMemoryUsage(mem.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	return stats
}
