package service

import (
	"time"

	"github.com/okian/paddock/internal/domain/points"
	"github.com/okian/paddock/internal/domain/roster"
	"github.com/okian/paddock/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithUpstream sets the OpenF1 data source.
func WithUpstream(u Upstream) Option {
	return func(s *Service) {
		if u != nil {
			s.upstream = u
		}
	}
}

// WithSessionType sets the session name that scores points, e.g. "Race".
func WithSessionType(t string) Option {
	return func(s *Service) {
		s.sessionType = t
	}
}

// WithWorkerCount sets the number of refresh workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending refresh jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithSnapshotTTL sets how long computed standings are served.
func WithSnapshotTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.snapshotTTL = ttl
		}
	}
}

// WithRefresh keeps seasons warm by enqueuing them every interval once started.
func WithRefresh(interval time.Duration, seasons ...int) Option {
	return func(s *Service) {
		s.refreshInterval = interval
		s.refreshSeasons = append([]int(nil), seasons...)
	}
}

// WithFetchConcurrency bounds parallel position fetches per computation.
func WithFetchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fetchConcurrency = n
		}
	}
}

// WithPointsTable replaces the default points scale.
func WithPointsTable(t points.PointsTable) Option {
	return func(s *Service) {
		if t.Len() > 0 {
			s.table = t
		}
	}
}

// WithFallbacks sets the headshot fallbacks used for rosters.
func WithFallbacks(f roster.Fallbacks) Option {
	return func(s *Service) {
		s.fallbacks = f
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
