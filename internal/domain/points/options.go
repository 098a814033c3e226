package points

import "github.com/okian/paddock/pkg/logger"

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithPointsTable replaces the default points scale.
func WithPointsTable(t PointsTable) Option {
	return func(a *Aggregator) {
		if t.Len() > 0 {
			a.table = t
		}
	}
}

// WithFetchConcurrency bounds parallel position fetches.
// Values below 2 keep the fetches sequential.
func WithFetchConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n < 1 {
			n = 1
		}
		a.concurrency = n
	}
}

// WithLogger sets the logger used for degraded fetches.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.log = l
		}
	}
}
