// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New() returns a Config populated with defaults.
//   - Load layers a YAML file and PADDOCK_* env vars on top of the defaults.
//   - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// APIBaseURL is the OpenF1 REST root.
	APIBaseURL string `koanf:"api_base_url"`

	// Season is the default championship year for pages and CLI commands.
	Season int `koanf:"season"`

	// SessionType filters the sessions that score points.
	SessionType string `koanf:"session_type"`

	// HTTPTimeoutMS bounds each upstream request.
	HTTPTimeoutMS int `koanf:"http_timeout_ms"`

	// CacheTTLSeconds is how long upstream responses are reused.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// SnapshotTTLSeconds is how long computed standings are served before recompute.
	SnapshotTTLSeconds int `koanf:"snapshot_ttl_seconds"`

	// RefreshIntervalSeconds schedules background recomputes of RefreshSeasons. 0 disables it.
	RefreshIntervalSeconds int `koanf:"refresh_interval_seconds"`

	// RefreshSeasons lists seasons kept warm by the background refresher.
	RefreshSeasons []int `koanf:"refresh_seasons"`

	// WorkerCount sets the number of refresh workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the refresh queue.
	QueueSize int `koanf:"queue_size"`

	// FetchConcurrency bounds parallel position fetches. 1 keeps the fetches sequential.
	FetchConcurrency int `koanf:"fetch_concurrency"`

	// MaxStandingsLimit caps GET /api/standings?limit.
	MaxStandingsLimit int `koanf:"max_standings_limit"`

	// PointsTable holds the points for positions 1..N.
	PointsTable []int `koanf:"points_table"`

	// HeadshotFallbacks maps a driver's full name to an image URL.
	HeadshotFallbacks map[string]string `koanf:"headshot_fallbacks"`

	// NumberFallbacks maps a car number to an image URL.
	NumberFallbacks map[string]string `koanf:"number_fallbacks"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":9080",
		APIBaseURL:             "https://api.openf1.org/v1",
		Season:                 2025,
		SessionType:            "Race",
		HTTPTimeoutMS:          10_000,
		CacheTTLSeconds:        3600,
		SnapshotTTLSeconds:     3600,
		RefreshIntervalSeconds: 0,
		RefreshSeasons:         nil,
		WorkerCount:            runtime.NumCPU(),
		QueueSize:              64,
		FetchConcurrency:       1,
		MaxStandingsLimit:      100,
		PointsTable:            []int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1},
		HeadshotFallbacks: map[string]string{
			"Franco Colapinto": "https://media.formula1.com/image/upload/f_auto,c_limit,w_960,q_auto/content/dam/fom-website/drivers/2024Drivers/colapinto",
		},
		NumberFallbacks: map[string]string{},
	}
}

// HTTPTimeout returns HTTPTimeoutMS as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMS) * time.Millisecond
}

// CacheTTL returns CacheTTLSeconds as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// SnapshotTTL returns SnapshotTTLSeconds as a duration.
func (c *Config) SnapshotTTL() time.Duration {
	return time.Duration(c.SnapshotTTLSeconds) * time.Second
}

// RefreshInterval returns RefreshIntervalSeconds as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// HeadshotsByNumber returns NumberFallbacks keyed by car number.
// Keys that are not integers are skipped; Validate reports them.
func (c *Config) HeadshotsByNumber() map[int]string {
	out := make(map[int]string, len(c.NumberFallbacks))
	for k, url := range c.NumberFallbacks {
		n, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			continue
		}
		out[n] = url
	}
	return out
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.APIBaseURL) == "":
		return fmt.Errorf("%w: api_base_url must not be empty", ErrInvalidConfig)
	case c.Season <= 0:
		return fmt.Errorf("%w: season must be positive, got %d", ErrInvalidConfig, c.Season)
	case len(c.PointsTable) == 0:
		return fmt.Errorf("%w: points_table must not be empty", ErrInvalidConfig)
	case c.HTTPTimeoutMS <= 0:
		return fmt.Errorf("%w: http_timeout_ms must be positive", ErrInvalidConfig)
	case c.MaxStandingsLimit < 1:
		return fmt.Errorf("%w: max_standings_limit must be positive, got %d", ErrInvalidConfig, c.MaxStandingsLimit)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	case c.FetchConcurrency < 1:
		return fmt.Errorf("%w: fetch_concurrency must be positive, got %d", ErrInvalidConfig, c.FetchConcurrency)
	}
	for i, p := range c.PointsTable {
		if p < 0 {
			return fmt.Errorf("%w: points_table[%d] is negative", ErrInvalidConfig, i)
		}
	}
	for k := range c.NumberFallbacks {
		if _, err := strconv.Atoi(strings.TrimSpace(k)); err != nil {
			return fmt.Errorf("%w: number_fallbacks key %q is not a car number", ErrInvalidConfig, k)
		}
	}
	for _, s := range c.RefreshSeasons {
		if s <= 0 {
			return fmt.Errorf("%w: refresh_seasons contains %d", ErrInvalidConfig, s)
		}
	}
	return nil
}
