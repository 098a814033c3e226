package main

import (
	"context"
	"fmt"
	"os"

	"github.com/okian/paddock/internal/adapters/openf1"
	app "github.com/okian/paddock/internal/app"
	"github.com/okian/paddock/internal/config"
	"github.com/okian/paddock/internal/domain/points"
	"github.com/okian/paddock/internal/domain/roster"
	"github.com/okian/paddock/pkg/logger"
	"github.com/spf13/cobra"
)

// env is the state shared by every subcommand once configuration is loaded.
type env struct {
	cfg *config.Config
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:          "paddock",
		Short:        "Formula 1 driver standings computed from OpenF1",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd.Context())
		},
	}
	root.AddCommand(
		newServeCmd(e),
		newStandingsCmd(e),
		newDriversCmd(e),
		newCircuitsCmd(e),
	)
	return root
}

// setup loads configuration (defaults -> optional file -> env) and initializes logging.
// Logs go to stderr so tables printed on stdout stay clean.
func (e *env) setup(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.InitWithOptions(logger.WithFormat(cfg.LogFormat), logger.WithOutput(os.Stderr)); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	e.cfg, e.log = cfg, log
	return nil
}

// season returns flag when set, the configured season otherwise.
func (e *env) season(flag int) int {
	if flag > 0 {
		return flag
	}
	return e.cfg.Season
}

// newService builds the standings service from configuration.
func (e *env) newService() *app.Service {
	cfg := e.cfg
	client := openf1.New(cfg.APIBaseURL,
		openf1.WithTimeout(cfg.HTTPTimeout()),
		openf1.WithCacheTTL(cfg.CacheTTL()),
		openf1.WithLogger(e.log.Named("openf1")),
	)
	return app.New(
		app.WithLogger(e.log),
		app.WithUpstream(client),
		app.WithSessionType(cfg.SessionType),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithSnapshotTTL(cfg.SnapshotTTL()),
		app.WithRefresh(cfg.RefreshInterval(), cfg.RefreshSeasons...),
		app.WithFetchConcurrency(cfg.FetchConcurrency),
		app.WithPointsTable(points.NewPointsTable(cfg.PointsTable...)),
		app.WithFallbacks(roster.NewFallbacks(cfg.HeadshotFallbacks, cfg.HeadshotsByNumber())),
	)
}
