package main

import (
	"fmt"

	"github.com/okian/paddock/internal/adapters/cli"
	"github.com/okian/paddock/internal/domain/types"
	"github.com/spf13/cobra"
)

const seasonUsage = "championship year (defaults to the configured season)"

func newStandingsCmd(e *env) *cobra.Command {
	var season, limit int
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Print the driver standings of a season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := e.newService()
			defer svc.Stop()

			year := e.season(season)
			n := e.cfg.MaxStandingsLimit
			if limit > 0 {
				n = min(limit, n)
			}
			entries, err := svc.TopN(cmd.Context(), year, n)
			if err != nil {
				return fmt.Errorf("standings %d: %w", year, err)
			}
			cli.RenderStandings(cmd.OutOrStdout(), year, entries)
			return nil
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, seasonUsage)
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows")
	return cmd
}

func newDriversCmd(e *env) *cobra.Command {
	var season int
	cmd := &cobra.Command{
		Use:   "drivers",
		Short: "Print the roster of the latest session of a season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := e.newService()
			defer svc.Stop()

			year := e.season(season)
			cli.RenderDrivers(cmd.OutOrStdout(), year, types.Drivers(svc.Drivers(cmd.Context(), year)))
			return nil
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, seasonUsage)
	return cmd
}

func newCircuitsCmd(e *env) *cobra.Command {
	var season int
	cmd := &cobra.Command{
		Use:   "circuits",
		Short: "Print the circuits of a season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := e.newService()
			defer svc.Stop()

			year := e.season(season)
			cli.RenderCircuits(cmd.OutOrStdout(), year, types.Circuits(svc.Circuits(cmd.Context(), year)))
			return nil
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, seasonUsage)
	return cmd
}
