package commands

import (
	"log/slog"
	"time"

	"eitsapi/internal/export"
	"eitsapi/internal/telemetry"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Exports modules and measures, then the risk catalogue, using the configured outputs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		agg, err := newAggregator(cfg, cfg.Version)
		if err != nil {
			return err
		}

		snapshot, err := agg.Modules(cmd.Context(), cfg.Version)
		if err != nil {
			return err
		}
		err = export.SaveJSON(cfg.Output, snapshot.Modules, telemetry.SlogAPI{})
		if err != nil {
			return err
		}

		risks, err := agg.Risks(cmd.Context())
		if err != nil {
			return err
		}
		err = export.SaveJSON(cfg.RisksOutput, risks, telemetry.SlogAPI{})
		if err != nil {
			return err
		}

		slog.Info("total time", "seconds", time.Since(start).Seconds())
		return nil
	},
}
