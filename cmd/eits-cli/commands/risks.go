package commands

import (
	"eitsapi/internal/export"
	"eitsapi/internal/telemetry"

	"github.com/spf13/cobra"
)

var risksOutput *string

func init() {
	risksOutput = risksCmd.Flags().StringP("output", "o", "", "The file to write, defaults to the configured risks output.")
	rootCmd.AddCommand(risksCmd)
}

var risksCmd = &cobra.Command{
	Use:   "risks [--output <file>]",
	Short: "Exports the basic risk catalogue.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("output") {
			cfg.RisksOutput = *risksOutput
		}

		agg, err := newAggregator(cfg)
		if err != nil {
			return err
		}
		risks, err := agg.Risks(cmd.Context())
		if err != nil {
			return err
		}
		return export.SaveJSON(cfg.RisksOutput, risks, telemetry.SlogAPI{})
	},
}
