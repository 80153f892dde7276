package commands

import (
	"eitsapi/internal/export"
	"eitsapi/internal/telemetry"

	"github.com/spf13/cobra"
)

var (
	modulesYear   *int
	modulesHtml   *bool
	modulesOutput *string
	modulesCsv    *bool
)

func init() {
	modulesYear = modulesCmd.Flags().Int("year", 0, "The framework edition, defaults to the configured version.")
	modulesHtml = modulesCmd.Flags().Bool("html", false, "Keep HTML markup in descriptions.")
	modulesOutput = modulesCmd.Flags().StringP("output", "o", "", "The file to write, defaults to the configured output.")
	modulesCsv = modulesCmd.Flags().Bool("csv", false, "Write one CSV row per measure instead of JSON.")
	rootCmd.AddCommand(modulesCmd)
}

var modulesCmd = &cobra.Command{
	Use:   "modules [--year <year>] [--html] [--output <file>] [--csv]",
	Short: "Exports every module and measure of an edition with their risks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("year") {
			cfg.Version = *modulesYear
		}
		if cmd.Flags().Changed("html") {
			cfg.Html = *modulesHtml
		}
		if cmd.Flags().Changed("output") {
			cfg.Output = *modulesOutput
		}

		agg, err := newAggregator(cfg, cfg.Version)
		if err != nil {
			return err
		}
		snapshot, err := agg.Modules(cmd.Context(), cfg.Version)
		if err != nil {
			return err
		}

		if *modulesCsv {
			return export.SaveCSV(cfg.Output, snapshot, telemetry.SlogAPI{})
		}
		return export.SaveJSON(cfg.Output, snapshot.Modules, telemetry.SlogAPI{})
	},
}
