package commands

import (
	"fmt"

	"eitsapi/internal/export"
	"eitsapi/internal/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	portalDiffFrom   *int
	portalDiffTo     *int
	portalDiffOutput *string
)

func init() {
	portalDiffFrom = portalDiffCmd.Flags().Int("from", 2022, "The older edition.")
	portalDiffTo = portalDiffCmd.Flags().Int("to", 2023, "The newer edition.")
	portalDiffOutput = portalDiffCmd.Flags().StringP("output", "o", "", "The file to write, defaults to portal_diff_<from>_<to>.json.")
	rootCmd.AddCommand(portalDiffCmd)
}

var portalDiffCmd = &cobra.Command{
	Use:   "portal-diff --from <year> --to <year> [--output <file>]",
	Short: "Exports the portal's own list of measures changed between two editions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		output := *portalDiffOutput
		if output == "" {
			output = fmt.Sprintf("portal_diff_%d_%d.json", *portalDiffFrom, *portalDiffTo)
		}

		agg, err := newAggregator(cfg)
		if err != nil {
			return err
		}
		result, err := agg.PortalDiff(cmd.Context(), *portalDiffFrom, *portalDiffTo)
		if err != nil {
			return err
		}
		err = export.SaveJSON(output, result, telemetry.SlogAPI{})
		if err != nil {
			return err
		}

		t := newTable()
		t.AppendHeader(table.Row{"Added", "Replaced", "Removed"})
		t.AppendRow(table.Row{len(result.Added), len(result.Replaced), len(result.Removed)})
		t.Render()
		return nil
	},
}
