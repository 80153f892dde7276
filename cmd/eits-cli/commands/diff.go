package commands

import (
	"fmt"

	"eitsapi/internal/diff"
	"eitsapi/internal/eits"
	"eitsapi/internal/export"
	"eitsapi/internal/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	diffFrom   *int
	diffTo     *int
	diffOutput *string
	diffHints  *float64
)

func init() {
	diffFrom = diffCmd.Flags().Int("from", 2022, "The older edition.")
	diffTo = diffCmd.Flags().Int("to", 2023, "The newer edition.")
	diffOutput = diffCmd.Flags().StringP("output", "o", "", "The file to write the records to, defaults to diff_<from>_<to>.json.")
	diffHints = diffCmd.Flags().Float64("hints", 0.9, "Title similarity above which a removed and an added measure are listed as a possible renumbering, 0 turns hints off.")
	rootCmd.AddCommand(diffCmd)
}

func printSummary(summary diff.Summary) {
	t := newTable()
	t.AppendHeader(table.Row{"", eits.DIFF_ADDED, eits.DIFF_REMOVED, eits.DIFF_MODIFIED})
	for _, entity := range []eits.EntityKind{eits.ENTITY_MODULE, eits.ENTITY_MEASURE} {
		counts := summary[entity]
		t.AppendRow(table.Row{entity, counts[eits.DIFF_ADDED], counts[eits.DIFF_REMOVED], counts[eits.DIFF_MODIFIED]})
	}
	t.Render()
}

func printHints(hints []diff.RenameHint) {
	t := newTable()
	t.AppendHeader(table.Row{"Module", "Removed", "Added", "Similarity"})
	for _, h := range hints {
		t.AppendRow(table.Row{h.ModuleCode, h.Removed, h.Added, fmt.Sprintf("%.2f", h.Similarity)})
	}
	t.Render()
}

var diffCmd = &cobra.Command{
	Use:   "diff --from <year> --to <year> [--output <file>] [--hints <threshold>]",
	Short: "Compares two editions module by module and measure by measure.",
	RunE: func(cmd *cobra.Command, args []string) error {
		output := *diffOutput
		if output == "" {
			output = fmt.Sprintf("diff_%d_%d.json", *diffFrom, *diffTo)
		}

		agg, err := newAggregator(cfg, *diffFrom, *diffTo)
		if err != nil {
			return err
		}
		records, err := diff.All(cmd.Context(), agg, *diffFrom, *diffTo)
		if err != nil {
			return err
		}
		err = export.SaveJSON(output, records, telemetry.SlogAPI{})
		if err != nil {
			return err
		}

		printSummary(diff.Summarize(records))
		if *diffHints > 0 {
			hints := diff.RenameHints(records, *diffHints)
			if len(hints) > 0 {
				printHints(hints)
			}
		}
		return nil
	},
}
