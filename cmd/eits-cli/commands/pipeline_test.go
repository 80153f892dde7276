package commands

import (
	"testing"

	"eitsapi/internal/risktable"
	"eitsapi/internal/telemetry"

	"github.com/stretchr/testify/require"
)

func TestCheckRiskTable(t *testing.T) {
	table, err := risktable.New([]risktable.Entry{
		{Year: 2022, Module: "ISMS.1", Measure: "ISMS.1.M1", Risks: []string{"G 0.18"}},
		{Year: 2023, Module: "ISMS.1", Measure: "ISMS.1.M1", Risks: []string{"G 0.18"}},
		{Year: 2023, Module: "ISMS.1", Measure: "ISMS.1.M2", Risks: []string{"G 0.27"}},
	})
	require.NoError(t, err)

	rec := &telemetry.Recorder{}
	checkRiskTable(table, rec, 2023, 2019)

	warnings := rec.Find("warning", "cli.risk-table")
	require.Len(t, warnings, 1)
	require.Equal(t, []any{"no risk table entries for edition", 2019, "available", []int{2022, 2023}}, warnings[0].Params)

	debug := rec.Find("debug", "risk table loaded")
	require.Len(t, debug, 1)
	require.Equal(t, []any{2023, 2}, debug[0].Params)
}
