package enrich

import (
	"testing"

	"eitsapi/internal/eits"
	"eitsapi/internal/risktable"
	"eitsapi/internal/telemetry"

	"github.com/stretchr/testify/require"
)

func newTable(t testing.TB) risktable.Table {
	table, err := risktable.New([]risktable.Entry{
		{Year: 2022, Module: "ISMS", Measure: "M1", Risks: []string{"R.1"}},
		{Year: 2023, Module: "ISMS", Measure: "M1", Risks: []string{"R.1", "R.2"}},
		{Year: 2023, Module: "ORP", Measure: "M5", Risks: []string{"R.5"}},
	})
	require.NoError(t, err)
	return table
}

func modules() []eits.Module {
	return []eits.Module{
		{
			Code: "ISMS",
			Measures: []eits.Measure{
				{Code: "M1", ModuleCode: "ISMS", RiskCodes: []string{}},
				{Code: "M2", ModuleCode: "ISMS", RiskCodes: []string{}},
			},
		},
		{
			Code: "ORP",
			Measures: []eits.Measure{
				{Code: "M5", ModuleCode: "ORP", RiskCodes: []string{"stale"}},
			},
		},
		{Code: "CON", Measures: []eits.Measure{}},
	}
}

func TestEnrichScenario(t *testing.T) {
	e := New(newTable(t), &telemetry.Recorder{})

	enriched := e.Enrich(modules(), 2022)
	require.Equal(t, []string{"R.1"}, enriched[0].Measures[0].RiskCodes)
	require.NotNil(t, enriched[0].Measures[1].RiskCodes)
	require.Empty(t, enriched[0].Measures[1].RiskCodes)
	// stale codes are replaced, not merged
	require.Empty(t, enriched[1].Measures[0].RiskCodes)
	require.Empty(t, enriched[2].Measures)
}

func TestEnrichIdempotent(t *testing.T) {
	e := New(newTable(t), &telemetry.Recorder{})

	for _, year := range []int{2022, 2023, 2024} {
		once := e.Enrich(modules(), year)
		twice := e.Enrich(once, year)
		require.Equal(t, once, twice, year)
	}
}

func TestEnrichDoesNotMutateInput(t *testing.T) {
	e := New(newTable(t), &telemetry.Recorder{})

	input := modules()
	_ = e.Enrich(input, 2023)
	require.Equal(t, modules(), input)
}

func TestEnrichedCodesAreNotShared(t *testing.T) {
	table := newTable(t)
	e := New(table, &telemetry.Recorder{})

	enriched := e.Enrich(modules(), 2023)
	enriched[0].Measures[0].RiskCodes[0] = "mutated"

	require.Equal(t, []string{"R.1", "R.2"}, table.Lookup(2023, "ISMS", "M1"))
	again := e.Enrich(modules(), 2023)
	require.Equal(t, []string{"R.1", "R.2"}, again[0].Measures[0].RiskCodes)
}

func TestEnrichUnknownYearWarns(t *testing.T) {
	rec := &telemetry.Recorder{}
	e := New(newTable(t), rec)

	e.Enrich(modules(), 2030)
	require.Len(t, rec.Find("warning", report_enricher_enrich), 1)
	require.Equal(t, []any{int64(3)}, rec.Find("count", "measures-without-risks")[0].Params)
}
