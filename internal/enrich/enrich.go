package enrich

import (
	"eitsapi/internal/eits"
	"eitsapi/internal/risktable"
	"eitsapi/internal/telemetry"
)

const (
	report_enricher_enrich = "enricher.enrich"
)

// Enricher attaches risk codes from a risk table to measures.
type Enricher struct {
	table risktable.Table
	tel   telemetry.API
}

func New(table risktable.Table, tel telemetry.API) Enricher {
	return Enricher{
		table: table,
		tel:   telemetry.NewScopedAPI("enricher", tel),
	}
}

// Enrich returns a copy of modules where every measure carries the risk codes
// the table holds for it (an empty slice when there are none). The input is
// left untouched and calling Enrich again on the result changes nothing.
func (e Enricher) Enrich(modules []eits.Module, year int) []eits.Module {
	if !e.table.Has(year) {
		e.tel.ReportWarning(report_enricher_enrich, "risk table has no entries for year", year)
	}

	out := make([]eits.Module, len(modules))
	misses := int64(0)
	for i, module := range modules {
		measures := make([]eits.Measure, len(module.Measures))
		for j, measure := range module.Measures {
			measure.RiskCodes = e.table.Lookup(year, module.Code, measure.Code)
			if len(measure.RiskCodes) == 0 {
				misses++
				e.tel.ReportDebug("no risks in risk table", module.Code, measure.Code)
			}
			measures[j] = measure
		}
		module.Measures = measures
		out[i] = module
	}

	e.tel.ReportCount("measures-without-risks", misses)
	return out
}
