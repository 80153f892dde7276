package aggregator

import (
	"context"
	"fmt"
	"strings"

	"eitsapi/internal/assert"
	"eitsapi/internal/eits"
	"eitsapi/internal/enrich"
	"eitsapi/internal/export"
	"eitsapi/internal/parser"
	"eitsapi/internal/scraper"
	"eitsapi/internal/telemetry"
)

const (
	report_aggregator_modules     = "aggregator.modules"
	report_aggregator_risks       = "aggregator.risks"
	report_aggregator_portal_diff = "aggregator.portal-diff"
)

// Categories are the top-level module groups of the framework in the order
// they appear in every export.
var Categories = []string{
	"ISMS",
	"ORP",
	"CON",
	"OPS",
	"DER",
	"APP",
	"SYS",
	"IND",
	"NET",
	"INF",
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Aggregator struct {
	fetcher    Fetcher
	endpoints  scraper.Endpoints
	parser     parser.Parser
	enricher   enrich.Enricher
	categories []string
	tel        telemetry.API
}

func New(
	fetcher Fetcher,
	endpoints scraper.Endpoints,
	parser parser.Parser,
	enricher enrich.Enricher,
	tel telemetry.API,
) Aggregator {
	assert.NotNil(fetcher)
	assert.NotNil(tel)
	assert.NotEmptyStr(endpoints.BaseUrl)

	return Aggregator{
		fetcher:    fetcher,
		endpoints:  endpoints,
		parser:     parser,
		enricher:   enricher,
		categories: Categories,
		tel:        telemetry.NewScopedAPI("aggregator", tel),
	}
}

// WithCategories returns a copy of the aggregator that walks the given
// categories instead of the full list.
func (a Aggregator) WithCategories(categories []string) Aggregator {
	a.categories = append([]string(nil), categories...)
	return a
}

func (a Aggregator) module(ctx context.Context, year int, category string, ref parser.ModuleRef) (eits.Module, error) {
	raw, err := a.fetcher.Fetch(ctx, a.endpoints.Module(year, ref.ID))
	if err != nil {
		return eits.Module{}, err
	}
	return a.parser.ParseModule(raw, category)
}

func (a Aggregator) reportSkippedCategories(catalog parser.Catalog, year int) {
	walked := map[string]bool{}
	for _, c := range a.categories {
		walked[strings.ToUpper(c)] = true
	}
	for _, code := range catalog.CategoryCodes() {
		if !walked[strings.ToUpper(code)] {
			a.tel.ReportWarning(report_aggregator_modules, "catalog category is not exported", code, year)
		}
	}
}

// Modules builds the snapshot of a framework year. Modules are ordered by
// category and then by their position on the catalog page, every measure
// carries its risk codes. The first fetch or parse error aborts the walk
// and nothing is returned, a module code listed twice is a parse error.
func (a Aggregator) Modules(ctx context.Context, year int) (eits.Snapshot, error) {
	a.tel.ReportDebug("building snapshot", year, a.parser.Format())

	raw, err := a.fetcher.Fetch(ctx, a.endpoints.Catalog(year))
	if err != nil {
		a.tel.ReportBroken(report_aggregator_modules, err, year)
		return eits.Snapshot{}, err
	}
	catalog, err := parser.ParseCatalog(raw)
	if err != nil {
		a.tel.ReportBroken(report_aggregator_modules, err, year)
		return eits.Snapshot{}, err
	}
	a.reportSkippedCategories(catalog, year)

	modules := []eits.Module{}
	seen := map[string]string{}
	for _, category := range a.categories {
		refs, err := catalog.Category(category)
		if err != nil {
			a.tel.ReportBroken(report_aggregator_modules, err, year)
			return eits.Snapshot{}, err
		}
		a.tel.ReportInfo("requesting modules", "category", category, "year", year, "modules", len(refs))

		for _, ref := range refs {
			module, err := a.module(ctx, year, category, ref)
			if err != nil {
				err = fmt.Errorf("category %s: %w", category, err)
				a.tel.ReportBroken(report_aggregator_modules, err, year, ref.Code)
				return eits.Snapshot{}, err
			}
			if first, ok := seen[module.Code]; ok {
				err := &eits.ParseError{
					Source: fmt.Sprintf("module %s", module.Code),
					Err:    fmt.Errorf("listed under %s and again under %s", first, category),
				}
				a.tel.ReportBroken(report_aggregator_modules, err, year)
				return eits.Snapshot{}, err
			}
			seen[module.Code] = category
			modules = append(modules, module)
		}
	}

	snapshot := eits.Snapshot{
		Year:      year,
		Version:   catalog.Version,
		ValidFrom: catalog.ValidFrom,
		ValidTo:   catalog.ValidTo,
		Modules:   a.enricher.Enrich(modules, year),
	}
	a.tel.ReportCount("modules", int64(len(snapshot.Modules)))
	a.tel.ReportCount("measures", int64(snapshot.MeasureCount()))
	return snapshot, nil
}

// ModulesJSON is Modules serialized the way it is written to disk, a list
// of modules.
func (a Aggregator) ModulesJSON(ctx context.Context, year int) ([]byte, error) {
	snapshot, err := a.Modules(ctx, year)
	if err != nil {
		return nil, err
	}
	return export.MarshalJSON(snapshot.Modules)
}

// Risks fetches the basic risk catalogue.
func (a Aggregator) Risks(ctx context.Context) ([]eits.Risk, error) {
	a.tel.ReportInfo("requesting risks")

	raw, err := a.fetcher.Fetch(ctx, a.endpoints.Materials())
	if err != nil {
		a.tel.ReportBroken(report_aggregator_risks, err)
		return nil, err
	}
	risks, err := a.parser.ParseRisks(raw)
	if err != nil {
		a.tel.ReportBroken(report_aggregator_risks, err)
		return nil, err
	}
	a.tel.ReportCount("risks", int64(len(risks)))
	return risks, nil
}

func (a Aggregator) RisksJSON(ctx context.Context) ([]byte, error) {
	risks, err := a.Risks(ctx)
	if err != nil {
		return nil, err
	}
	return export.MarshalJSON(risks)
}

// PortalDiff returns the portal's own list of measures that changed between
// two editions.
func (a Aggregator) PortalDiff(ctx context.Context, oldYear, newYear int) (parser.PortalDiff, error) {
	a.tel.ReportInfo("requesting portal diff", "from", oldYear, "to", newYear)

	raw, err := a.fetcher.Fetch(ctx, a.endpoints.DiffCatalog(oldYear, newYear))
	if err != nil {
		a.tel.ReportBroken(report_aggregator_portal_diff, err, oldYear, newYear)
		return parser.PortalDiff{}, err
	}
	diff, err := a.parser.ParseDiffCatalog(raw)
	if err != nil {
		a.tel.ReportBroken(report_aggregator_portal_diff, err, oldYear, newYear)
		return parser.PortalDiff{}, err
	}
	return diff, nil
}
