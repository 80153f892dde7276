package commands

import (
	"os"
	"time"

	"eitsapi/internal/aggregator"
	"eitsapi/internal/enrich"
	"eitsapi/internal/parser"
	"eitsapi/internal/risktable"
	"eitsapi/internal/scraper"
	"eitsapi/internal/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
)

func loadRiskTable(path string) (risktable.Table, error) {
	if path == "" {
		return risktable.Bundled()
	}
	return risktable.Load(path)
}

// checkRiskTable warns about editions the risk table has no entries for,
// their measures would be exported without risks.
func checkRiskTable(table risktable.Table, api telemetry.API, years ...int) {
	for _, year := range years {
		if !table.Has(year) {
			api.ReportWarning("cli.risk-table", "no risk table entries for edition", year, "available", table.Years())
			continue
		}
		api.ReportDebug("risk table loaded", year, table.Len(year))
	}
}

// newAggregator wires the pipeline for the given editions.
func newAggregator(cfg Config, years ...int) (aggregator.Aggregator, error) {
	api := telemetry.SlogAPI{}

	riskTable, err := loadRiskTable(cfg.RiskTable)
	if err != nil {
		return aggregator.Aggregator{}, err
	}
	checkRiskTable(riskTable, api, years...)

	client := scraper.NewClient(scraper.ClientOptions{
		Timeout:            time.Duration(cfg.TimeoutSeconds) * time.Second,
		InsecureSkipVerify: !cfg.verifyTls(),
		UserAgent:          cfg.UserAgent,
		CloudflareBypass:   cfg.CloudflareBypass,
	}, api)

	return aggregator.New(
		client,
		scraper.NewEndpoints(cfg.Url),
		parser.New(parser.FormatFromHTMLFlag(cfg.Html), api),
		enrich.New(riskTable, api),
		api,
	), nil
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
