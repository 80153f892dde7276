package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"eitsapi/internal/eits"
	"eitsapi/internal/textutil"

	"github.com/PuerkitoBio/goquery"
)

// RiskCatalogTitle is the title of the materials entry holding the basic risk catalogue.
const RiskCatalogTitle = "Alusohtude kataloog"

// ParseRisks extracts the basic risk catalogue from the materials page. Each
// risk starts at an h2 heading of the form "<code>\t<title>" and its
// description is every sibling up to the next h2.
func (p Parser) ParseRisks(raw []byte) ([]eits.Risk, error) {
	var materials []apiMaterial
	err := json.Unmarshal(raw, &materials)
	if err != nil {
		p.tel.ReportBroken(report_parser_parse_risks, err)
		return nil, &eits.ParseError{Source: "materials", Err: err}
	}
	if len(materials) == 0 {
		return nil, &eits.ParseError{Source: "materials", Err: errors.New("no materials")}
	}

	content := ""
	found := false
	for _, item := range materials[0].ChildObjects {
		if strings.TrimSpace(item.Title) == RiskCatalogTitle {
			content = item.Content
			found = true
			break
		}
	}
	if !found {
		err := fmt.Errorf("%q not found", RiskCatalogTitle)
		p.tel.ReportBroken(report_parser_parse_risks, err)
		return nil, &eits.ParseError{Source: "materials", Err: err}
	}

	return p.parseRiskCatalog(content)
}

func (p Parser) parseRiskCatalog(content string) ([]eits.Risk, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBufferString(content))
	if err != nil {
		p.tel.ReportBroken(report_parser_parse_risks, fmt.Errorf("parse html: %w", err))
		return nil, &eits.ParseError{Source: "risk catalogue", Err: err}
	}

	risks := []eits.Risk{}
	seen := map[string]bool{}
	var parseErr error
	doc.Find("h2").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		text := strings.TrimSpace(heading.Text())
		if text == "" {
			p.tel.ReportWarning(report_parser_parse_risks, "heading without risk code", text)
			return true
		}
		code, title, found := strings.Cut(text, "\t")
		if !found {
			// no tab, fall back to "<code> <title>" where the code is the first two words ("G 0.1")
			p.tel.ReportWarning(report_parser_parse_risks, "heading without tab", text)
			fields := strings.Fields(text)
			if len(fields) < 2 {
				code, title = text, ""
			} else {
				code = strings.Join(fields[:2], " ")
				title = strings.Join(fields[2:], " ")
			}
		}
		code = strings.TrimSpace(code)
		if code == "" {
			p.tel.ReportWarning(report_parser_parse_risks, "heading without risk code", text)
			return true
		}
		if seen[code] {
			parseErr = &eits.ParseError{
				Source: "risk catalogue",
				Err:    fmt.Errorf("risk code %s appears more than once", code),
			}
			return false
		}
		seen[code] = true
		title = textutil.CollapseWhitespace(textutil.CutAtTab(strings.TrimSpace(title)))

		var description strings.Builder
		heading.NextUntil("h2").Each(func(_ int, s *goquery.Selection) {
			html, err := goquery.OuterHtml(s)
			if err != nil {
				p.tel.ReportWarning(report_parser_parse_risks, fmt.Errorf("serialize description: %w", err), code)
				return
			}
			description.WriteString(strings.ReplaceAll(html, "\n", ""))
		})

		risks = append(risks, eits.Risk{
			Code:          code,
			Title:         title,
			CombinedTitle: fmt.Sprintf("%s: %s", code, title),
			Description:   p.text(description.String()),
		})
		return true
	})
	if parseErr != nil {
		p.tel.ReportBroken(report_parser_parse_risks, parseErr)
		return nil, parseErr
	}

	return risks, nil
}
