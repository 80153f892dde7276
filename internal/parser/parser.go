package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"eitsapi/internal/assert"
	"eitsapi/internal/eits"
	"eitsapi/internal/htmlutil"
	"eitsapi/internal/telemetry"
	"eitsapi/internal/textutil"
)

const (
	report_parser_parse_module  = "parser.parse-module"
	report_parser_parse_risks   = "parser.parse-risks"
	report_parser_validate_code = "parser.validate-code"
)

type Format int

const (
	// FormatText strips markup from descriptions.
	FormatText Format = iota
	// FormatHTML keeps descriptions as served by the portal.
	FormatHTML
)

func (f Format) String() string {
	if f == FormatHTML {
		return "html"
	}
	return "text"
}

// FormatFromHTMLFlag maps the boolean html toggle of the configuration to a Format.
func FormatFromHTMLFlag(html bool) Format {
	if html {
		return FormatHTML
	}
	return FormatText
}

type Parser struct {
	format Format
	tel    telemetry.API
}

func New(format Format, tel telemetry.API) Parser {
	assert.NotNil(tel)
	return Parser{
		format: format,
		tel:    telemetry.NewScopedAPI("eits_parser", tel),
	}
}

func (p Parser) Format() Format {
	return p.format
}

func (p Parser) text(s string) string {
	if p.format == FormatHTML {
		return s
	}
	return htmlutil.StripTags(s)
}

// ModuleRef points at a module listed in the catalog, its content lives at
// a separate endpoint.
type ModuleRef struct {
	ID    string
	Code  string
	Title string
}

// Catalog is the parsed table of contents of one edition.
type Catalog struct {
	Version   string
	ValidFrom string
	ValidTo   string
	groups    []apiModuleGroup
}

// CategoryCodes lists the codes of the top-level module groups in page order.
func (c Catalog) CategoryCodes() []string {
	codes := make([]string, 0, len(c.groups))
	for _, g := range c.groups {
		codes = append(codes, groupCode(g))
	}
	return codes
}

func groupCode(g apiModuleGroup) string {
	if code := textutil.FixCode(g.GroupCode); code != "" {
		return code
	}
	// some editions only carry the code as the title prefix, "ISMS: Turbe haldus"
	return strings.TrimSuffix(textutil.FixCode(g.GroupTitle), ":")
}

// Category returns the module references of a top-level category in page
// order, modules of subgroups come before the group's own modules.
func (c Catalog) Category(code string) ([]ModuleRef, error) {
	for _, g := range c.groups {
		if !strings.EqualFold(groupCode(g), code) {
			continue
		}

		modules := g.modulesRecursive()
		refs := make([]ModuleRef, 0, len(modules))
		for _, m := range modules {
			if strings.TrimSpace(m.ModuleId) == "" {
				return nil, &eits.ParseError{
					Source: fmt.Sprintf("category %s", code),
					Err:    fmt.Errorf("module %q has no id", m.ModuleTitle),
				}
			}
			refs = append(refs, ModuleRef{
				ID:    m.ModuleId,
				Code:  textutil.FixCode(m.ModuleCode),
				Title: m.ModuleTitle,
			})
		}
		return refs, nil
	}

	return nil, &eits.ParseError{
		Source: fmt.Sprintf("category %s", code),
		Err:    errors.New("category not found in catalog"),
	}
}

func ParseCatalog(raw []byte) (Catalog, error) {
	var catalog apiCatalog
	err := json.Unmarshal(raw, &catalog)
	if err != nil {
		return Catalog{}, &eits.ParseError{Source: "catalog", Err: err}
	}
	if len(catalog.ModuleGroups) == 0 {
		return Catalog{}, &eits.ParseError{Source: "catalog", Err: errors.New("no module groups")}
	}
	return Catalog{
		Version:   catalog.Version,
		ValidFrom: catalog.ValidFrom,
		ValidTo:   catalog.ValidTo,
		groups:    catalog.ModuleGroups,
	}, nil
}

// ParseCategory picks one category out of a raw catalog page.
func ParseCategory(raw []byte, category string) ([]ModuleRef, error) {
	catalog, err := ParseCatalog(raw)
	if err != nil {
		return nil, err
	}
	return catalog.Category(category)
}

func (p Parser) validate(kind, value string, ok bool) {
	if !ok {
		p.tel.ReportDebug(report_parser_validate_code, kind, value)
	}
}

func (p Parser) measure(group apiMeasureGroup, m apiMeasureDetail, moduleCode string) (eits.Measure, error) {
	code := textutil.FixCode(m.MeasureCode)
	if code == "" {
		return eits.Measure{}, fmt.Errorf("measure %q has no code", m.MeasureTitle)
	}
	p.validate("measure code", code, textutil.MeasureCodePattern.MatchString(code))

	assignees := make([]string, 0, len(m.Assignees))
	for _, a := range m.Assignees {
		if a = strings.TrimSpace(a); a != "" {
			assignees = append(assignees, a)
		}
	}

	return eits.Measure{
		Code:         code,
		Title:        textutil.FixTitle(m.MeasureTitle, code, m.SecurityCodes),
		Description:  p.text(m.Body),
		ModuleCode:   moduleCode,
		Group:        textutil.GroupName(strings.TrimSpace(group.GroupCode)),
		SecurityCode: strings.Join(m.SecurityCodes, ""),
		Assignees:    assignees,
		RiskCodes:    []string{},
	}, nil
}

func (p Parser) measures(groups []apiMeasureGroup, moduleCode string) ([]eits.Measure, error) {
	measures := []eits.Measure{}
	seen := map[string]bool{}
	for _, group := range groups {
		for _, m := range group.Measures {
			measure, err := p.measure(group, m, moduleCode)
			if err != nil {
				return nil, err
			}
			if seen[measure.Code] {
				return nil, fmt.Errorf("measure code %s appears more than once", measure.Code)
			}
			seen[measure.Code] = true
			measures = append(measures, measure)
		}
	}
	return measures, nil
}

func descriptionBlock(blocks []apiElementInfo, i int) string {
	if i < len(blocks) {
		return blocks[i].Content
	}
	return ""
}

// ParseModule turns a module content page into a Module. The module code is
// required, measure groups may be missing.
func (p Parser) ParseModule(raw []byte, category string) (eits.Module, error) {
	var content apiModuleContent
	err := json.Unmarshal(raw, &content)
	if err != nil {
		p.tel.ReportBroken(report_parser_parse_module, err)
		return eits.Module{}, &eits.ParseError{Source: "module", Err: err}
	}

	code := textutil.FixCode(content.ModuleCode)
	if code == "" {
		err := fmt.Errorf("module %q has no code", content.ModuleTitle)
		p.tel.ReportBroken(report_parser_parse_module, err, content.ModuleId)
		return eits.Module{}, &eits.ParseError{Source: "module", Err: err}
	}
	p.validate("module code", code, textutil.ModuleCodePattern.MatchString(code))

	measures, err := p.measures(content.MeasureDetails, code)
	if err != nil {
		p.tel.ReportBroken(report_parser_parse_module, err, code)
		return eits.Module{}, &eits.ParseError{Source: fmt.Sprintf("module %s", code), Err: err}
	}

	threats := make([]eits.ElementInfo, 0, len(content.Risks))
	for _, r := range content.Risks {
		threats = append(threats, eits.ElementInfo{
			Title:   r.Title,
			Content: p.text(r.Content),
		})
	}

	title := textutil.FixTitle(content.ModuleTitle, code, nil)
	p.validate("module title", title, textutil.ModuleTitlePattern.MatchString(title))

	return eits.Module{
		Code:           code,
		Name:           title,
		Description:    p.text(descriptionBlock(content.Description, 0)),
		Category:       category,
		Responsibility: p.text(descriptionBlock(content.Description, 1)),
		Limits:         p.text(descriptionBlock(content.Description, 2)),
		AdditionalInfo: p.text(content.AdditionalInfo),
		Threats:        threats,
		Measures:       measures,
	}, nil
}
