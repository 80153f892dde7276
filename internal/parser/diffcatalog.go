package parser

import (
	"encoding/json"

	"eitsapi/internal/eits"
	"eitsapi/internal/textutil"
)

// PortalDiff is the portal's own view of which measures changed between two
// editions. It is served as module groups, flattened here to measures.
type PortalDiff struct {
	OldVersion string         `json:"old_version"`
	NewVersion string         `json:"new_version"`
	Added      []eits.Measure `json:"added"`
	Replaced   []eits.Measure `json:"replaced"`
	Removed    []eits.Measure `json:"removed"`
}

// All lists added, replaced and removed measures in that order.
func (d PortalDiff) All() []eits.Measure {
	out := make([]eits.Measure, 0, len(d.Added)+len(d.Replaced)+len(d.Removed))
	out = append(out, d.Added...)
	out = append(out, d.Replaced...)
	return append(out, d.Removed...)
}

func (p Parser) groupMeasures(group apiModuleGroup) ([]eits.Measure, error) {
	out := []eits.Measure{}
	for _, module := range group.modulesRecursive() {
		measures, err := p.measures(module.MeasureDetails, textutil.FixCode(module.ModuleCode))
		if err != nil {
			return nil, err
		}
		out = append(out, measures...)
	}
	return out, nil
}

func (p Parser) ParseDiffCatalog(raw []byte) (PortalDiff, error) {
	var catalog apiDiffCatalog
	err := json.Unmarshal(raw, &catalog)
	if err != nil {
		return PortalDiff{}, &eits.ParseError{Source: "diff catalog", Err: err}
	}

	diff := PortalDiff{
		OldVersion: catalog.OldVersion,
		NewVersion: catalog.NewVersion,
		Added:      []eits.Measure{},
		Replaced:   []eits.Measure{},
		Removed:    []eits.Measure{},
	}

	collect := func(groups []apiModuleGroup, out *[]eits.Measure) error {
		for _, g := range groups {
			measures, err := p.groupMeasures(g)
			if err != nil {
				return &eits.ParseError{Source: "diff catalog", Err: err}
			}
			*out = append(*out, measures...)
		}
		return nil
	}

	err = collect(catalog.Added, &diff.Added)
	if err != nil {
		return PortalDiff{}, err
	}
	for _, replaced := range catalog.Replaced {
		if replaced.NewValue == nil {
			continue
		}
		err = collect([]apiModuleGroup{*replaced.NewValue}, &diff.Replaced)
		if err != nil {
			return PortalDiff{}, err
		}
	}
	err = collect(catalog.Removed, &diff.Removed)
	if err != nil {
		return PortalDiff{}, err
	}

	return diff, nil
}
