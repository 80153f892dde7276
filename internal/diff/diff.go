// Package diff compares two snapshots of the framework. Risk codes are
// derived from the risk table and not taken from the portal, so they never
// make an entity count as modified.
package diff

import (
	"context"
	"fmt"

	"eitsapi/internal/eits"
	"eitsapi/internal/export"
)

// Source builds the snapshot of a framework year.
type Source interface {
	Modules(ctx context.Context, year int) (eits.Snapshot, error)
}

func measureIndex(measures []eits.Measure) map[string]eits.Measure {
	index := make(map[string]eits.Measure, len(measures))
	for _, m := range measures {
		index[m.Code] = m
	}
	return index
}

func moduleIndex(modules []eits.Module) map[string]eits.Module {
	index := make(map[string]eits.Module, len(modules))
	for _, m := range modules {
		index[m.Code] = m
	}
	return index
}

func moduleChanged(a, b eits.Module) bool {
	return a.Name != b.Name || a.Description != b.Description
}

func measureChanged(a, b eits.Measure) bool {
	return a.Title != b.Title || a.Description != b.Description
}

func compareMeasures(moduleCode string, a, b []eits.Measure) []eits.DiffRecord {
	before := measureIndex(a)
	after := measureIndex(b)

	records := []eits.DiffRecord{}
	for _, m := range b {
		old, ok := before[m.Code]
		switch {
		case !ok:
			records = append(records, eits.DiffRecord{
				Kind:       eits.DIFF_ADDED,
				EntityKind: eits.ENTITY_MEASURE,
				Code:       m.Code,
				ModuleCode: moduleCode,
				After:      eits.MeasureState(m),
			})
		case measureChanged(old, m):
			records = append(records, eits.DiffRecord{
				Kind:       eits.DIFF_MODIFIED,
				EntityKind: eits.ENTITY_MEASURE,
				Code:       m.Code,
				ModuleCode: moduleCode,
				Before:     eits.MeasureState(old),
				After:      eits.MeasureState(m),
			})
		}
	}
	for _, m := range a {
		if _, ok := after[m.Code]; ok {
			continue
		}
		records = append(records, eits.DiffRecord{
			Kind:       eits.DIFF_REMOVED,
			EntityKind: eits.ENTITY_MEASURE,
			Code:       m.Code,
			ModuleCode: moduleCode,
			Before:     eits.MeasureState(m),
		})
	}
	return records
}

// Compute lists what changed from a to b. Module records come first, in b's
// module order followed by modules only a has. Measure records follow,
// grouped by module in the same order. Added and removed modules do not get
// measure records of their own.
func Compute(a, b eits.Snapshot) []eits.DiffRecord {
	before := moduleIndex(a.Modules)
	after := moduleIndex(b.Modules)

	modules := []eits.DiffRecord{}
	measures := []eits.DiffRecord{}
	for _, m := range b.Modules {
		old, ok := before[m.Code]
		if !ok {
			modules = append(modules, eits.DiffRecord{
				Kind:       eits.DIFF_ADDED,
				EntityKind: eits.ENTITY_MODULE,
				Code:       m.Code,
				ModuleCode: m.Code,
				After:      eits.ModuleState(m),
			})
			continue
		}
		if moduleChanged(old, m) {
			modules = append(modules, eits.DiffRecord{
				Kind:       eits.DIFF_MODIFIED,
				EntityKind: eits.ENTITY_MODULE,
				Code:       m.Code,
				ModuleCode: m.Code,
				Before:     eits.ModuleState(old),
				After:      eits.ModuleState(m),
			})
		}
		measures = append(measures, compareMeasures(m.Code, old.Measures, m.Measures)...)
	}
	for _, m := range a.Modules {
		if _, ok := after[m.Code]; ok {
			continue
		}
		modules = append(modules, eits.DiffRecord{
			Kind:       eits.DIFF_REMOVED,
			EntityKind: eits.ENTITY_MODULE,
			Code:       m.Code,
			ModuleCode: m.Code,
			Before:     eits.ModuleState(m),
		})
	}

	return append(modules, measures...)
}

// All builds the snapshots of both years and compares them. A failure on
// either side is returned as is.
func All(ctx context.Context, src Source, yearA, yearB int) ([]eits.DiffRecord, error) {
	a, err := src.Modules(ctx, yearA)
	if err != nil {
		return nil, fmt.Errorf("snapshot %d: %w", yearA, err)
	}
	b, err := src.Modules(ctx, yearB)
	if err != nil {
		return nil, fmt.Errorf("snapshot %d: %w", yearB, err)
	}
	return Compute(a, b), nil
}

func AllJSON(ctx context.Context, src Source, yearA, yearB int) ([]byte, error) {
	records, err := All(ctx, src, yearA, yearB)
	if err != nil {
		return nil, err
	}
	return export.MarshalJSON(records)
}

// Summary counts records per entity and kind.
type Summary map[eits.EntityKind]map[eits.DiffKind]int

func Summarize(records []eits.DiffRecord) Summary {
	summary := Summary{
		eits.ENTITY_MODULE:  {},
		eits.ENTITY_MEASURE: {},
	}
	for _, r := range records {
		summary[r.EntityKind][r.Kind]++
	}
	return summary
}
