// Package risktable holds the pre-tabulated mapping from (year, module,
// measure) to basic risk codes. A Table never changes after construction.
package risktable

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"slices"
	"sort"
	"strconv"
	"strings"

	"eitsapi/internal/textutil"
)

//go:embed data/*.json
var bundled embed.FS

type Entry struct {
	Year    int
	Module  string
	Measure string
	Risks   []string
}

// yearTable is module code -> measure code -> risk codes.
type yearTable map[string]map[string][]string

type Table struct {
	years map[int]yearTable
}

// New builds a table out of entries, keys must be unique within a year.
// Risk codes are deduplicated keeping their first occurrence.
func New(entries []Entry) (Table, error) {
	t := Table{years: map[int]yearTable{}}
	for _, e := range entries {
		module := textutil.FixCode(e.Module)
		measure := textutil.FixCode(e.Measure)
		if module == "" || measure == "" {
			return Table{}, fmt.Errorf("risk table %d: empty module or measure code (%q, %q)", e.Year, e.Module, e.Measure)
		}

		year, ok := t.years[e.Year]
		if !ok {
			year = yearTable{}
			t.years[e.Year] = year
		}
		measures, ok := year[module]
		if !ok {
			measures = map[string][]string{}
			year[module] = measures
		}
		if _, exists := measures[measure]; exists {
			return Table{}, fmt.Errorf("risk table %d: duplicate entry for %s/%s", e.Year, module, measure)
		}
		measures[measure] = dedupe(e.Risks)
	}
	return t, nil
}

func dedupe(risks []string) []string {
	out := make([]string, 0, len(risks))
	for _, r := range risks {
		r = strings.TrimSpace(r)
		if r == "" || slices.Contains(out, r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Lookup returns a copy of the risk codes for a measure, unknown keys yield
// an empty (non-nil) slice.
func (t Table) Lookup(year int, module, measure string) []string {
	risks := t.years[year][textutil.FixCode(module)][textutil.FixCode(measure)]
	out := make([]string, len(risks))
	copy(out, risks)
	return out
}

func (t Table) Has(year int) bool {
	_, ok := t.years[year]
	return ok
}

// Years returns the years present in the table in ascending order.
func (t Table) Years() []int {
	years := make([]int, 0, len(t.years))
	for y := range t.years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Len is the number of (module, measure) entries for a year.
func (t Table) Len(year int) int {
	n := 0
	for _, measures := range t.years[year] {
		n += len(measures)
	}
	return n
}

func entriesFromYear(year int, data yearTable) []Entry {
	var entries []Entry
	for module, measures := range data {
		for measure, risks := range measures {
			entries = append(entries, Entry{Year: year, Module: module, Measure: measure, Risks: risks})
		}
	}
	return entries
}

// Bundled returns the table compiled into the binary, one file per edition.
func Bundled() (Table, error) {
	files, err := bundled.ReadDir("data")
	if err != nil {
		return Table{}, err
	}

	var entries []Entry
	for _, f := range files {
		year, err := strconv.Atoi(strings.TrimSuffix(f.Name(), ".json"))
		if err != nil {
			return Table{}, fmt.Errorf("bundled risk table %s: %w", f.Name(), err)
		}
		raw, err := bundled.ReadFile(path.Join("data", f.Name()))
		if err != nil {
			return Table{}, err
		}
		var data yearTable
		err = json.Unmarshal(raw, &data)
		if err != nil {
			return Table{}, fmt.Errorf("bundled risk table %s: %w", f.Name(), err)
		}
		entries = append(entries, entriesFromYear(year, data)...)
	}
	return New(entries)
}

// FromJSON reads a table of the form {"<year>": {"<module>": {"<measure>": ["<risk>", ...]}}}.
func FromJSON(r io.Reader) (Table, error) {
	var data map[string]yearTable
	err := json.NewDecoder(r).Decode(&data)
	if err != nil {
		return Table{}, fmt.Errorf("decode risk table: %w", err)
	}

	var entries []Entry
	for key, yearData := range data {
		year, err := strconv.Atoi(key)
		if err != nil {
			return Table{}, fmt.Errorf("risk table year %q: %w", key, err)
		}
		entries = append(entries, entriesFromYear(year, yearData)...)
	}
	return New(entries)
}

// Load reads a table file in the FromJSON format.
func Load(filename string) (Table, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()
	return FromJSON(f)
}
