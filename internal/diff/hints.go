package diff

import (
	"sort"
	"strings"

	"eitsapi/internal/eits"
	"eitsapi/internal/textutil"

	"github.com/antzucaro/matchr"
)

// RenameHint suggests that a removed measure and an added measure of the
// same module are the same control under a new code.
type RenameHint struct {
	ModuleCode string  `json:"module_code"`
	Removed    string  `json:"removed"`
	Added      string  `json:"added"`
	Similarity float64 `json:"similarity"`
}

// titleKey drops the "<code>: " prefix so renumbered measures compare by
// their wording only.
func titleKey(s *eits.EntitySnapshot) string {
	return textutil.NormalizeName(strings.TrimPrefix(s.Title, s.Code+": "))
}

// RenameHints pairs removed and added measures of the same module whose
// titles are at least threshold similar (Jaro-Winkler). Every measure is
// used in at most one hint, best matches first. The records are not changed.
func RenameHints(records []eits.DiffRecord, threshold float64) []RenameHint {
	removed := map[string][]eits.DiffRecord{}
	added := map[string][]eits.DiffRecord{}
	seen := map[string]bool{}
	modules := []string{}
	for _, r := range records {
		if r.EntityKind != eits.ENTITY_MEASURE {
			continue
		}
		switch r.Kind {
		case eits.DIFF_REMOVED:
			removed[r.ModuleCode] = append(removed[r.ModuleCode], r)
		case eits.DIFF_ADDED:
			added[r.ModuleCode] = append(added[r.ModuleCode], r)
		default:
			continue
		}
		if !seen[r.ModuleCode] {
			seen[r.ModuleCode] = true
			modules = append(modules, r.ModuleCode)
		}
	}

	hints := []RenameHint{}
	for _, module := range modules {
		candidates := []RenameHint{}
		for _, r := range removed[module] {
			for _, a := range added[module] {
				similarity := matchr.JaroWinkler(titleKey(r.Before), titleKey(a.After), false)
				if similarity < threshold {
					continue
				}
				candidates = append(candidates, RenameHint{
					ModuleCode: module,
					Removed:    r.Code,
					Added:      a.Code,
					Similarity: similarity,
				})
			}
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Similarity > candidates[j].Similarity
		})

		usedRemoved := map[string]bool{}
		usedAdded := map[string]bool{}
		for _, c := range candidates {
			if usedRemoved[c.Removed] || usedAdded[c.Added] {
				continue
			}
			usedRemoved[c.Removed] = true
			usedAdded[c.Added] = true
			hints = append(hints, c)
		}
	}
	return hints
}
