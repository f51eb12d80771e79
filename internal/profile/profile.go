// Package profile maintains the process-wide aggregate of design attributes
// across every analyzed document. The aggregate is owned by a Store and
// mutated only through Merge; readers receive deep copies.
package profile

import (
	"github.com/inkwelllabs/styleprofd/internal/patterns"
)

// layoutHistoryLimit bounds the retained per-document layout count records.
const layoutHistoryLimit = 50

// Profile is the cumulative, capacity-bounded, cross-document summary.
// Numeric category collections are sorted ascending and hold no two values
// within the category tolerance of each other; string collections are
// exact-match deduplicated in accumulation order.
type Profile struct {
	// Count is the number of documents merged since creation or reset.
	Count int `json:"count"`

	Strings map[patterns.Category][]string  `json:"strings"`
	Numbers map[patterns.Category][]float64 `json:"numbers"`

	// Layouts holds the most recent layout-count records, newest last.
	Layouts []patterns.LayoutCounts `json:"layouts"`

	CommonStyles patterns.CommonStyles `json:"commonStyles"`

	// ComponentStyles maps archetype -> property -> up to 5 sample values.
	ComponentStyles map[string]map[string][]string `json:"componentStyles"`
}

// newProfile returns an empty profile.
func newProfile() *Profile {
	return &Profile{
		Strings:         make(map[patterns.Category][]string),
		Numbers:         make(map[patterns.Category][]float64),
		CommonStyles:    patterns.CommonStyles{CSSVariables: make(map[string]string)},
		ComponentStyles: make(map[string]map[string][]string),
	}
}

// clone deep-copies a profile so readers cannot alias the stored state.
func (p *Profile) clone() Profile {
	cp := Profile{
		Count:           p.Count,
		Strings:         make(map[patterns.Category][]string, len(p.Strings)),
		Numbers:         make(map[patterns.Category][]float64, len(p.Numbers)),
		Layouts:         append([]patterns.LayoutCounts(nil), p.Layouts...),
		CommonStyles:    patterns.CommonStyles{CSSVariables: make(map[string]string, len(p.CommonStyles.CSSVariables))},
		ComponentStyles: make(map[string]map[string][]string, len(p.ComponentStyles)),
	}
	for cat, vals := range p.Strings {
		cp.Strings[cat] = append([]string(nil), vals...)
	}
	for cat, vals := range p.Numbers {
		cp.Numbers[cat] = append([]float64(nil), vals...)
	}
	for k, v := range p.CommonStyles.CSSVariables {
		cp.CommonStyles.CSSVariables[k] = v
	}
	for arch, props := range p.ComponentStyles {
		pc := make(map[string][]string, len(props))
		for prop, vals := range props {
			pc[prop] = append([]string(nil), vals...)
		}
		cp.ComponentStyles[arch] = pc
	}
	return cp
}
