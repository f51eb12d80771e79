// Package patterns extracts recurring visual design attributes from HTML/CSS
// documents. It performs a deterministic, best-effort regex scan over the CSS
// text found in <style> blocks and inline style attributes; it does not
// attempt full CSS-grammar correctness.
package patterns

// LayoutCounts records how many elements in one document matched each of the
// heuristic component selector groups.
type LayoutCounts struct {
	Buttons    int `json:"buttons"`
	Cards      int `json:"cards"`
	Containers int `json:"containers"`
	Inputs     int `json:"inputs"`
	Modals     int `json:"modals"`
}

// IsZero reports whether no elements matched any selector group.
func (l LayoutCounts) IsZero() bool {
	return l == LayoutCounts{}
}

// CommonStyles holds free-form style data keyed by name rather than category.
type CommonStyles struct {
	// CSSVariables maps custom property names (without the -- prefix) to the
	// last value observed for them.
	CSSVariables map[string]string `json:"cssVariables"`
}

// Snapshot is the deduplicated, size-capped set of design attributes
// extracted from one single document. It is produced fresh per Extract call
// and never mutated afterwards.
type Snapshot struct {
	// Strings holds values for KindString categories in first-seen order.
	Strings map[Category][]string `json:"strings"`
	// Numbers holds values for KindNumeric categories, sorted ascending.
	Numbers map[Category][]float64 `json:"numbers"`

	Layouts      LayoutCounts `json:"layouts"`
	CommonStyles CommonStyles `json:"commonStyles"`

	// ComponentStyles maps archetype -> CSS property -> up to 5 observed values.
	ComponentStyles map[string]map[string][]string `json:"componentStyles"`
}

// NewSnapshot returns an empty snapshot with all containers allocated.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Strings:         make(map[Category][]string),
		Numbers:         make(map[Category][]float64),
		CommonStyles:    CommonStyles{CSSVariables: make(map[string]string)},
		ComponentStyles: make(map[string]map[string][]string),
	}
}

// orderedSet is a uniqueness-enforcing container preserving insertion order.
// Extraction rules insert raw tokens here before the numeric/string
// conversion pass.
type orderedSet struct {
	seen   map[string]struct{}
	values []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
}

func (s *orderedSet) len() int { return len(s.values) }
