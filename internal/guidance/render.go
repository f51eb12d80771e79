// Package guidance renders an aggregate profile into the style-consistency
// text block injected into downstream design-generation prompts. Rendering is
// a pure projection of the profile; it has no side effects.
package guidance

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/inkwelllabs/styleprofd/internal/patterns"
	"github.com/inkwelllabs/styleprofd/internal/profile"
)

// displayLimits caps how many representative values each category shows.
// Categories missing from the table fall back to defaultDisplayLimit.
var displayLimits = map[patterns.Category]int{
	patterns.Colors:       25,
	patterns.FontFamilies: 10,
	patterns.Spacing:      20,
	patterns.FontSizes:    15,
	patterns.Shadows:      8,
	patterns.Borders:      10,
}

const defaultDisplayLimit = 10

// labels are the human-readable category headings, in display order.
var labels = map[patterns.Category]string{
	patterns.Colors:          "Colors",
	patterns.FontFamilies:    "Font families",
	patterns.FontSizes:       "Font sizes",
	patterns.FontWeights:     "Font weights",
	patterns.LineHeights:     "Line heights",
	patterns.LetterSpacing:   "Letter spacing",
	patterns.Spacing:         "Spacing scale",
	patterns.BorderRadius:    "Border radii",
	patterns.Shadows:         "Shadows",
	patterns.Borders:         "Borders",
	patterns.Transitions:     "Transitions",
	patterns.Transforms:      "Transforms",
	patterns.Opacities:       "Opacities",
	patterns.Gradients:       "Gradients",
	patterns.ZIndex:          "Z-index layers",
	patterns.Gaps:            "Gaps",
	patterns.Widths:          "Widths",
	patterns.Heights:         "Heights",
	patterns.DisplayTypes:    "Display types",
	patterns.FlexProperties:  "Flex usage",
	patterns.GridProperties:  "Grid usage",
	patterns.Positions:       "Positioning",
	patterns.TextTransforms:  "Text transforms",
	patterns.TextDecorations: "Text decorations",
	patterns.Breakpoints:     "Breakpoints",
	patterns.Animations:      "Animations",
}

// pxCategories get a px suffix when their numbers render.
var pxCategories = map[patterns.Category]bool{
	patterns.FontSizes:     true,
	patterns.LetterSpacing: true,
	patterns.Spacing:       true,
	patterns.BorderRadius:  true,
	patterns.Gaps:          true,
	patterns.Widths:        true,
	patterns.Heights:       true,
	patterns.Breakpoints:   true,
}

// Render produces the guidance text for the current profile. An empty profile
// renders a short note instead of an empty skeleton.
func Render(p profile.Profile) string {
	if p.Count == 0 {
		return "No documents analyzed yet; no style guidance available."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Style consistency guidance (derived from %d analyzed document%s):\n",
		p.Count, plural(p.Count))

	for _, cat := range patterns.All() {
		line := renderCategory(p, cat)
		if line == "" {
			continue
		}
		fmt.Fprintf(&sb, "- %s: %s\n", labels[cat], line)
	}

	if totals := sumLayouts(p.Layouts); !totals.IsZero() {
		fmt.Fprintf(&sb, "- Observed components: %d buttons, %d cards, %d containers, %d inputs, %d modals\n",
			totals.Buttons, totals.Cards, totals.Containers, totals.Inputs, totals.Modals)
	}

	renderComponentStyles(&sb, p.ComponentStyles)

	return strings.TrimRight(sb.String(), "\n")
}

func renderCategory(p profile.Profile, cat patterns.Category) string {
	limit := displayLimits[cat]
	if limit == 0 {
		limit = defaultDisplayLimit
	}

	if patterns.Specs[cat].Kind == patterns.KindNumeric {
		vals := p.Numbers[cat]
		if len(vals) == 0 {
			return ""
		}
		if len(vals) > limit {
			vals = vals[:limit]
		}
		parts := make([]string, len(vals))
		for i, v := range vals {
			parts[i] = formatNumber(v)
			if pxCategories[cat] {
				parts[i] += "px"
			}
		}
		return strings.Join(parts, ", ")
	}

	vals := p.Strings[cat]
	if len(vals) == 0 {
		return ""
	}
	if len(vals) > limit {
		vals = vals[:limit]
	}
	return strings.Join(vals, ", ")
}

func renderComponentStyles(sb *strings.Builder, styles map[string]map[string][]string) {
	// Fixed archetype order keeps rendering deterministic.
	for _, arch := range []string{"buttons", "cards", "inputs"} {
		props, ok := styles[arch]
		if !ok || len(props) == 0 {
			continue
		}
		fmt.Fprintf(sb, "- Typical %s styles:\n", strings.TrimSuffix(arch, "s"))
		for _, prop := range sortedKeys(props) {
			fmt.Fprintf(sb, "    %s: %s\n", prop, strings.Join(props[prop], " | "))
		}
	}
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sumLayouts(history []patterns.LayoutCounts) patterns.LayoutCounts {
	var total patterns.LayoutCounts
	for _, l := range history {
		total.Buttons += l.Buttons
		total.Cards += l.Cards
		total.Containers += l.Containers
		total.Inputs += l.Inputs
		total.Modals += l.Modals
	}
	return total
}

// formatNumber renders whole values without a decimal point.
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
