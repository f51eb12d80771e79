package patterns

import (
	"regexp"
	"strings"
)

// componentValueLimit bounds the distinct values kept per (archetype,
// property) pair, both here and in the aggregate.
const componentValueLimit = 5

// archetype is one fixed component kind whose per-property style samples are
// tracked separately from the flat categories.
type archetype struct {
	name     string
	selector func(sel string) bool
	props    []string
}

var archetypes = []archetype{
	{
		name: "buttons",
		selector: func(sel string) bool {
			return strings.Contains(sel, "button") || strings.Contains(sel, ".btn")
		},
		props: []string{
			"background", "background-color", "color", "padding",
			"border-radius", "font-weight", "font-size", "border",
			"box-shadow", "transition",
		},
	},
	{
		name: "cards",
		selector: func(sel string) bool {
			return strings.Contains(sel, "card")
		},
		props: []string{
			"background", "background-color", "border-radius",
			"box-shadow", "padding", "border",
		},
	},
	{
		name: "inputs",
		selector: func(sel string) bool {
			return strings.Contains(sel, "input") || strings.Contains(sel, "field")
		},
		props: []string{
			"background", "background-color", "border", "border-radius",
			"padding", "font-size", "color",
		},
	},
}

// ruleBlockRe splits style text into selector/body pairs. Nested blocks
// (@media contents) surface as ordinary rule blocks on the second pass of the
// same pattern, which is close enough for a best-effort scan.
var ruleBlockRe = regexp.MustCompile(`([^{}]+)\{([^{}]*)\}`)

// propRes holds one compiled declaration matcher per allow-listed property.
var propRes = buildPropRes()

func buildPropRes() map[string]*regexp.Regexp {
	names := make(map[string]struct{})
	for _, a := range archetypes {
		for _, p := range a.props {
			names[p] = struct{}{}
		}
	}
	res := make(map[string]*regexp.Regexp, len(names))
	for p := range names {
		res[p] = regexp.MustCompile(`(?i)` + boundary + regexp.QuoteMeta(p) + `\s*:\s*([^;}]+)`)
	}
	return res
}

// extractComponentStyles locates rule blocks whose selectors match one of the
// fixed archetypes and pulls that archetype's allow-listed properties out of
// the block body, keeping up to componentValueLimit distinct values per
// property.
func extractComponentStyles(styleText string) map[string]map[string][]string {
	out := make(map[string]map[string][]string)
	if styleText == "" {
		return out
	}

	for _, block := range ruleBlockRe.FindAllStringSubmatch(styleText, -1) {
		sel := strings.ToLower(strings.TrimSpace(block[1]))
		body := block[2]
		for _, a := range archetypes {
			if !a.selector(sel) {
				continue
			}
			for _, prop := range a.props {
				m := propRes[prop].FindStringSubmatch(body)
				if m == nil {
					continue
				}
				addComponentValue(out, a.name, prop, trimValue(m[1]))
			}
		}
	}
	return out
}

func addComponentValue(styles map[string]map[string][]string, arch, prop, value string) {
	if value == "" {
		return
	}
	props, ok := styles[arch]
	if !ok {
		props = make(map[string][]string)
		styles[arch] = props
	}
	vals := props[prop]
	if len(vals) >= componentValueLimit {
		return
	}
	for _, v := range vals {
		if v == value {
			return
		}
	}
	props[prop] = append(vals, value)
}
