package patterns

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// rule is one independent, side-effect-free pattern matcher for a category.
// tokens receives the regex submatches (index 0 is the whole match) and
// returns zero or more raw value tokens. A rule that matches nothing simply
// contributes nothing; it can never fail the scan.
type rule struct {
	re     *regexp.Regexp
	tokens func(m []string) []string
}

// boundary prevents a property name from matching as the suffix of a longer
// property (transform vs text-transform, width vs min-width). RE2 has no
// lookbehind, so the non-word prefix is consumed but not captured.
const boundary = `(?:^|[^-\w])`

var (
	colorRe = regexp.MustCompile(`(?i)#(?:[0-9a-f]{8}|[0-9a-f]{6}|[0-9a-f]{3,4})\b|rgba?\([^)]+\)|hsla?\([^)]+\)|\btransparent\b|\bcurrentcolor\b`)

	fontFamilyRe  = regexp.MustCompile(`(?i)font-family\s*:\s*([^;}]+)`)
	fontSizeRe    = regexp.MustCompile(`(?i)font-size\s*:\s*(-?\d*\.?\d+)`)
	fontWeightRe  = regexp.MustCompile(`(?i)font-weight\s*:\s*(\d{3}|normal|bolder|lighter|bold)`)
	lineHeightRe  = regexp.MustCompile(`(?i)line-height\s*:\s*(\d*\.?\d+)`)
	letterSpaceRe = regexp.MustCompile(`(?i)letter-spacing\s*:\s*(-?\d*\.?\d+)`)

	spacingRe = regexp.MustCompile(`(?i)` + boundary + `(?:padding|margin)(?:-(?:top|right|bottom|left|inline|block)(?:-(?:start|end))?)?\s*:\s*([^;}]+)`)
	radiusRe  = regexp.MustCompile(`(?i)border(?:-(?:top|bottom)-(?:left|right))?-radius\s*:\s*([^;}]+)`)
	gapRe     = regexp.MustCompile(`(?i)` + boundary + `(?:row-gap|column-gap|gap)\s*:\s*([^;}]+)`)

	shadowRe     = regexp.MustCompile(`(?i)(?:box|text)-shadow\s*:\s*([^;}]+)`)
	borderRe     = regexp.MustCompile(`(?i)` + boundary + `border(?:-(?:top|right|bottom|left))?\s*:\s*([^;}]+)`)
	transitionRe = regexp.MustCompile(`(?i)` + boundary + `transition\s*:\s*([^;}]+)`)
	transformRe  = regexp.MustCompile(`(?i)` + boundary + `transform\s*:\s*([^;}]+)`)
	opacityRe    = regexp.MustCompile(`(?i)` + boundary + `opacity\s*:\s*(-?\d*\.?\d+)`)
	gradientRe   = regexp.MustCompile(`(?i)(?:linear|radial|conic)-gradient\([^;}]*\)`)
	zIndexRe     = regexp.MustCompile(`(?i)z-index\s*:\s*(-?\d+)`)

	widthRe  = regexp.MustCompile(`(?i)` + boundary + `width\s*:\s*(-?\d*\.?\d+)([a-z%]*)`)
	heightRe = regexp.MustCompile(`(?i)` + boundary + `height\s*:\s*(-?\d*\.?\d+)([a-z%]*)`)

	displayRe  = regexp.MustCompile(`(?i)` + boundary + `display\s*:\s*([a-z-]+)`)
	flexRe     = regexp.MustCompile(`(?i)` + boundary + `(flex(?:-direction|-wrap|-flow|-grow|-shrink|-basis)?|justify-content|align-items|align-content|align-self)\s*:\s*([^;}]+)`)
	gridRe     = regexp.MustCompile(`(?i)` + boundary + `(grid-template-columns|grid-template-rows|grid-template-areas|grid-auto-flow|grid-auto-rows|grid-auto-columns|grid-column|grid-row|grid-area)\s*:\s*([^;}]+)`)
	positionRe = regexp.MustCompile(`(?i)` + boundary + `position\s*:\s*(static|relative|absolute|fixed|sticky)`)
	textTrRe   = regexp.MustCompile(`(?i)text-transform\s*:\s*([a-z-]+)`)
	textDecRe  = regexp.MustCompile(`(?i)text-decoration(?:-line)?\s*:\s*([^;}]+)`)
	animRe     = regexp.MustCompile(`(?i)` + boundary + `animation(?:-name)?\s*:\s*([^;}]+)`)

	mediaRe      = regexp.MustCompile(`(?i)@media([^{]*)\{`)
	breakpointRe = regexp.MustCompile(`(?i)(?:min|max)-width\s*:\s*(\d*\.?\d+)`)

	cssVarRe = regexp.MustCompile(`(?i)--([a-zA-Z0-9_-]+)\s*:\s*([^;}]+)`)

	numberUnitRe = regexp.MustCompile(`(?i)(-?\d*\.?\d+)(px|rem|em|pt|%|vw|vh)?`)
)

// ruleTable holds one or more pattern rules per category. Rules within a
// category share a working set, so overlapping matches deduplicate naturally.
var ruleTable = map[Category][]rule{
	Colors:          {{re: colorRe, tokens: colorTokens}},
	FontFamilies:    {{re: fontFamilyRe, tokens: fontListTokens}},
	FontSizes:       {{re: fontSizeRe, tokens: firstGroup}},
	FontWeights:     {{re: fontWeightRe, tokens: weightTokens}},
	LineHeights:     {{re: lineHeightRe, tokens: firstGroup}},
	LetterSpacing:   {{re: letterSpaceRe, tokens: firstGroup}},
	Spacing:         {{re: spacingRe, tokens: numericValueTokens}},
	BorderRadius:    {{re: radiusRe, tokens: numericValueTokens}},
	Shadows:         {{re: shadowRe, tokens: valueToken}},
	Borders:         {{re: borderRe, tokens: valueToken}},
	Transitions:     {{re: transitionRe, tokens: valueToken}},
	Transforms:      {{re: transformRe, tokens: valueToken}},
	Opacities:       {{re: opacityRe, tokens: opacityTokens}},
	Gradients:       {{re: gradientRe, tokens: wholeMatch}},
	ZIndex:          {{re: zIndexRe, tokens: firstGroup}},
	Gaps:            {{re: gapRe, tokens: numericValueTokens}},
	Widths:          {{re: widthRe, tokens: sizeTokens}},
	Heights:         {{re: heightRe, tokens: sizeTokens}},
	DisplayTypes:    {{re: displayRe, tokens: lowerToken}},
	FlexProperties:  {{re: flexRe, tokens: declarationToken}},
	GridProperties:  {{re: gridRe, tokens: declarationToken}},
	Positions:       {{re: positionRe, tokens: lowerToken}},
	TextTransforms:  {{re: textTrRe, tokens: lowerToken}},
	TextDecorations: {{re: textDecRe, tokens: valueToken}},
	Breakpoints:     {{re: mediaRe, tokens: breakpointTokens}},
	Animations:      {{re: animRe, tokens: valueToken}},
}

// scan runs every category's rules against one chunk of CSS text, inserting
// tokens into the per-category working sets. Rules are independent: a rule
// that matches nothing leaves its category untouched.
func scan(css string, sets map[Category]*orderedSet) {
	for cat, rules := range ruleTable {
		set := sets[cat]
		for _, r := range rules {
			for _, m := range r.re.FindAllStringSubmatch(css, -1) {
				for _, tok := range r.tokens(m) {
					set.add(tok)
				}
			}
		}
	}
}

// scanVariables captures CSS custom properties; the last occurrence of a
// variable wins.
func scanVariables(css string, vars map[string]string) {
	for _, m := range cssVarRe.FindAllStringSubmatch(css, -1) {
		vars[m[1]] = trimValue(m[2])
	}
}

// trimValue normalizes a captured declaration value.
func trimValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimSuffix(v, "!important")
	return strings.TrimSpace(v)
}

func wholeMatch(m []string) []string { return []string{m[0]} }

func firstGroup(m []string) []string { return []string{m[1]} }

func valueToken(m []string) []string {
	v := trimValue(m[1])
	if v == "" {
		return nil
	}
	return []string{v}
}

func lowerToken(m []string) []string {
	v := strings.ToLower(trimValue(m[1]))
	if v == "" {
		return nil
	}
	return []string{v}
}

// declarationToken keeps the property name with its value so that distinct
// flex/grid properties stay distinguishable in one flat category.
func declarationToken(m []string) []string {
	v := trimValue(m[2])
	if v == "" {
		return nil
	}
	return []string{strings.ToLower(m[1]) + ": " + v}
}

// colorTokens keeps the token verbatim but drops anything the CSS color
// parser rejects (malformed rgb() arguments and the like).
func colorTokens(m []string) []string {
	tok := m[0]
	switch strings.ToLower(tok) {
	case "transparent", "currentcolor":
		return []string{tok}
	}
	if _, err := csscolorparser.Parse(tok); err != nil {
		return nil
	}
	return []string{tok}
}

// fontListTokens splits a font-family value into individual names, stripping
// quote characters.
func fontListTokens(m []string) []string {
	var out []string
	for _, part := range strings.Split(m[1], ",") {
		name := strings.Trim(strings.TrimSpace(part), `"'`)
		name = strings.TrimSuffix(name, "!important")
		name = strings.TrimSpace(name)
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// weightTokens canonicalizes keyword weights to their numeric values.
// Relative keywords (bolder/lighter) have no absolute value and are dropped.
func weightTokens(m []string) []string {
	switch strings.ToLower(m[1]) {
	case "normal":
		return []string{"400"}
	case "bold":
		return []string{"700"}
	case "bolder", "lighter":
		return nil
	}
	return []string{m[1]}
}

// opacityTokens drops values outside [0,1].
func opacityTokens(m []string) []string {
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v < 0 || v > 1 {
		return nil
	}
	return []string{m[1]}
}

// sizeTokens drops widths/heights expressed as percentages or viewport units.
func sizeTokens(m []string) []string {
	switch strings.ToLower(m[2]) {
	case "%", "vw", "vh":
		return nil
	}
	return []string{m[1]}
}

// numericValueTokens extracts every numeric component of a (possibly
// shorthand) declaration value, skipping percentage and viewport amounts.
func numericValueTokens(m []string) []string {
	var out []string
	for _, t := range numberUnitRe.FindAllStringSubmatch(m[1], -1) {
		switch strings.ToLower(t[2]) {
		case "%", "vw", "vh":
			continue
		}
		out = append(out, t[1])
	}
	return out
}

// breakpointTokens pulls min-width/max-width amounts out of one @media
// prelude; a query without a width condition contributes nothing.
func breakpointTokens(m []string) []string {
	var out []string
	for _, t := range breakpointRe.FindAllStringSubmatch(m[1], -1) {
		out = append(out, t[1])
	}
	return out
}
