package patterns

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Extract scans one document's markup and returns its design-attribute
// snapshot. It is pure and deterministic: the same markup always yields an
// equal snapshot, and a document with no style content yields an all-empty
// snapshot rather than an error. The only failure mode is input that is not
// decodable as text.
func Extract(markup string) (*Snapshot, error) {
	if !utf8.ValidString(markup) {
		return nil, fmt.Errorf("markup is not valid UTF-8")
	}

	// html.Parse tolerates arbitrarily malformed input, so extraction is
	// best-effort by construction.
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	var styleBlocks []string
	var inlineStyles []string
	snap := NewSnapshot()

	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if n.Data == "style" {
			styleBlocks = append(styleBlocks, collectText(n))
		}
		if v := attr(n, "style"); v != "" {
			inlineStyles = append(inlineStyles, v)
		}
		countLayouts(n, &snap.Layouts)
	})

	styleText := strings.Join(styleBlocks, "\n")
	inlineText := strings.Join(inlineStyles, ";\n")

	// Both CSS sources feed the same rule set; the working sets do not
	// distinguish where a token came from.
	sets := make(map[Category]*orderedSet, len(ruleTable))
	for cat := range ruleTable {
		sets[cat] = newOrderedSet()
	}
	scan(styleText, sets)
	scan(inlineText, sets)

	scanVariables(styleText, snap.CommonStyles.CSSVariables)
	scanVariables(inlineText, snap.CommonStyles.CSSVariables)

	// Component archetype samples come from <style> text only; inline styles
	// carry no selector to scope them by.
	snap.ComponentStyles = extractComponentStyles(styleText)

	finalize(sets, snap)
	return snap, nil
}

// finalize converts the raw working sets into the snapshot's output form:
// numeric categories are coerced to numbers (invalid entries discarded),
// sorted ascending, and truncated to the category capacity; string categories
// keep first-seen order and are truncated the same way. The capacity here is
// only an output-size bound; tolerance dedup happens at merge time.
func finalize(sets map[Category]*orderedSet, snap *Snapshot) {
	for cat, set := range sets {
		if set.len() == 0 {
			continue
		}
		spec := Specs[cat]
		switch spec.Kind {
		case KindNumeric:
			nums := make([]float64, 0, set.len())
			for _, raw := range set.values {
				v, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					continue
				}
				nums = append(nums, v)
			}
			if len(nums) == 0 {
				continue
			}
			sort.Float64s(nums)
			nums = dedupSorted(nums)
			if len(nums) > spec.Capacity {
				nums = nums[:spec.Capacity]
			}
			snap.Numbers[cat] = nums
		default:
			vals := set.values
			if len(vals) > spec.Capacity {
				vals = vals[:spec.Capacity]
			}
			snap.Strings[cat] = vals
		}
	}
}

// dedupSorted removes exact duplicates from a sorted slice. Distinct raw
// tokens ("10" and "10.0") can coerce to the same number.
func dedupSorted(nums []float64) []float64 {
	out := nums[:1]
	for _, v := range nums[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// walk visits every node in document order.
func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// collectText concatenates the text content beneath a node.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(n)
	return sb.String()
}

// attr returns the value of an attribute on a node.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
