package patterns

import (
	"strings"

	"golang.org/x/net/html"
)

// countLayouts bumps the layout counters for one element. The selector groups
// are heuristic: an element counts when its tag name or a class-name
// substring suggests the component kind.
func countLayouts(n *html.Node, counts *LayoutCounts) {
	class := strings.ToLower(attr(n, "class"))

	switch n.Data {
	case "button":
		counts.Buttons++
	case "input", "textarea", "select":
		counts.Inputs++
	case "dialog":
		counts.Modals++
	}

	if class == "" {
		return
	}
	if n.Data != "button" && (strings.Contains(class, "btn") || strings.Contains(class, "button")) {
		counts.Buttons++
	}
	if strings.Contains(class, "card") {
		counts.Cards++
	}
	if strings.Contains(class, "container") || strings.Contains(class, "wrapper") {
		counts.Containers++
	}
	if n.Data != "dialog" && (strings.Contains(class, "modal") || strings.Contains(class, "dialog")) {
		counts.Modals++
	}
}
