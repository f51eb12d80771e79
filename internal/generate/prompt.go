package generate

import (
	"fmt"
	"strings"
)

// systemPrompt frames the model as a frontend designer producing a single
// self-contained HTML document.
const systemPrompt = `You are a designer and frontend developer. Generate a complete, modern,
responsive HTML document with embedded CSS. Output code only, no commentary.`

// BuildPrompt composes the generation prompt from the caller's brief and the
// style-consistency guidance rendered from the aggregate profile. An empty
// guidance block is omitted entirely rather than sent as an empty heading.
func BuildPrompt(brief, guidanceText string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Design brief:\n%s\n", strings.TrimSpace(brief))

	if g := strings.TrimSpace(guidanceText); g != "" {
		sb.WriteString("\nFollow the established design language of previous work:\n")
		sb.WriteString(g)
		sb.WriteString("\n")
	}

	sb.WriteString("\nReturn one HTML file with a <style> block. Use icons, not emojis.\n")
	return sb.String()
}
