package views

import (
	"fmt"
	"strings"

	"imgbench/pkg/types"

	"github.com/charmbracelet/glamour"
)

const helpIntro = `# imgbench

Pick a local image, check the preview, save it to the image server and
browse what the server already holds.

`

// HelpMarkdown lists every key binding as a markdown document.
func HelpMarkdown(keys types.KeyMap) string {
	var sb strings.Builder
	sb.WriteString(helpIntro)
	sections := []string{"Local image", "Gallery", "Viewer", "General"}
	for i, group := range keys.FullHelp() {
		title := "More"
		if i < len(sections) {
			title = sections[i]
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", title))
		for _, b := range group {
			h := b.Help()
			sb.WriteString(fmt.Sprintf("- `%s` %s\n", h.Key, h.Desc))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderHelp renders the help document for a terminal of the given width.
// If glamour fails the raw markdown is returned.
func RenderHelp(keys types.KeyMap, width int, style string) string {
	md := HelpMarkdown(keys)
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
