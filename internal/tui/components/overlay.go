package components

import (
	"strings"

	"imgbench/internal/tui/styles"
	"imgbench/pkg/types"
)

// RenderViewer draws the viewer overlay for the selected remote image.
func RenderViewer(entry types.RemoteImage, src string) string {
	var sb strings.Builder
	sb.WriteString(styles.Theme.Title.Render("Viewer"))
	sb.WriteString("\n")
	sb.WriteString(styles.Theme.Selected.Render(entry.Name))
	sb.WriteString("\n")
	sb.WriteString("path: " + entry.Path + "\n")
	sb.WriteString("url:  " + styles.Theme.Info.Render(src) + "\n\n")
	sb.WriteString(styles.Theme.Help.Render("[esc] close"))
	return styles.Theme.Overlay.Render(sb.String())
}

// RenderAlert draws a blocking notice that has to be dismissed.
func RenderAlert(text string) string {
	return styles.Theme.Alert.Render(text + "\n\n" + styles.Theme.Help.Render("[enter] ok"))
}
