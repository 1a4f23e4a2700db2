package views

import (
	"strings"

	"imgbench/internal/tui/common"
	"imgbench/internal/tui/components"
	"imgbench/internal/tui/styles"
	"imgbench/pkg/types"

	"github.com/charmbracelet/lipgloss"
)

// Panes bundles the stateful components the main view draws.
type Panes struct {
	Preview *components.PreviewPane
	Gallery *components.Gallery
	Status  *components.StatusBar
	Picker  string // rendered file picker, only used while picking
	KeyHelp string // rendered short key help
	Help    string // rendered help document, only used in Help mode
}

// RenderMainView lays out the banner, the two panes and the status line,
// then draws any overlay on top.
func RenderMainView(m common.ModelReader, p Panes) string {
	var body string
	switch m.Mode() {
	case types.Picking:
		body = styles.Theme.ActivePane.Render(
			styles.Theme.Title.Render("Open image") + "\n" + p.Picker)
	default:
		body = renderPanes(m, p)
	}

	var sb strings.Builder
	sb.WriteString(renderBanner())
	sb.WriteString("\n")
	sb.WriteString(body)
	if status := p.Status.View(); status != "" {
		sb.WriteString("\n" + status)
	}
	sb.WriteString("\n" + p.KeyHelp)
	screen := styles.Theme.App.Render(sb.String())

	overlay := ""
	switch m.Mode() {
	case types.Viewer:
		if src, ok := m.ViewerSource(); ok {
			entry := lookup(m, m.State().SelectedPath)
			overlay = components.RenderViewer(entry, src)
		}
	case types.Alert:
		overlay = components.RenderAlert(m.AlertText())
	case types.Help:
		overlay = styles.Theme.Overlay.Render(p.Help)
	}
	if overlay == "" {
		return screen
	}
	return placeOverlay(m, screen, overlay)
}

func renderPanes(m common.ModelReader, p Panes) string {
	half := max(20, (m.Width()-6)/2)

	left, right := styles.Theme.Pane, styles.Theme.Pane
	galleryActive := m.Mode() == types.Gallery || m.Mode() == types.Filter
	if galleryActive {
		right = styles.Theme.ActivePane
	} else {
		left = styles.Theme.ActivePane
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		left.Width(half).Render(p.Preview.View(m.State())),
		right.Width(half).Render(p.Gallery.View(galleryActive)),
	)
}

// placeOverlay centres the overlay over the screen. Without a known
// window size the overlay is appended below instead.
func placeOverlay(m common.ModelReader, screen, overlay string) string {
	if m.Width() == 0 || m.Height() == 0 {
		return screen + "\n" + overlay
	}
	return lipgloss.Place(m.Width(), m.Height(), lipgloss.Center, lipgloss.Center, overlay,
		lipgloss.WithWhitespaceChars(" "))
}

func lookup(m common.ModelReader, path string) types.RemoteImage {
	for _, img := range m.State().Images {
		if img.Path == path {
			return img
		}
	}
	return types.RemoteImage{Path: path}
}

func renderBanner() string {
	return styles.Theme.Title.Render("◆ imgbench")
}
