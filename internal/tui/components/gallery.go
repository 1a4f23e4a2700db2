package components

import (
	"fmt"
	"strings"

	"imgbench/internal/tui/styles"
	"imgbench/pkg/types"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

// Gallery lists the remote images with a cursor and a fuzzy name filter.
type Gallery struct {
	images   []types.RemoteImage
	visible  []int // indexes into images, in display order
	cursor   int
	selected string
	height   int
	filter   textinput.Model
}

func NewGallery() *Gallery {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter by name"
	ti.CharLimit = 64

	g := &Gallery{height: 10, filter: ti}
	g.apply()
	return g
}

type imageSource []types.RemoteImage

func (s imageSource) String(i int) string { return s[i].FilterValue() }
func (s imageSource) Len() int            { return len(s) }

// SetImages replaces the listing, keeping the cursor on the same path
// when it is still listed.
func (g *Gallery) SetImages(images []types.RemoteImage) {
	current, hadCurrent := g.Current()
	g.images = append([]types.RemoteImage(nil), images...)
	g.apply()
	if hadCurrent {
		for i, idx := range g.visible {
			if g.images[idx].Path == current.Path {
				g.cursor = i
				return
			}
		}
	}
	g.clampCursor()
}

// SetSelected marks path as the workbench selection.
func (g *Gallery) SetSelected(path string) {
	g.selected = path
}

func (g *Gallery) SetHeight(h int) {
	if h > 0 {
		g.height = h
	}
}

func (g *Gallery) MoveCursor(delta int) {
	g.cursor += delta
	g.clampCursor()
}

func (g *Gallery) Cursor() int {
	return g.cursor
}

// Current returns the entry under the cursor.
func (g *Gallery) Current() (types.RemoteImage, bool) {
	if g.cursor < 0 || g.cursor >= len(g.visible) {
		return types.RemoteImage{}, false
	}
	return g.images[g.visible[g.cursor]], true
}

// Visible returns the entries that pass the filter, in display order.
func (g *Gallery) Visible() []types.RemoteImage {
	out := make([]types.RemoteImage, 0, len(g.visible))
	for _, idx := range g.visible {
		out = append(out, g.images[idx])
	}
	return out
}

func (g *Gallery) FocusFilter() tea.Cmd {
	return g.filter.Focus()
}

func (g *Gallery) BlurFilter() {
	g.filter.Blur()
}

func (g *Gallery) ClearFilter() {
	g.filter.SetValue("")
	g.filter.Blur()
	g.apply()
	g.clampCursor()
}

func (g *Gallery) Query() string {
	return g.filter.Value()
}

// UpdateFilter feeds a key to the filter input and re-filters.
func (g *Gallery) UpdateFilter(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	g.filter, cmd = g.filter.Update(msg)
	g.apply()
	g.cursor = 0
	return cmd
}

func (g *Gallery) apply() {
	g.visible = g.visible[:0]
	query := strings.TrimSpace(g.filter.Value())
	if query == "" {
		for i := range g.images {
			g.visible = append(g.visible, i)
		}
		return
	}
	for _, m := range fuzzy.FindFrom(query, imageSource(g.images)) {
		g.visible = append(g.visible, m.Index)
	}
}

func (g *Gallery) clampCursor() {
	if g.cursor >= len(g.visible) {
		g.cursor = len(g.visible) - 1
	}
	if g.cursor < 0 {
		g.cursor = 0
	}
}

// View renders the list. active highlights the cursor row.
func (g *Gallery) View(active bool) string {
	var sb strings.Builder
	sb.WriteString(styles.Theme.Title.Render(fmt.Sprintf("Gallery (%d)", len(g.images))))
	sb.WriteString("\n")

	if g.filter.Focused() || g.filter.Value() != "" {
		sb.WriteString(g.filter.View())
		sb.WriteString("\n")
	}

	if len(g.images) == 0 {
		sb.WriteString(styles.Theme.Unselected.Render("No images yet. Press r to refresh."))
		return sb.String()
	}
	if len(g.visible) == 0 {
		sb.WriteString(styles.Theme.Unselected.Render("No matches."))
		return sb.String()
	}

	start := 0
	if g.cursor >= g.height {
		start = g.cursor - g.height + 1
	}
	end := min(start+g.height, len(g.visible))

	for i := start; i < end; i++ {
		img := g.images[g.visible[i]]
		marker := "  "
		if img.Path == g.selected {
			marker = "● "
		}
		line := marker + img.Name
		switch {
		case active && i == g.cursor:
			line = styles.Theme.Cursor.Render("> " + line)
		case img.Path == g.selected:
			line = "  " + styles.Theme.Selected.Render(line)
		default:
			line = "  " + line
		}
		sb.WriteString(line)
		if i < end-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
