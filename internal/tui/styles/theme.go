package styles

import (
	"imgbench/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used across the TUI.
type Styles struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Pane       lipgloss.Style
	ActivePane lipgloss.Style
	Selected   lipgloss.Style
	Cursor     lipgloss.Style
	Unselected lipgloss.Style
	Help       lipgloss.Style
	Info       lipgloss.Style
	Success    lipgloss.Style
	Error      lipgloss.Style
	Overlay    lipgloss.Style
	Alert      lipgloss.Style
}

// Theme is the active style set. Call Apply to switch it.
var Theme = New(config.New())

// New builds a style set from the theme colours in cfg.
func New(cfg *config.Config) Styles {
	c := cfg.Theme
	primary := lipgloss.Color(c.Primary)
	border := lipgloss.Color(c.Border)

	return Styles{
		App: lipgloss.NewStyle().
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		ActivePane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Success)).
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Emphasis)).
			Bold(true),
		Unselected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Info)),
		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Info)),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Success)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Error)).
			Bold(true),
		Overlay: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(primary).
			Padding(1, 2),
		Alert: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color(c.Warning)).
			Padding(1, 2),
	}
}

// Apply makes the theme from cfg the active one.
func Apply(cfg *config.Config) {
	Theme = New(cfg)
}
