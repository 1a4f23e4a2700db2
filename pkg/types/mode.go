package types

// Mode represents the pane or overlay that currently owns keyboard input
type Mode int

const (
	// Normal is the default mode: workbench actions on the preview pane
	Normal Mode = iota
	// Picking is active while the file picker is open
	Picking
	// Gallery gives focus to the remote image list
	Gallery
	// Filter is the gallery name filter input
	Filter
	// Viewer is the modal overlay showing the selected remote image
	Viewer
	// Alert is a blocking notification that must be dismissed
	Alert
	// Help shows the rendered help overlay
	Help
)

var modeNames = [...]string{"normal", "picking", "gallery", "filter", "viewer", "alert", "help"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// IsOverlay reports whether the mode draws on top of the panes.
func (m Mode) IsOverlay() bool {
	return m == Viewer || m == Alert || m == Help
}
