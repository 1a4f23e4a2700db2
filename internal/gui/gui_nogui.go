//go:build nogui

package gui

import (
	"context"

	"imgbench/internal/config"
	"imgbench/internal/errors"
	"imgbench/internal/workbench"
)

// IsGUIAvailable reports whether this build includes the GUI.
func IsGUIAvailable() bool {
	return false
}

// Run fails in builds without the GUI.
func Run(ctx context.Context, cfg *config.Config, bench *workbench.Workbench) error {
	return errors.New("GUI not available in this build, use the tui command instead")
}
