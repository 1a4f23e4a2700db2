package workbench

import (
	"context"

	"imgbench/internal/errors"
	"imgbench/internal/log"
	"imgbench/pkg/types"
)

// Refresh fetches the remote listing and replaces the gallery in one step.
// If the selected path is gone from the new listing the selection is
// cleared and the viewer closed. On failure the previous listing stays.
func (w *Workbench) Refresh(ctx context.Context) ([]types.RemoteImage, error) {
	images, err := w.transport.List(ctx)
	if err != nil {
		w.logger().With(log.F("error", err)).Error("gallery refresh failed")
		return nil, err
	}

	w.mu.Lock()
	w.state.Images = images
	if w.state.SelectedPath != "" && !containsPath(images, w.state.SelectedPath) {
		w.logger().With(log.F("path", w.state.SelectedPath)).Info("selection no longer listed, clearing")
		w.state.SelectedPath = ""
		w.state.ViewerOpen = false
	}
	w.mu.Unlock()

	w.logger().With(log.F("count", len(images))).Info("gallery refreshed")
	return append([]types.RemoteImage(nil), images...), nil
}

// Select marks path as the selected gallery image. Paths that are not in
// the current listing are ignored and false is returned.
func (w *Workbench) Select(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !containsPath(w.state.Images, path) {
		return false
	}
	w.state.SelectedPath = path
	return true
}

// SelectedPath returns the selected gallery path, or "".
func (w *Workbench) SelectedPath() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state.SelectedPath
}

// OpenViewer shows the selected image; without a selection it fails with
// ErrNoSelection and the viewer stays closed.
func (w *Workbench) OpenViewer() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.SelectedPath == "" {
		return errors.ErrNoSelection
	}
	w.state.ViewerOpen = true
	return nil
}

// CloseViewer hides the viewer.
func (w *Workbench) CloseViewer() {
	w.mu.Lock()
	w.state.ViewerOpen = false
	w.mu.Unlock()
}

// ViewerOpen reports whether the viewer is showing.
func (w *Workbench) ViewerOpen() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state.ViewerOpen
}

// ViewerSource returns the loadable URL of the image the viewer shows.
func (w *Workbench) ViewerSource() (string, bool) {
	w.mu.RLock()
	path, open := w.state.SelectedPath, w.state.ViewerOpen
	w.mu.RUnlock()
	if !open {
		return "", false
	}
	return w.transport.ResolveImageURL(path), true
}

// Entry returns the listed entry for path.
func (w *Workbench) Entry(path string) (types.RemoteImage, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, img := range w.state.Images {
		if img.Path == path {
			return img, true
		}
	}
	return types.RemoteImage{}, false
}

func containsPath(images []types.RemoteImage, path string) bool {
	for _, img := range images {
		if img.Path == path {
			return true
		}
	}
	return false
}
