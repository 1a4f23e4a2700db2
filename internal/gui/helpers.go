package gui

import (
	"fmt"
	"strings"

	"imgbench/internal/errors"
	"imgbench/internal/workbench"
	"imgbench/pkg/types"

	"github.com/dustin/go-humanize"
)

const (
	windowTitle  = "imgbench"
	noFileText   = "No image picked"
	previewAlert = "Preview"
)

// fileSummary is the caption under the preview.
func fileSummary(s workbench.State) string {
	if s.SelectedFile == nil {
		return noFileText
	}
	f := s.SelectedFile
	parts := []string{f.Name, f.MediaType, humanize.Bytes(uint64(f.Size))}
	if s.PreviewInfo.Width > 0 {
		parts = append(parts, s.PreviewInfo.Dimensions())
	}
	if s.PreviewInfo.Camera != "" {
		parts = append(parts, s.PreviewInfo.Camera)
	}
	return strings.Join(parts, " · ")
}

// galleryLabel is the text of one gallery row.
func galleryLabel(img types.RemoteImage, selectedPath string) string {
	if img.Path == selectedPath {
		return "● " + img.Name
	}
	return img.Name
}

// statusText summarises the workbench for the status line.
func statusText(s workbench.State) string {
	switch {
	case s.Uploading:
		return "Uploading..."
	case s.SelectedPath != "":
		return fmt.Sprintf("%d images · selected %s", len(s.Images), s.SelectedPath)
	default:
		return fmt.Sprintf("%d images", len(s.Images))
	}
}

// dialogTitle picks the dialog title for an error.
func dialogTitle(err error) string {
	switch errors.KindOf(err) {
	case errors.ServerUnreachable, errors.DecodeFailed:
		return "Server error"
	case errors.NoFileSelected, errors.NoSelection:
		return "Nothing selected"
	case errors.PreviewFailed:
		return previewAlert
	}
	return "Error"
}
