package gui

import (
	"testing"

	"imgbench/internal/errors"
	"imgbench/internal/workbench"
	"imgbench/pkg/types"

	"github.com/stretchr/testify/assert"
)

func TestFileSummary(t *testing.T) {
	assert.Equal(t, noFileText, fileSummary(workbench.State{}))

	s := workbench.State{
		SelectedFile: &types.LocalImage{Name: "cat.png", MediaType: "image/png", Size: 1500},
		PreviewInfo:  types.ImageInfo{Format: "png", Width: 4, Height: 3},
	}
	assert.Equal(t, "cat.png · image/png · 1.5 kB · 4x3", fileSummary(s))

	s.PreviewInfo.Camera = "TestCam"
	assert.Equal(t, "cat.png · image/png · 1.5 kB · 4x3 · TestCam", fileSummary(s))
}

func TestGalleryLabel(t *testing.T) {
	img := types.RemoteImage{Name: "a.png", Path: "/imgs/a.png"}
	assert.Equal(t, "a.png", galleryLabel(img, ""))
	assert.Equal(t, "● a.png", galleryLabel(img, "/imgs/a.png"))
}

func TestStatusText(t *testing.T) {
	images := []types.RemoteImage{{Name: "a.png", Path: "/imgs/a.png"}}
	assert.Equal(t, "0 images", statusText(workbench.State{}))
	assert.Equal(t, "1 images · selected /imgs/a.png", statusText(workbench.State{Images: images, SelectedPath: "/imgs/a.png"}))
	assert.Equal(t, "Uploading...", statusText(workbench.State{Uploading: true}))
}

func TestDialogTitle(t *testing.T) {
	assert.Equal(t, "Server error", dialogTitle(errors.ErrServerUnreachable))
	assert.Equal(t, "Server error", dialogTitle(errors.ErrDecode))
	assert.Equal(t, "Nothing selected", dialogTitle(errors.ErrNoFileSelected))
	assert.Equal(t, "Error", dialogTitle(errors.New("boom")))
}
