package types

import (
	"fmt"
	"strings"
	"time"
)

// LocalImage is a file picked from the local filesystem.
type LocalImage struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	MediaType string    `json:"media_type"` // always starts with "image/"
	Size      int64     `json:"size"`
	ModTime   time.Time `json:"mod_time"`
}

// String returns a human-readable representation
func (f LocalImage) String() string {
	return fmt.Sprintf("%s (%s, %d bytes)", f.Name, f.MediaType, f.Size)
}

// RemoteImage is one entry of the server's image listing.
type RemoteImage struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// FilterValue lets gallery entries be matched by name.
func (r RemoteImage) FilterValue() string {
	return r.Name
}

// IsAbsoluteURL reports whether Path already carries a scheme.
func (r RemoteImage) IsAbsoluteURL() bool {
	return strings.HasPrefix(r.Path, "http://") || strings.HasPrefix(r.Path, "https://")
}

// ImageInfo describes decoded image properties used by preview panes.
type ImageInfo struct {
	Format string
	Width  int
	Height int
	Camera string    // EXIF make and model, if any
	Taken  time.Time // EXIF capture time, if any
}

// Dimensions formats the size as WxH, or "?" when it could not be decoded.
func (i ImageInfo) Dimensions() string {
	if i.Width == 0 || i.Height == 0 {
		return "?"
	}
	return fmt.Sprintf("%dx%d", i.Width, i.Height)
}
