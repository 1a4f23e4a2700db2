// Package analysis extracts descriptive metadata from image bytes: the
// decoded format and dimensions, plus camera details from EXIF when the
// image carries them.
package analysis

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"sync"
	"time"

	"imgbench/internal/log"
	"imgbench/pkg/types"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var registerOnce sync.Once

// Describe decodes the image header and any EXIF block in data. Missing or
// unreadable metadata leaves the corresponding fields zero.
func Describe(data []byte) types.ImageInfo {
	var info types.ImageInfo
	if cfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		info.Format = format
		info.Width = cfg.Width
		info.Height = cfg.Height
	}
	info.Camera, info.Taken = readExif(data)
	return info
}

func readExif(data []byte) (camera string, taken time.Time) {
	registerOnce.Do(func() {
		exif.RegisterParsers(mknote.All...)
	})

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		log.Debugf("no EXIF data: %v", err)
		return "", time.Time{}
	}

	var parts []string
	for _, name := range []exif.FieldName{exif.Make, exif.Model} {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		if s, err := tag.StringVal(); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				parts = append(parts, s)
			}
		}
	}
	// Model usually repeats the make ("Canon" / "Canon EOS 5D").
	if len(parts) == 2 && strings.HasPrefix(parts[1], parts[0]) {
		parts = parts[1:]
	}

	if t, err := x.DateTime(); err == nil {
		taken = t
	}
	return strings.Join(parts, " "), taken
}
