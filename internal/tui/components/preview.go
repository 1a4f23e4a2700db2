package components

import (
	"fmt"
	"strings"

	"imgbench/internal/tui/styles"
	"imgbench/internal/workbench"
	"imgbench/pkg/types"

	"github.com/dustin/go-humanize"
)

// PreviewPane renders the picked local image and its metadata.
type PreviewPane struct {
	width      int
	thumbRows  int
	cachedSrc  string
	cachedView string
}

func NewPreviewPane() *PreviewPane {
	return &PreviewPane{width: 40, thumbRows: 12}
}

func (p *PreviewPane) SetSize(width, thumbRows int) {
	if width > 0 && width != p.width {
		p.width = width
		p.cachedSrc = ""
	}
	if thumbRows > 0 && thumbRows != p.thumbRows {
		p.thumbRows = thumbRows
		p.cachedSrc = ""
	}
}

func (p *PreviewPane) View(s workbench.State) string {
	var sb strings.Builder
	sb.WriteString(styles.Theme.Title.Render("Local image"))
	sb.WriteString("\n")

	if s.SelectedFile == nil {
		sb.WriteString(styles.Theme.Unselected.Render("No image picked. Press o to open one."))
		return sb.String()
	}

	f := s.SelectedFile
	sb.WriteString(f.Name + "\n")
	meta := []string{f.MediaType, humanize.Bytes(uint64(f.Size))}
	if s.PreviewInfo.Width > 0 {
		meta = append(meta, s.PreviewInfo.Dimensions())
	}
	sb.WriteString(styles.Theme.Info.Render(strings.Join(meta, " · ")))
	sb.WriteString("\n")
	sb.WriteString(styles.Theme.Unselected.Render(fmt.Sprintf("modified %s", humanize.Time(f.ModTime))))
	sb.WriteString("\n")
	if exif := exifLine(s.PreviewInfo); exif != "" {
		sb.WriteString(styles.Theme.Unselected.Render(exif))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if !s.HasPreview() {
		sb.WriteString(styles.Theme.Unselected.Render("rendering preview..."))
		return sb.String()
	}

	sb.WriteString(p.thumbnail(s.Preview))
	return sb.String()
}

func (p *PreviewPane) thumbnail(preview string) string {
	if preview == p.cachedSrc {
		return p.cachedView
	}
	view, err := Thumbnail(preview, p.width, p.thumbRows)
	if err != nil {
		// Formats Go cannot decode (e.g. SVG) still have a valid preview.
		view = styles.Theme.Unselected.Render("(no terminal preview for this format)")
	}
	p.cachedSrc, p.cachedView = preview, view
	return view
}

func exifLine(info types.ImageInfo) string {
	var parts []string
	if info.Camera != "" {
		parts = append(parts, info.Camera)
	}
	if !info.Taken.IsZero() {
		parts = append(parts, "taken "+info.Taken.Format("2006-01-02 15:04"))
	}
	return strings.Join(parts, " · ")
}
