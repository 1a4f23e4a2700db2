package components

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"imgbench/internal/workbench"

	"github.com/charmbracelet/lipgloss"
)

const halfBlock = "▀"

// Thumbnail draws a data URL image with half-block characters, two pixel
// rows per line, fitted into cols x rows cells.
func Thumbnail(dataURL string, cols, rows int) (string, error) {
	_, data, err := workbench.DecodePreview(dataURL)
	if err != nil {
		return "", err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return renderBlocks(img, cols, rows), nil
}

func renderBlocks(img image.Image, cols, rows int) string {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || cols <= 0 || rows <= 0 {
		return ""
	}

	w := min(cols, b.Dx())
	h := w * b.Dy() / b.Dx()
	if h > rows*2 {
		h = rows * 2
		w = max(1, h*b.Dx()/b.Dy())
	}
	h = max(2, h+h%2)

	sample := func(x, y int) lipgloss.Color {
		sx := b.Min.X + x*b.Dx()/w
		sy := b.Min.Y + min(y*b.Dy()/h, b.Dy()-1)
		r, g, bl, _ := img.At(sx, sy).RGBA()
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, bl>>8))
	}

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			sb.WriteString(lipgloss.NewStyle().
				Foreground(sample(x, y)).
				Background(sample(x, y+1)).
				Render(halfBlock))
		}
		if y+2 < h {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
