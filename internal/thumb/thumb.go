// Package thumb turns decoded images into terminal thumbnails drawn with
// upper half-block cells, two pixel rows per text row.
package thumb

import (
	"fmt"
	"image"
	"strings"

	"github.com/atomicstack/image-transfer/internal/codec"
	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
)

const halfBlock = "▀"

// Texture is a render-ready thumbnail.
type Texture struct {
	Lines []string
	// Cols and Rows are the size in terminal cells.
	Cols int
	Rows int
}

// String joins the rows.
func (t Texture) String() string {
	return strings.Join(t.Lines, "\n")
}

// IsZero reports whether nothing was rendered.
func (t Texture) IsZero() bool {
	return len(t.Lines) == 0
}

// Render scales img to fit within cols x rows cells, keeping its aspect
// ratio, and never upscaling.
func Render(img *codec.Image, cols, rows int) Texture {
	if img == nil || img.Validate() != nil || cols <= 0 || rows <= 0 {
		return Texture{}
	}
	var src image.Image = img.NRGBA()
	if img.Width > cols || img.Height > rows*2 {
		src = imaging.Fit(src, cols, rows*2, imaging.Box)
	}
	nrgba := imaging.Clone(src)
	b := nrgba.Bounds()
	w, h := b.Dx(), b.Dy()

	lines := make([]string, 0, (h+1)/2)
	for y := 0; y < h; y += 2 {
		var sb strings.Builder
		for x := 0; x < w; x++ {
			top := colorAt(nrgba, x, y)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(top))
			if y+1 < h {
				style = style.Background(lipgloss.Color(colorAt(nrgba, x, y+1)))
			}
			sb.WriteString(style.Render(halfBlock))
		}
		lines = append(lines, sb.String())
	}
	return Texture{Lines: lines, Cols: w, Rows: len(lines)}
}

// colorAt returns the pixel composited over black as a hex colour.
func colorAt(img *image.NRGBA, x, y int) string {
	c := img.NRGBAAt(x, y)
	a := uint32(c.A)
	r := uint32(c.R) * a / 255
	g := uint32(c.G) * a / 255
	bl := uint32(c.B) * a / 255
	return fmt.Sprintf("#%02x%02x%02x", r, g, bl)
}
