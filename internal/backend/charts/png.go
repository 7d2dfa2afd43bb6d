package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"strings"
	"unicode"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const glyphWidth = 7

var textColor = color.RGBA{0x33, 0x33, 0x33, 0xff}

// PNG rasterizes the chart. Shapes go through the SVG renderer; oksvg does
// not draw <text>, so labels are painted afterwards with a bitmap font. The
// font covers ASCII only, so labels are folded to ASCII first ("números"
// becomes "numeros").
func (c *BarChart) PNG(size Size) ([]byte, error) {
	l := c.layout(size)
	svg := c.SVG(size)

	slog.Debug("BarChart: rasterizing", "title", c.Title, "width", l.size.Width, "height", l.size.Height)
	canvas, err := rasterizeSVG(svg, l.size.Width, l.size.Height)
	if err != nil {
		slog.Error("BarChart: failed to rasterize chart", "title", c.Title, "error", err)
		return nil, err
	}
	drawLabels(canvas, l.labels)

	var buf bytes.Buffer
	buf.Grow(l.size.Width * l.size.Height)
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode chart as PNG: %w", err)
	}
	slog.Debug("BarChart: PNG render complete", "title", c.Title, "output_size_bytes", buf.Len())
	return buf.Bytes(), nil
}

func createTargetCanvas(width, height int, background color.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	return dst
}

// rasterizeSVG renders an SVG byte slice onto a white canvas of the given size.
func rasterizeSVG(svgData []byte, targetW, targetH int) (*image.RGBA, error) {
	if targetW <= 0 || targetH <= 0 {
		return nil, fmt.Errorf("invalid target dimensions for SVG rendering: %dx%d", targetW, targetH)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}

	icon.SetTarget(0, 0, float64(targetW), float64(targetH))

	dst := createTargetCanvas(targetW, targetH, color.RGBA{255, 255, 255, 255})

	scanner := rasterx.NewScannerGV(targetW, targetH, dst, dst.Bounds())
	dasher := rasterx.NewDasher(targetW, targetH, scanner)
	icon.Draw(dasher, 1.0)
	return dst, nil
}

func drawLabels(dst draw.Image, labels []label) {
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
	}
	for _, lb := range labels {
		lb.text = asciiFold(lb.text)
		x := lb.x
		width := float64(drawer.MeasureString(lb.text).Round())
		switch lb.anchor {
		case anchorMiddle:
			x -= width / 2
		case anchorEnd:
			x -= width
		}
		drawer.Dot = fixed.P(int(x), int(lb.y))
		drawer.DrawString(lb.text)
	}
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// asciiFold drops diacritics and replaces any other non-ASCII rune with '?'.
func asciiFold(text string) string {
	folded, _, err := transform.String(stripMarks, text)
	if err != nil {
		folded = text
	}
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return '?'
		}
		return r
	}, folded)
}
