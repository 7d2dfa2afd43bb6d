package charts

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultWidth  = 640
	DefaultHeight = 320
	MinSize       = 120
	MaxSize       = 2048

	marginLeft   = 56.0
	marginRight  = 16.0
	marginTop    = 36.0
	marginBottom = 40.0

	barColor  = "#4c78a8"
	axisColor = "#333333"
	gridColor = "#dddddd"
)

// BarChart is a single-series bar chart. Labels and Values are parallel.
type BarChart struct {
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Size is a chart canvas size in pixels.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Normalized returns the size with defaults for zero values and bounds applied.
func (s Size) Normalized() Size {
	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultHeight
	}
	s.Width = min(max(s.Width, MinSize), MaxSize)
	s.Height = min(max(s.Height, MinSize), MaxSize)
	return s
}

type textAnchor string

const (
	anchorStart  textAnchor = "start"
	anchorMiddle textAnchor = "middle"
	anchorEnd    textAnchor = "end"
)

type label struct {
	x, y   float64
	text   string
	anchor textAnchor
}

type rect struct {
	x, y, w, h float64
	fill       string
}

type line struct {
	x1, y1, x2, y2 float64
	stroke         string
}

// layout is the geometry shared by the SVG and PNG renderers.
type layout struct {
	size   Size
	rects  []rect
	lines  []line
	labels []label
}

func formatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e9 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (c *BarChart) layout(size Size) layout {
	size = size.Normalized()
	out := layout{size: size}
	w, h := float64(size.Width), float64(size.Height)
	plotW := w - marginLeft - marginRight
	plotH := h - marginTop - marginBottom

	out.labels = append(out.labels, label{x: w / 2, y: 22, text: c.Title, anchor: anchorMiddle})

	n := min(len(c.Labels), len(c.Values))
	if n == 0 {
		out.labels = append(out.labels, label{x: w / 2, y: marginTop + plotH/2, text: "no data", anchor: anchorMiddle})
		return out
	}

	// The value axis always includes zero so negative bars hang below it.
	lo, hi := 0.0, 0.0
	for _, v := range c.Values[:n] {
		if !finite(v) {
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
		hi = lo + 1
	}
	toY := func(v float64) float64 {
		return marginTop + (hi-v)/span*plotH
	}
	zeroY := toY(0)

	for _, tick := range []float64{hi, lo} {
		y := toY(tick)
		out.lines = append(out.lines, line{x1: marginLeft, y1: y, x2: w - marginRight, y2: y, stroke: gridColor})
		out.labels = append(out.labels, label{x: marginLeft - 6, y: y + 4, text: formatValue(tick), anchor: anchorEnd})
	}

	slot := plotW / float64(n)
	barW := slot * 0.7
	// Skip labels when they would overlap; basicfont glyphs are 7px wide.
	labelEvery := 1
	if widest := maxLabelWidth(c.Labels[:n]); widest > 0 {
		labelEvery = max(1, int(math.Ceil(widest/slot)))
	}

	for i := 0; i < n; i++ {
		x := marginLeft + float64(i)*slot + (slot-barW)/2
		v := c.Values[i]
		if finite(v) && v != 0 {
			top, bottom := toY(max(v, 0)), toY(min(v, 0))
			out.rects = append(out.rects, rect{x: x, y: top, w: barW, h: bottom - top, fill: barColor})
		}
		if i%labelEvery == 0 {
			out.labels = append(out.labels, label{x: x + barW/2, y: h - marginBottom + 16, text: c.Labels[i], anchor: anchorMiddle})
		}
	}

	out.lines = append(out.lines,
		line{x1: marginLeft, y1: zeroY, x2: w - marginRight, y2: zeroY, stroke: axisColor},
		line{x1: marginLeft, y1: marginTop, x2: marginLeft, y2: h - marginBottom, stroke: axisColor},
	)
	return out
}

func maxLabelWidth(labels []string) float64 {
	widest := 0
	for _, l := range labels {
		widest = max(widest, len([]rune(l)))
	}
	return float64(widest*glyphWidth + 4)
}

// SVG renders the chart as a standalone SVG document.
func (c *BarChart) SVG(size Size) []byte {
	l := c.layout(size)

	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		l.size.Width, l.size.Height, l.size.Width, l.size.Height))
	b.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="#ffffff"/>`, l.size.Width, l.size.Height))
	for _, ln := range l.lines {
		b.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"/>`,
			ln.x1, ln.y1, ln.x2, ln.y2, ln.stroke))
	}
	for _, r := range l.rects {
		b.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`,
			r.x, r.y, r.w, r.h, r.fill))
	}
	for _, lb := range l.labels {
		b.WriteString(fmt.Sprintf(`<text x="%.2f" y="%.2f" text-anchor="%s" font-family="sans-serif" font-size="12" fill="%s">%s</text>`,
			lb.x, lb.y, lb.anchor, axisColor, html.EscapeString(lb.text)))
	}
	b.WriteString(`</svg>`)
	return []byte(b.String())
}
