// Package render turns node, edge and highlight state into draw calls on a
// Canvas, and provides a terminal cell canvas.
package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/rmax-ai/skillgraph/pkg/graph"
)

// Paint is a colour with straight alpha.
type Paint struct {
	Color colorful.Color
	Alpha float64
}

// White is opaque white.
var White = Paint{Color: colorful.Color{R: 1, G: 1, B: 1}, Alpha: 1}

// Hex parses a #rrggbb colour. Unparseable input falls back to white.
func Hex(s string, alpha float64) Paint {
	c, err := colorful.Hex(s)
	if err != nil {
		c = White.Color
	}
	return Paint{Color: c, Alpha: alpha}
}

// Over composites p onto an opaque background.
func (p Paint) Over(bg colorful.Color) colorful.Color {
	a := p.Alpha
	if a >= 1 {
		return p.Color
	}
	if a <= 0 {
		return bg
	}
	return bg.BlendRgb(p.Color, a).Clamped()
}

// Stroke styles a line.
type Stroke struct {
	Paint
	Width  float64
	Dashed bool
	Glow   bool
}

// TextStyle styles a label.
type TextStyle struct {
	Paint
	Size float64
	Bold bool
}

// Canvas is a pixel-addressed drawing surface. Coordinates are viewport
// pixels; text is centred horizontally and vertically on its anchor.
type Canvas interface {
	Size() (w, h float64)
	Line(a, b graph.Vec, s Stroke)
	Circle(c graph.Vec, r float64, p Paint, glow bool)
	FillRect(x, y, w, h float64, p Paint)
	Text(at graph.Vec, s string, st TextStyle)
	MeasureText(s string, st TextStyle) float64
}
