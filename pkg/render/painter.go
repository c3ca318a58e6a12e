package render

import (
	"math"
	"strings"

	"github.com/rmax-ai/skillgraph/pkg/graph"
	"github.com/rmax-ai/skillgraph/pkg/highlight"
)

// Projector maps world coordinates to viewport pixels.
type Projector interface {
	ToScreen(p graph.Vec) graph.Vec
	Zoom() float64
}

// Frame is everything one paint needs.
type Frame struct {
	Bodies    []*graph.Body
	Links     []*graph.Link
	Highlight highlight.Set
	View      Projector
	Tick      int // frame counter driving particles
}

// Stats counts what a paint drew.
type Stats struct {
	Links     int
	Nodes     int
	Labels    int
	Particles int
}

// Painter draws frames with fixed styling.
type Painter struct {
	FontSize      float64 // label size in pixels
	Particles     int     // flow particles per highlighted link
	ParticleSpeed float64 // fraction of the link travelled per frame
	DimAlpha      float64 // node alpha outside the highlight
	LabelAlpha    float64 // label alpha outside the highlight
	LabelBox      Paint
}

// NewPainter returns a painter with the standard styling.
func NewPainter() *Painter {
	return &Painter{
		FontSize:      14,
		Particles:     4,
		ParticleSpeed: 0.005,
		DimAlpha:      0.6,
		LabelAlpha:    0.9,
		LabelBox:      Paint{Alpha: 0.8},
	}
}

// Paint draws links, then each node followed by its label.
func (p *Painter) Paint(c Canvas, f Frame) Stats {
	var st Stats
	byID := make(map[string]*graph.Body, len(f.Bodies))
	for _, b := range f.Bodies {
		byID[b.Node.ID] = b
	}
	zoom := f.View.Zoom()

	for _, l := range f.Links {
		src, okS := byID[l.SourceID()]
		dst, okT := byID[l.TargetID()]
		if !okS || !okT || !src.Placed || !dst.Placed {
			continue
		}
		a, b := f.View.ToScreen(src.Pos), f.View.ToScreen(dst.Pos)
		prof := graph.EdgeProfileOf(l.Category)
		lit := f.Highlight.HasLink(l.Key())

		stroke := Stroke{Paint: Hex(prof.Color, prof.Alpha), Width: 1, Dashed: prof.Dashed}
		if lit {
			stroke = Stroke{Paint: Hex(prof.HighlightColor, prof.HighlightAlpha), Width: 2, Dashed: prof.Dashed, Glow: true}
		}
		c.Line(a, b, stroke)
		st.Links++

		if !lit {
			continue
		}
		for i := 0; i < p.Particles; i++ {
			t := particleOffset(f.Tick, i, p.Particles, p.ParticleSpeed)
			c.Circle(a.Add(b.Sub(a).Scale(t)), 1, Hex(prof.HighlightColor, 1), false)
			st.Particles++
		}
	}

	for _, b := range f.Bodies {
		if !b.Placed {
			continue
		}
		lit := f.Highlight.HasNode(b.Node.ID)
		at := f.View.ToScreen(b.Pos)
		r := b.Radius() * zoom

		alpha := p.DimAlpha
		if lit {
			alpha = 1
		}
		c.Circle(at, r, Hex(b.Node.Color, alpha), lit)
		st.Nodes++
		st.Labels += p.label(c, b.Node, at, r, lit)
	}
	return st
}

// label draws the node name below the node, one line per '\n', each on a
// background box. It returns the number of lines drawn.
func (p *Painter) label(c Canvas, n *graph.Node, at graph.Vec, r float64, lit bool) int {
	style := TextStyle{
		Paint: Paint{Color: White.Color, Alpha: p.LabelAlpha},
		Size:  p.FontSize,
		Bold:  graph.ProfileOf(n.Category).BoldLabel,
	}
	if lit {
		style.Alpha = 1
	}

	lines := strings.Split(n.Name, "\n")
	for i, line := range lines {
		y := p.LabelAnchor(at, r, i).Y
		w := c.MeasureText(line, style)
		c.FillRect(at.X-w/2-4, y-p.FontSize/2-2, w+8, p.FontSize+4, p.LabelBox)
		c.Text(graph.Vec{X: at.X, Y: y}, line, style)
	}
	return len(lines)
}

// LabelAnchor returns the anchor of label line i of a node drawn at `at`
// with screen radius r.
func (p *Painter) LabelAnchor(at graph.Vec, r float64, i int) graph.Vec {
	return graph.Vec{X: at.X, Y: at.Y + r + p.FontSize + float64(i)*p.FontSize}
}

func particleOffset(tick, i, n int, speed float64) float64 {
	v := float64(tick)*speed + float64(i)/float64(n)
	return v - math.Floor(v)
}
