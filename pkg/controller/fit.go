package controller

import (
	"math"

	"github.com/rmax-ai/skillgraph/pkg/graph"
)

// Fit is the camera target computed by zoom-to-fit.
type Fit struct {
	Center graph.Vec
	Scale  float64
	Min    graph.Vec // bounding box, inflated by node radius
	Max    graph.Vec
}

// minContentSize keeps a single-node box from dividing by zero.
const minContentSize = 1.0

// ComputeFit returns the camera target that frames every placed body in a
// w×h viewport with padding on each side, capped at maxScale. It reports
// false when no body is placed.
func ComputeFit(bodies []*graph.Body, w, h, padding, maxScale float64) (Fit, bool) {
	fit := Fit{
		Min: graph.Vec{X: math.Inf(1), Y: math.Inf(1)},
		Max: graph.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	n := 0
	for _, b := range bodies {
		if !b.Placed || !finite(b.Pos) {
			continue
		}
		r := b.Radius()
		fit.Min.X = math.Min(fit.Min.X, b.Pos.X-r)
		fit.Min.Y = math.Min(fit.Min.Y, b.Pos.Y-r)
		fit.Max.X = math.Max(fit.Max.X, b.Pos.X+r)
		fit.Max.Y = math.Max(fit.Max.Y, b.Pos.Y+r)
		n++
	}
	if n == 0 {
		return Fit{Scale: 1}, false
	}

	contentW := math.Max(fit.Max.X-fit.Min.X, minContentSize) + padding*2
	contentH := math.Max(fit.Max.Y-fit.Min.Y, minContentSize) + padding*2
	sx := (w - padding*2) / contentW
	sy := (h - padding*2) / contentH

	fit.Scale = math.Min(math.Min(sx, sy), maxScale)
	if math.IsNaN(fit.Scale) || math.IsInf(fit.Scale, 0) || fit.Scale <= 0 {
		fit.Scale = 1
	}
	fit.Center = graph.Vec{X: (fit.Min.X + fit.Max.X) / 2, Y: (fit.Min.Y + fit.Max.Y) / 2}
	return fit, true
}

func finite(v graph.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
