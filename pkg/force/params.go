// Package force is an in-process force simulation over a graph.Arena with a
// 2D camera: link, many-body, centering and radial forces, reheat and
// cool-down, pause/resume, animated zoom/centre and hit testing.
package force

import (
	"time"

	"github.com/rmax-ai/skillgraph/pkg/graph"
)

// Cooling constants.
const (
	AlphaDecay    = 0.008
	VelocityDecay = 0.15
	AlphaMin      = 0.001
	CooldownTicks = 300
	CooldownTime  = 5 * time.Second
)

// Zoom bounds.
const (
	MinZoom = 0.1
	MaxZoom = 4.0
)

// Params are the tunable force strengths. Per-category values come from the
// graph profile tables; Params scales them.
type Params struct {
	LinkScale   float64                    // multiplies every link strength
	ChargeScale map[graph.Category]float64 // per node category, missing means 1
	DistanceMax float64                    // many-body cut-off
	Center      float64                    // centering strength
}

// DefaultParams returns the unscaled profile forces.
func DefaultParams() Params {
	return Params{
		LinkScale:   1,
		ChargeScale: map[graph.Category]float64{},
		DistanceMax: graph.ChargeDistanceMax,
		Center:      graph.CenterStrength,
	}
}

// Clone returns a deep copy of p.
func (p Params) Clone() Params {
	out := p
	out.ChargeScale = make(map[graph.Category]float64, len(p.ChargeScale))
	for k, v := range p.ChargeScale {
		out.ChargeScale[k] = v
	}
	return out
}

// WithChargeScale returns a copy of p with every listed category scaled by k.
func (p Params) WithChargeScale(k float64, cats ...graph.Category) Params {
	out := p.Clone()
	for _, c := range cats {
		out.ChargeScale[c] = k
	}
	return out
}

// Charge returns the many-body strength of n.
func (p Params) Charge(n *graph.Node) float64 {
	k, ok := p.ChargeScale[n.Category]
	if !ok {
		k = 1
	}
	return graph.ProfileOf(n.Category).Charge * k
}

// LinkStrength returns the spring strength of l.
func (p Params) LinkStrength(l *graph.Link) float64 {
	return graph.EdgeProfileOf(l.Category).Strength * p.LinkScale
}

// LinkDistance returns the rest length of l.
func (p Params) LinkDistance(l *graph.Link) float64 {
	return graph.EdgeProfileOf(l.Category).Distance
}

// RadialRadius returns the target distance of n from the centre.
func (p Params) RadialRadius(n *graph.Node) float64 {
	return graph.ProfileOf(n.Category).RadialRadius
}

// RadialStrength returns the pull of n toward its radial radius.
func (p Params) RadialStrength(n *graph.Node) float64 {
	return graph.ProfileOf(n.Category).RadialStrength
}
