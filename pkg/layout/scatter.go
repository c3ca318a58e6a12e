package layout

import (
	"math"
	"math/rand"

	"github.com/rmax-ai/skillgraph/pkg/graph"
)

// Scatter radii by level.
var scatterRadius = map[int]float64{1: 200, 2: 300, 3: 400}

// ScatterKick scales the outward velocity given to scattered bodies.
const ScatterKick = 0.01

// Scatter places the visible nodes of f into equal angular sectors, one
// sector per node colour in order of first appearance. Each node lands at its
// level's scatter radius with a random offset of up to a quarter sector either
// side of the sector's base angle, and gets a small outward velocity. The
// central node goes to the centre. Angles in the result are absolute.
func Scatter(f *graph.Filtered, arena *graph.Arena, w, h float64, rng *rand.Rand) Result {
	res := Result{Angles: make(map[string]float64)}
	if f == nil || len(f.Nodes) == 0 {
		return res
	}

	ids := f.IDs()
	arena.Claim(graph.OwnerLayout, ids...)
	defer arena.Release(ids...)

	center := Center(w, h)
	var colours []string
	groups := make(map[string][]*graph.Node)
	for _, n := range f.Nodes {
		if n.Category == graph.CategoryCentral {
			if arena.Place(graph.OwnerLayout, n.ID, center) {
				res.Angles[n.ID] = 0
				res.Placed = append(res.Placed, n.ID)
			}
			continue
		}
		if _, ok := groups[n.Color]; !ok {
			colours = append(colours, n.Color)
		}
		groups[n.Color] = append(groups[n.Color], n)
	}
	if len(colours) == 0 {
		return res
	}

	sector := 2 * math.Pi / float64(len(colours))
	for i, colour := range colours {
		base := float64(i) * sector
		for _, n := range groups[colour] {
			angle := base + (rng.Float64()-0.5)*sector*0.5
			radius, ok := scatterRadius[n.Level]
			if !ok {
				radius = scatterRadius[3]
			}
			p := center.Polar(radius, angle)
			if !arena.Place(graph.OwnerLayout, n.ID, p) {
				continue
			}
			if b, ok := arena.Body(n.ID); ok {
				b.Vel = p.Sub(center).Scale(ScatterKick)
			}
			res.Angles[n.ID] = angle
			res.Placed = append(res.Placed, n.ID)
		}
	}
	return res
}
