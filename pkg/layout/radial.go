// Package layout assigns positions to visible nodes: a deterministic
// parent-relative radial layout, and the sector scatter used by explode.
package layout

import (
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/rmax-ai/skillgraph/pkg/graph"
)

// Fallback viewport used when the host reports a degenerate size.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
)

// Config holds the radial layout geometry.
type Config struct {
	BranchRadius float64 // branches around the centre
	DomainRadius float64 // domains around their branch
	ToolRadius   float64 // tools around their domain
	AngleOffset  float64 // angle of the first branch
	DomainArc    float64 // total arc domains are spread over
}

// DefaultConfig returns the standard geometry.
func DefaultConfig() Config {
	return Config{
		BranchRadius: 500,
		DomainRadius: 350,
		ToolRadius:   300,
		AngleOffset:  math.Pi / 2,
		DomainArc:    math.Pi / 2,
	}
}

// Result describes one layout pass.
type Result struct {
	Angles  map[string]float64 // polar angle relative to the parent, by id
	Placed  []string           // ids written, in placement order
	Skipped []string           // visible ids left at their previous position
}

// Radial is the parent-relative polar layout.
type Radial struct {
	cfg Config
}

// NewRadial returns a layout with cfg. Zero fields take their default.
func NewRadial(cfg Config) *Radial {
	def := DefaultConfig()
	if cfg.BranchRadius <= 0 {
		cfg.BranchRadius = def.BranchRadius
	}
	if cfg.DomainRadius <= 0 {
		cfg.DomainRadius = def.DomainRadius
	}
	if cfg.ToolRadius <= 0 {
		cfg.ToolRadius = def.ToolRadius
	}
	if cfg.DomainArc <= 0 {
		cfg.DomainArc = def.DomainArc
	}
	return &Radial{cfg: cfg}
}

// Config returns the effective geometry.
func (r *Radial) Config() Config {
	return r.cfg
}

// Apply positions every visible node of f in arena for a w×h viewport.
// The layout takes ownership of the visible bodies, clears their pins,
// writes, and hands them back to the simulation. The caller reheats.
func (r *Radial) Apply(f *graph.Filtered, arena *graph.Arena, w, h float64) Result {
	res := Result{Angles: make(map[string]float64)}
	if f == nil || len(f.Nodes) == 0 {
		return res
	}

	ids := f.IDs()
	arena.Claim(graph.OwnerLayout, ids...)
	arena.Unpin(ids...)
	defer arena.Release(ids...)

	center := Center(w, h)
	placed := make(map[string]struct{}, len(ids))
	place := func(id string, p graph.Vec, angle float64) {
		if arena.Place(graph.OwnerLayout, id, p) {
			placed[id] = struct{}{}
			res.Angles[id] = angle
			res.Placed = append(res.Placed, id)
		}
	}

	var branches, domains, tools []*graph.Node
	for _, n := range f.Nodes {
		switch n.Category {
		case graph.CategoryCentral:
			place(n.ID, center, 0)
		case graph.CategoryBranch:
			branches = append(branches, n)
		case graph.CategoryDomain:
			domains = append(domains, n)
		case graph.CategoryTool:
			tools = append(tools, n)
		}
	}

	step := 2 * math.Pi / float64(max(len(branches), 1))
	for i, n := range branches {
		angle := r.cfg.AngleOffset + float64(i)*step
		place(n.ID, center.Polar(r.cfg.BranchRadius, angle), angle)
	}

	// Domains grouped under their branch, branches in order of first child.
	parents := parentIndex(f)
	var order []string
	groups := make(map[string][]*graph.Node)
	for _, n := range domains {
		p, ok := parents[n.ID]
		if !ok || p.category != graph.EdgeBranch {
			continue
		}
		if _, ok := placed[p.id]; !ok {
			continue
		}
		if _, seen := groups[p.id]; !seen {
			order = append(order, p.id)
		}
		groups[p.id] = append(groups[p.id], n)
	}
	for _, pid := range order {
		children := groups[pid]
		origin, _ := arena.Position(pid)
		base := res.Angles[pid]
		for i, n := range children {
			angle := arcAngle(base, r.cfg.DomainArc, i, len(children))
			place(n.ID, origin.Polar(r.cfg.DomainRadius, angle), angle)
		}
	}

	for _, n := range tools {
		p, ok := parents[n.ID]
		if !ok || p.category != graph.EdgeTool {
			continue
		}
		origin, ok := arena.Position(p.id)
		if !ok {
			continue
		}
		angle := HashUnit(n.ID) * 2 * math.Pi
		place(n.ID, origin.Polar(r.cfg.ToolRadius, angle), angle)
	}

	for _, id := range ids {
		if _, ok := placed[id]; !ok {
			res.Skipped = append(res.Skipped, id)
		}
	}
	return res
}

type parentLink struct {
	id       string
	category graph.EdgeCategory
}

// parentIndex maps each visible node to the first hierarchical link targeting
// it whose source is also visible. Cross links and dangling endpoints are ignored.
func parentIndex(f *graph.Filtered) map[string]parentLink {
	out := make(map[string]parentLink)
	for _, l := range f.Links {
		if !l.Category.Hierarchical() {
			continue
		}
		src, dst := l.SourceID(), l.TargetID()
		if !f.Has(src) || !f.Has(dst) {
			continue
		}
		if _, ok := out[dst]; ok {
			continue
		}
		out[dst] = parentLink{id: src, category: l.Category}
	}
	return out
}

// arcAngle spreads n children evenly across arc, centred on base.
func arcAngle(base, arc float64, i, n int) float64 {
	if n <= 1 {
		return base
	}
	return base - arc/2 + float64(i)*arc/float64(n-1)
}

// Center returns the viewport centre, falling back to the default viewport
// when either dimension is not positive.
func Center(w, h float64) graph.Vec {
	if w <= 0 || h <= 0 || math.IsNaN(w) || math.IsNaN(h) {
		w, h = DefaultWidth, DefaultHeight
	}
	return graph.Vec{X: w / 2, Y: h / 2}
}

// HashUnit maps id to a stable value in [0, 1).
func HashUnit(id string) float64 {
	return float64(xxhash.Sum64String(id)>>11) / (1 << 53)
}
