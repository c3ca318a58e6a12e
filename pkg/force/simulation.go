package force

import (
	"math"
	"time"

	"github.com/rmax-ai/skillgraph/pkg/graph"
	"github.com/rmax-ai/skillgraph/pkg/metrics"
)

// Option configures a Simulation.
type Option func(*Simulation)

// WithHitSlop widens hit testing by px viewport pixels around each node.
func WithHitSlop(px float64) Option {
	return func(s *Simulation) { s.hitSlop = px }
}

// Simulation steps the visible bodies of an arena. It only ever writes bodies
// the arena says it owns; pinned bodies are held at their pin.
type Simulation struct {
	arena  *graph.Arena
	params Params

	bodies []*graph.Body
	links  []*graph.Link
	degree map[string]int

	alpha    float64
	ticks    int
	heatedAt time.Time // first tick since the last reheat
	paused   bool
	stopped  bool
	onStop   []func()

	width, height float64
	cam           Camera
	zoomTween     *tween
	centerTween   *[2]tween
	hitSlop       float64
}

// New creates a hot simulation over arena for a w×h viewport.
func New(arena *graph.Arena, p Params, w, h float64, opts ...Option) *Simulation {
	s := &Simulation{
		arena:   arena,
		params:  p.Clone(),
		alpha:   1,
		width:   800,
		height:  600,
		cam:     Camera{Zoom: 1},
		hitSlop: 4,
	}
	s.Resize(w, h)
	s.cam.Center = graph.Vec{X: s.width / 2, Y: s.height / 2}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetGraph replaces the simulated graph. Bodies that were never placed are
// seeded on a phyllotaxis spiral around the viewport centre.
func (s *Simulation) SetGraph(f *graph.Filtered) {
	s.bodies = s.arena.Bodies(f.IDs())
	s.links = f.Links
	s.degree = make(map[string]int, len(s.bodies))
	for _, l := range s.links {
		s.degree[l.SourceID()]++
		s.degree[l.TargetID()]++
	}

	center := graph.Vec{X: s.width / 2, Y: s.height / 2}
	for i, b := range s.bodies {
		if b.Placed {
			continue
		}
		r := 10 * math.Sqrt(0.5+float64(i))
		theta := float64(i) * math.Pi * (3 - math.Sqrt(5))
		s.arena.Place(graph.OwnerSimulation, b.Node.ID, center.Polar(r, theta))
	}
}

// Bodies returns the simulated bodies in draw order.
func (s *Simulation) Bodies() []*graph.Body {
	return s.bodies
}

// Links returns the simulated links. After the first step their endpoints
// are resolved bodies.
func (s *Simulation) Links() []*graph.Link {
	return s.links
}

// Params returns a copy of the current force parameters.
func (s *Simulation) Params() Params {
	return s.params.Clone()
}

// SetParams replaces the force parameters. It does not reheat.
func (s *Simulation) SetParams(p Params) {
	s.params = p.Clone()
}

// Reheat restarts cooling from full temperature.
func (s *Simulation) Reheat() {
	s.alpha = 1
	s.ticks = 0
	s.heatedAt = time.Time{}
	s.stopped = false
}

// Pause stops physics steps. Camera animation continues.
func (s *Simulation) Pause() { s.paused = true }

// Resume restarts physics steps.
func (s *Simulation) Resume() { s.paused = false }

// Paused reports whether physics is paused.
func (s *Simulation) Paused() bool { return s.paused }

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Stable reports whether the simulation has cooled down.
func (s *Simulation) Stable() bool { return s.stopped }

// OnEngineStop registers fn to run each time the simulation cools down.
func (s *Simulation) OnEngineStop(fn func()) {
	s.onStop = append(s.onStop, fn)
}

// Tick advances camera tweens to now and, unless paused or cooled down,
// performs one physics step. The simulation cools down after CooldownTicks
// steps or CooldownTime, whichever comes first.
func (s *Simulation) Tick(now time.Time) {
	s.advanceCamera(now)
	if s.paused || s.stopped {
		return
	}

	if s.heatedAt.IsZero() {
		s.heatedAt = now
	}
	s.step()
	s.ticks++
	metrics.SimulationTicksTotal.Inc()
	metrics.SimulationAlpha.Set(s.alpha)

	if s.alpha < AlphaMin || s.ticks >= CooldownTicks || now.Sub(s.heatedAt) >= CooldownTime {
		s.stopped = true
		metrics.EngineStopsTotal.Inc()
		for _, fn := range s.onStop {
			fn()
		}
	}
}

func (s *Simulation) step() {
	s.alpha += (0 - s.alpha) * AlphaDecay
	s.resolveLinks()

	s.applyLinks()
	s.applyCharge()
	s.applyRadial()

	for _, b := range s.bodies {
		if b.Owner() != graph.OwnerSimulation {
			continue
		}
		if b.Pin != nil {
			b.Vel = graph.Vec{}
			s.arena.Place(graph.OwnerSimulation, b.Node.ID, *b.Pin)
			continue
		}
		b.Vel = b.Vel.Scale(1 - VelocityDecay)
		s.arena.Place(graph.OwnerSimulation, b.Node.ID, b.Pos.Add(b.Vel))
	}

	s.applyCenter()
}

// resolveLinks rewrites raw id endpoints to bodies, in place.
func (s *Simulation) resolveLinks() {
	for _, l := range s.links {
		if _, ok := l.Source.(graph.ID); ok {
			if b, found := s.arena.Body(l.SourceID()); found {
				l.Source = b
			}
		}
		if _, ok := l.Target.(graph.ID); ok {
			if b, found := s.arena.Body(l.TargetID()); found {
				l.Target = b
			}
		}
	}
}

func (s *Simulation) movable(b *graph.Body) bool {
	return b.Owner() == graph.OwnerSimulation && b.Pin == nil
}

func (s *Simulation) applyLinks() {
	for _, l := range s.links {
		src, okS := l.Source.(*graph.Body)
		dst, okT := l.Target.(*graph.Body)
		if !okS || !okT || src == dst {
			continue
		}
		d := dst.Pos.Add(dst.Vel).Sub(src.Pos.Add(src.Vel))
		length := d.Len()
		if length == 0 {
			d = graph.Vec{X: 1e-6, Y: 1e-6}
			length = d.Len()
		}
		k := (length - s.params.LinkDistance(l)) / length * s.alpha * s.params.LinkStrength(l)
		d = d.Scale(k)

		ds, dt := float64(s.degree[src.Node.ID]), float64(s.degree[dst.Node.ID])
		bias := ds / (ds + dt)
		if s.movable(dst) {
			dst.Vel = dst.Vel.Sub(d.Scale(bias))
		}
		if s.movable(src) {
			src.Vel = src.Vel.Add(d.Scale(1 - bias))
		}
	}
}

func (s *Simulation) applyCharge() {
	max2 := s.params.DistanceMax * s.params.DistanceMax
	for _, b := range s.bodies {
		if !s.movable(b) {
			continue
		}
		for _, o := range s.bodies {
			if o == b {
				continue
			}
			d := o.Pos.Sub(b.Pos)
			l := d.X*d.X + d.Y*d.Y
			if l >= max2 {
				continue
			}
			if l < 1 {
				l = 1
			}
			b.Vel = b.Vel.Add(d.Scale(s.params.Charge(o.Node) * s.alpha / l))
		}
	}
}

func (s *Simulation) applyRadial() {
	center := graph.Vec{X: s.width / 2, Y: s.height / 2}
	for _, b := range s.bodies {
		if !s.movable(b) {
			continue
		}
		d := b.Pos.Sub(center)
		r := d.Len()
		if r == 0 {
			continue
		}
		k := (s.params.RadialRadius(b.Node) - r) * s.params.RadialStrength(b.Node) * s.alpha / r
		b.Vel = b.Vel.Add(d.Scale(k))
	}
}

// applyCenter shifts the movable bodies so their mean drifts toward the
// viewport centre.
func (s *Simulation) applyCenter() {
	var sum graph.Vec
	n := 0
	for _, b := range s.bodies {
		if !s.movable(b) {
			continue
		}
		sum = sum.Add(b.Pos)
		n++
	}
	if n == 0 || s.params.Center == 0 {
		return
	}
	center := graph.Vec{X: s.width / 2, Y: s.height / 2}
	shift := sum.Scale(1 / float64(n)).Sub(center).Scale(s.params.Center)
	for _, b := range s.bodies {
		if s.movable(b) {
			s.arena.Place(graph.OwnerSimulation, b.Node.ID, b.Pos.Sub(shift))
		}
	}
}
