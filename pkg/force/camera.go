package force

import (
	"math"
	"time"

	"github.com/rmax-ai/skillgraph/pkg/graph"
)

// Camera maps world coordinates to the viewport: the world point Center is
// drawn at the middle of the viewport, scaled by Zoom.
type Camera struct {
	Center graph.Vec
	Zoom   float64
}

// tween linearly interpolates one float from `from` to `to`. The clock starts
// at the first advance after creation.
type tween struct {
	from, to float64
	dur      time.Duration
	start    time.Time
	started  bool
}

func (t *tween) advance(now time.Time) (float64, bool) {
	if !t.started {
		t.start = now
		t.started = true
	}
	if t.dur <= 0 {
		return t.to, true
	}
	p := float64(now.Sub(t.start)) / float64(t.dur)
	if p >= 1 {
		return t.to, true
	}
	if p < 0 {
		p = 0
	}
	return t.from + (t.to-t.from)*p, false
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) || math.IsInf(z, 0) || z <= 0 {
		return 1
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// Zoom returns the current zoom.
func (s *Simulation) Zoom() float64 {
	return s.cam.Zoom
}

// ZoomTo animates the zoom to scale over d. The target is clamped to
// [MinZoom, MaxZoom].
func (s *Simulation) ZoomTo(scale float64, d time.Duration) {
	scale = clampZoom(scale)
	if d <= 0 {
		s.cam.Zoom = scale
		s.zoomTween = nil
		return
	}
	s.zoomTween = &tween{from: s.cam.Zoom, to: scale, dur: d}
}

// CenterAt animates the camera centre to the world point (x, y) over d.
func (s *Simulation) CenterAt(x, y float64, d time.Duration) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	if d <= 0 {
		s.cam.Center = graph.Vec{X: x, Y: y}
		s.centerTween = nil
		return
	}
	s.centerTween = &[2]tween{
		{from: s.cam.Center.X, to: x, dur: d},
		{from: s.cam.Center.Y, to: y, dur: d},
	}
}

// Camera returns the current camera.
func (s *Simulation) Camera() Camera {
	return s.cam
}

// Animating reports whether a camera tween is in flight.
func (s *Simulation) Animating() bool {
	return s.zoomTween != nil || s.centerTween != nil
}

func (s *Simulation) advanceCamera(now time.Time) {
	if s.zoomTween != nil {
		z, done := s.zoomTween.advance(now)
		s.cam.Zoom = z
		if done {
			s.zoomTween = nil
		}
	}
	if s.centerTween != nil {
		x, doneX := s.centerTween[0].advance(now)
		y, doneY := s.centerTween[1].advance(now)
		s.cam.Center = graph.Vec{X: x, Y: y}
		if doneX && doneY {
			s.centerTween = nil
		}
	}
}

// Resize sets the viewport size in pixels.
func (s *Simulation) Resize(w, h float64) {
	if w > 0 && h > 0 {
		s.width, s.height = w, h
	}
}

// Size returns the viewport size in pixels.
func (s *Simulation) Size() (float64, float64) {
	return s.width, s.height
}

// ToScreen converts a world point to viewport pixels.
func (s *Simulation) ToScreen(p graph.Vec) graph.Vec {
	return graph.Vec{
		X: (p.X-s.cam.Center.X)*s.cam.Zoom + s.width/2,
		Y: (p.Y-s.cam.Center.Y)*s.cam.Zoom + s.height/2,
	}
}

// ToWorld converts viewport pixels to a world point.
func (s *Simulation) ToWorld(p graph.Vec) graph.Vec {
	return graph.Vec{
		X: (p.X-s.width/2)/s.cam.Zoom + s.cam.Center.X,
		Y: (p.Y-s.height/2)/s.cam.Zoom + s.cam.Center.Y,
	}
}

// NodeAt returns the visible node drawn under the viewport pixel (sx, sy).
// Later nodes are drawn on top and win ties.
func (s *Simulation) NodeAt(sx, sy float64) (string, bool) {
	w := s.ToWorld(graph.Vec{X: sx, Y: sy})
	for i := len(s.bodies) - 1; i >= 0; i-- {
		b := s.bodies[i]
		if !b.Placed {
			continue
		}
		if b.Pos.Sub(w).Len() <= b.Radius()+s.hitSlop/s.cam.Zoom {
			return b.Node.ID, true
		}
	}
	return "", false
}
