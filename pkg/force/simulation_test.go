package force

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmax-ai/skillgraph/pkg/graph"
	"github.com/rmax-ai/skillgraph/pkg/graph/graphtest"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newSim(t *testing.T, disclosed map[string]struct{}) (*Simulation, *graph.Arena, *graph.Filtered) {
	t.Helper()
	ds := graphtest.Fixture(t)
	arena := graph.NewArena(ds)
	f := ds.Filter(disclosed)
	s := New(arena, DefaultParams(), 800, 600)
	s.SetGraph(f)
	return s, arena, f
}

func TestSetGraph_SeedsUnplacedBodies(t *testing.T) {
	s, arena, f := newSim(t, nil)
	for _, id := range f.IDs() {
		p, ok := arena.Position(id)
		require.True(t, ok, id)
		assert.Less(t, p.Sub(graph.Vec{X: 400, Y: 300}).Len(), 50.0, id)
	}
	assert.Len(t, s.Bodies(), 5)
}

func TestTick_ResolvesLinkEndpoints(t *testing.T) {
	s, _, f := newSim(t, nil)
	keys := f.Keys()

	s.Tick(epoch)
	for _, l := range s.Links() {
		_, ok := l.Source.(*graph.Body)
		assert.True(t, ok)
		_, ok = l.Target.(*graph.Body)
		assert.True(t, ok)
	}
	assert.Equal(t, keys, f.Keys())
}

func TestTick_CooldownTime(t *testing.T) {
	s, _, _ := newSim(t, nil)
	s.Tick(epoch)
	s.Tick(epoch.Add(CooldownTime - time.Millisecond))
	assert.False(t, s.Stable())
	s.Tick(epoch.Add(CooldownTime))
	assert.True(t, s.Stable())
}

func TestTick_CoolsDownOnce(t *testing.T) {
	s, arena, f := newSim(t, map[string]struct{}{"toolA1": {}, "toolB1": {}})
	stops := 0
	s.OnEngineStop(func() { stops++ })

	now := epoch
	for i := 0; i < CooldownTicks+50; i++ {
		now = now.Add(10 * time.Millisecond)
		s.Tick(now)
	}
	assert.True(t, s.Stable())
	assert.Equal(t, 1, stops)

	for _, id := range f.IDs() {
		p, _ := arena.Position(id)
		assert.False(t, math.IsNaN(p.X) || math.IsInf(p.X, 0), id)
		assert.False(t, math.IsNaN(p.Y) || math.IsInf(p.Y, 0), id)
	}

	s.Reheat()
	assert.False(t, s.Stable())
	assert.Equal(t, 1.0, s.Alpha())
}

func TestTick_RespectsOwnershipAndPins(t *testing.T) {
	s, arena, _ := newSim(t, nil)

	arena.Claim(graph.OwnerRotation, "branchA")
	before, _ := arena.Position("branchA")

	arena.Pin("branchB", graph.Vec{X: 11, Y: 22})

	for i := 0; i < 10; i++ {
		s.Tick(epoch.Add(time.Duration(i) * time.Millisecond))
	}

	after, _ := arena.Position("branchA")
	assert.Equal(t, before, after)

	pinned, _ := arena.Position("branchB")
	assert.Equal(t, graph.Vec{X: 11, Y: 22}, pinned)
}

func TestPause_StopsPhysicsNotCamera(t *testing.T) {
	s, arena, _ := newSim(t, nil)
	before, _ := arena.Position("domainA")

	s.Pause()
	s.ZoomTo(2, 100*time.Millisecond)
	s.Tick(epoch)
	s.Tick(epoch.Add(200 * time.Millisecond))

	after, _ := arena.Position("domainA")
	assert.Equal(t, before, after)
	assert.Equal(t, 2.0, s.Zoom())

	s.Resume()
	assert.False(t, s.Paused())
}

func TestCameraTweens(t *testing.T) {
	s, _, _ := newSim(t, nil)

	s.ZoomTo(2, 800*time.Millisecond)
	s.CenterAt(100, 200, 800*time.Millisecond)
	assert.True(t, s.Animating())

	s.Tick(epoch)
	assert.InDelta(t, 1.0, s.Zoom(), 1e-9)

	s.Tick(epoch.Add(400 * time.Millisecond))
	assert.InDelta(t, 1.5, s.Zoom(), 1e-9)
	assert.InDelta(t, 250, s.Camera().Center.X, 1e-9)

	s.Tick(epoch.Add(800 * time.Millisecond))
	assert.Equal(t, 2.0, s.Zoom())
	assert.Equal(t, graph.Vec{X: 100, Y: 200}, s.Camera().Center)
	assert.False(t, s.Animating())
}

func TestZoomClamp(t *testing.T) {
	s, _, _ := newSim(t, nil)

	s.ZoomTo(10, 0)
	assert.Equal(t, MaxZoom, s.Zoom())
	s.ZoomTo(0.01, 0)
	assert.Equal(t, MinZoom, s.Zoom())
	s.ZoomTo(math.Inf(1), 0)
	assert.Equal(t, 1.0, s.Zoom())
}

func TestScreenWorldRoundTrip(t *testing.T) {
	s, _, _ := newSim(t, nil)
	s.ZoomTo(2.5, 0)
	s.CenterAt(-30, 70, 0)

	p := graph.Vec{X: 123, Y: -45}
	back := s.ToWorld(s.ToScreen(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)

	mid := s.ToScreen(graph.Vec{X: -30, Y: 70})
	assert.InDelta(t, 400, mid.X, 1e-9)
	assert.InDelta(t, 300, mid.Y, 1e-9)
}

func TestNodeAt(t *testing.T) {
	s, arena, _ := newSim(t, nil)
	for _, b := range arena.All() {
		b.Placed = false
	}
	arena.Place(graph.OwnerSimulation, "central", graph.Vec{X: 400, Y: 300})

	id, ok := s.NodeAt(400, 300)
	require.True(t, ok)
	assert.Equal(t, "central", id)

	_, ok = s.NodeAt(10, 10)
	assert.False(t, ok)
}

func TestParams(t *testing.T) {
	p := DefaultParams()
	boosted := p.WithChargeScale(1.5, graph.CategoryBranch)

	branch := &graph.Node{Category: graph.CategoryBranch}
	assert.Equal(t, -1000.0, p.Charge(branch))
	assert.Equal(t, -1500.0, boosted.Charge(branch))
	assert.Empty(t, p.ChargeScale, "WithChargeScale must not alias")

	half := p.Clone()
	half.LinkScale = 0.5
	assert.Equal(t, 0.4, half.LinkStrength(&graph.Link{Category: graph.EdgePrimary}))
	assert.Equal(t, 300.0, p.LinkDistance(&graph.Link{Category: graph.EdgeCross}))
}
