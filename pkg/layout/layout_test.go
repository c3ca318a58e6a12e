package layout

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmax-ai/skillgraph/pkg/graph"
	"github.com/rmax-ai/skillgraph/pkg/graph/graphtest"
)

func disclosedAll(ds *graph.Dataset) map[string]struct{} {
	set := make(map[string]struct{})
	for _, id := range ds.Tools() {
		set[id] = struct{}{}
	}
	return set
}

func distance(a, b graph.Vec) float64 {
	return a.Sub(b).Len()
}

func TestApply_Geometry(t *testing.T) {
	ds := graphtest.Fixture(t)
	f := ds.Filter(disclosedAll(ds))
	arena := graph.NewArena(ds)

	r := NewRadial(DefaultConfig())
	res := r.Apply(f, arena, 1000, 800)
	require.Empty(t, res.Skipped)
	assert.Len(t, res.Placed, 8)

	center := graph.Vec{X: 500, Y: 400}
	pos := func(id string) graph.Vec {
		p, ok := arena.Position(id)
		require.True(t, ok, "%s not placed", id)
		return p
	}

	assert.Equal(t, center, pos("central"))
	assert.InDelta(t, 500, distance(center, pos("branchA")), 1e-9)
	assert.InDelta(t, math.Pi/2, res.Angles["branchA"], 1e-9)
	assert.InDelta(t, math.Pi/2+math.Pi, res.Angles["branchB"], 1e-9)

	// A single domain sits on its branch's angle, relative to the branch.
	assert.InDelta(t, res.Angles["branchA"], res.Angles["domainA"], 1e-9)
	assert.InDelta(t, 350, distance(pos("branchA"), pos("domainA")), 1e-9)

	for _, id := range []string{"toolA1", "toolA2"} {
		assert.InDelta(t, 300, distance(pos("domainA"), pos(id)), 1e-9)
		assert.InDelta(t, HashUnit(id)*2*math.Pi, res.Angles[id], 1e-12)
	}
}

func TestApply_Deterministic(t *testing.T) {
	ds := graphtest.Fixture(t)
	f := ds.Filter(disclosedAll(ds))
	r := NewRadial(DefaultConfig())

	a, b := graph.NewArena(ds), graph.NewArena(ds)
	first := r.Apply(f, a, 900, 700)
	second := r.Apply(ds.Filter(disclosedAll(ds)), b, 900, 700)

	assert.Equal(t, first.Angles, second.Angles)
	for _, id := range ds.Tools() {
		pa, _ := a.Position(id)
		pb, _ := b.Position(id)
		assert.Equal(t, pa, pb)
	}
}

func TestApply_HandsBodiesBack(t *testing.T) {
	ds := graphtest.Fixture(t)
	f := ds.Filter(nil)
	arena := graph.NewArena(ds)
	arena.Pin("branchA", graph.Vec{X: 1, Y: 1})

	NewRadial(DefaultConfig()).Apply(f, arena, 800, 600)

	for _, b := range arena.Bodies(f.IDs()) {
		assert.Equal(t, graph.OwnerSimulation, b.Owner(), b.Node.ID)
		assert.Nil(t, b.Pin, b.Node.ID)
	}
}

func TestApply_OrphanKeepsPosition(t *testing.T) {
	nodes := append([]graph.Node{}, graphtest.FixtureNodes...)
	nodes = append(nodes, graph.Node{ID: "orphan", Name: "Orphan", Category: graph.CategoryTool, Level: 3, Weight: 10})
	ds, err := graph.NewDataset(nodes, graphtest.FixtureEdges, graph.Lenient())
	require.NoError(t, err)

	arena := graph.NewArena(ds)
	require.True(t, arena.Place(graph.OwnerSimulation, "orphan", graph.Vec{X: 7, Y: 9}))

	res := NewRadial(DefaultConfig()).Apply(ds.Filter(map[string]struct{}{"orphan": {}}), arena, 800, 600)
	assert.Equal(t, []string{"orphan"}, res.Skipped)

	p, ok := arena.Position("orphan")
	require.True(t, ok)
	assert.Equal(t, graph.Vec{X: 7, Y: 9}, p)
}

func TestApply_EmptyBranchAndDegenerateViewport(t *testing.T) {
	nodes := []graph.Node{
		graphtest.FixtureNodes[0], graphtest.FixtureNodes[1], graphtest.FixtureNodes[2], graphtest.FixtureNodes[3],
	}
	edges := []graph.Edge{
		graphtest.FixtureEdges[0], graphtest.FixtureEdges[1], graphtest.FixtureEdges[2],
	}
	ds, err := graph.NewDataset(nodes, edges)
	require.NoError(t, err)

	arena := graph.NewArena(ds)
	res := NewRadial(Config{}).Apply(ds.Filter(nil), arena, 0, -5)
	assert.Empty(t, res.Skipped)

	p, _ := arena.Position("central")
	assert.Equal(t, graph.Vec{X: DefaultWidth / 2, Y: DefaultHeight / 2}, p)

	b, _ := arena.Position("branchB")
	assert.False(t, math.IsNaN(b.X) || math.IsNaN(b.Y))
}

func TestApply_EmptyGraph(t *testing.T) {
	arena := graph.NewArena(graphtest.Fixture(t))
	res := NewRadial(DefaultConfig()).Apply(&graph.Filtered{}, arena, 800, 600)
	assert.Empty(t, res.Placed)
}

func TestHashUnit(t *testing.T) {
	for _, id := range []string{"", "a", "toolA1", "kubernetes"} {
		u := HashUnit(id)
		assert.GreaterOrEqual(t, u, 0.0)
		assert.Less(t, u, 1.0)
		assert.Equal(t, u, HashUnit(id))
	}
	assert.NotEqual(t, HashUnit("toolA1"), HashUnit("toolA2"))
}

func TestScatter_SectorMembership(t *testing.T) {
	ds := graphtest.Fixture(t)
	f := ds.Filter(disclosedAll(ds))
	arena := graph.NewArena(ds)

	res := Scatter(f, arena, 800, 600, rand.New(rand.NewSource(42)))
	assert.Len(t, res.Placed, 8)

	center := graph.Vec{X: 400, Y: 300}
	p, _ := arena.Position("central")
	assert.Equal(t, center, p)

	// Two colours besides the centre: red first, green second.
	sectorOf := map[string]int{"#e74c3c": 0, "#2ecc71": 1}
	for _, n := range f.Nodes {
		if n.Category == graph.CategoryCentral {
			continue
		}
		assert.Equal(t, sectorOf[n.Color], sectorIndex(res.Angles[n.ID], 2), n.ID)

		pos, ok := arena.Position(n.ID)
		require.True(t, ok)
		assert.InDelta(t, scatterRadius[n.Level], distance(center, pos), 1e-9, n.ID)

		b, _ := arena.Body(n.ID)
		assert.Equal(t, graph.OwnerSimulation, b.Owner())
		assert.NotZero(t, b.Vel.Len())
	}
}

func TestScatter_SeededIsRepeatable(t *testing.T) {
	ds := graphtest.Fixture(t)
	f := ds.Filter(disclosedAll(ds))

	a := Scatter(f, graph.NewArena(ds), 800, 600, rand.New(rand.NewSource(7)))
	b := Scatter(f, graph.NewArena(ds), 800, 600, rand.New(rand.NewSource(7)))
	assert.Equal(t, a.Angles, b.Angles)
}

// sectorIndex returns the index of the sector containing an absolute angle,
// for sectorCount equal sectors where sector i is centred on i*2π/sectorCount.
func sectorIndex(angle float64, sectorCount int) int {
	if sectorCount <= 0 {
		return 0
	}
	width := 2 * math.Pi / float64(sectorCount)
	a := math.Mod(angle+width/2, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return int(a/width) % sectorCount
}

func TestSectorIndex(t *testing.T) {
	assert.Equal(t, 0, sectorIndex(0, 4))
	assert.Equal(t, 1, sectorIndex(math.Pi/2, 4))
	assert.Equal(t, 0, sectorIndex(-0.1, 4))
	assert.Equal(t, 3, sectorIndex(-math.Pi/2, 4))
	assert.Equal(t, 0, sectorIndex(1, 0))
}
