package graph_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmax-ai/skillgraph/pkg/graph"
	"github.com/rmax-ai/skillgraph/pkg/graph/graphtest"
)

func TestNewDataset_Fixture(t *testing.T) {
	ds := graphtest.Fixture(t)

	assert.Equal(t, "central", ds.Central().ID)
	assert.Len(t, ds.Nodes(), 8)
	assert.Equal(t, []string{"toolA1", "toolA2", "toolB1"}, ds.Tools())

	parent, ok := ds.Parent("toolA2")
	require.True(t, ok)
	assert.Equal(t, "domainA", parent)

	_, ok = ds.Parent("central")
	assert.False(t, ok)

	// Cross edges never define a parent.
	parent, _ = ds.Parent("toolB1")
	assert.Equal(t, "domainB", parent)
}

func TestNewDataset_LevelInvariant(t *testing.T) {
	ds := graphtest.Fixture(t)
	for _, n := range ds.Nodes() {
		if n.Category == graph.CategoryCentral {
			continue
		}
		parentID, ok := ds.Parent(n.ID)
		require.True(t, ok, "node %s has no parent", n.ID)
		parent, _ := ds.Node(parentID)
		assert.Equal(t, parent.Level+1, n.Level, "node %s", n.ID)
	}
}

func TestNewDataset_Rejects(t *testing.T) {
	central := graph.Node{ID: "c", Name: "C", Category: graph.CategoryCentral, Level: 0, Weight: 1}
	branch := graph.Node{ID: "b", Name: "B", Category: graph.CategoryBranch, Level: 1, Weight: 1}

	tests := []struct {
		name  string
		nodes []graph.Node
		edges []graph.Edge
	}{
		{
			name:  "no central",
			nodes: []graph.Node{branch},
		},
		{
			name:  "two centrals",
			nodes: []graph.Node{central, {ID: "c2", Category: graph.CategoryCentral, Weight: 1}},
		},
		{
			name:  "duplicate id",
			nodes: []graph.Node{central, central},
		},
		{
			name:  "orphan branch",
			nodes: []graph.Node{central, branch},
		},
		{
			name:  "level skip",
			nodes: []graph.Node{central, {ID: "t", Category: graph.CategoryTool, Level: 3, Weight: 1}},
			edges: []graph.Edge{{Source: "c", Target: "t", Category: graph.EdgeTool, Weight: 1}},
		},
		{
			name:  "dangling edge",
			nodes: []graph.Node{central, branch},
			edges: []graph.Edge{
				{Source: "c", Target: "b", Category: graph.EdgePrimary, Weight: 1},
				{Source: "c", Target: "ghost", Category: graph.EdgeCross, Weight: 1},
			},
		},
		{
			name: "proficiency above 100",
			nodes: []graph.Node{{ID: "c", Category: graph.CategoryCentral, Weight: 1,
				Details: &graph.Details{Proficiency: 101}}},
		},
		{
			name: "negative years",
			nodes: []graph.Node{{ID: "c", Category: graph.CategoryCentral, Weight: 1,
				Details: &graph.Details{Years: -1}}},
		},
		{
			name:  "zero weight",
			nodes: []graph.Node{{ID: "c", Category: graph.CategoryCentral}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := graph.NewDataset(tt.nodes, tt.edges)
			require.Error(t, err)
			assert.True(t, errors.Is(err, graph.ErrInvalidDataset))
		})
	}
}

func TestNewDataset_CopiesDetails(t *testing.T) {
	nodes := append([]graph.Node{}, graphtest.FixtureNodes...)
	nodes[5].Details = &graph.Details{Description: "before", Proficiency: 50, Years: 2}

	ds, err := graph.NewDataset(nodes, graphtest.FixtureEdges)
	require.NoError(t, err)
	nodes[5].Details.Description = "after"

	n, ok := ds.Node("toolA1")
	require.True(t, ok)
	require.NotNil(t, n.Details)
	assert.Equal(t, "before", n.Details.Description)
	assert.Equal(t, 50, n.Details.Proficiency)

	b, _ := ds.Node("branchA")
	assert.Nil(t, b.Details)
}

func TestNewDataset_LenientKeepsDanglingEdges(t *testing.T) {
	nodes := append([]graph.Node{}, graphtest.FixtureNodes...)
	edges := append([]graph.Edge{}, graphtest.FixtureEdges...)
	edges = append(edges, graph.Edge{Source: "domainA", Target: "ghost", Category: graph.EdgeTool, Weight: 1})

	ds, err := graph.NewDataset(nodes, edges, graph.Lenient())
	require.NoError(t, err)
	require.Len(t, ds.Problems(), 1)
	assert.True(t, errors.Is(ds.Problems()[0], graph.ErrUnknownNode))

	// The dangling edge never reaches a filtered graph.
	f := ds.Filter(map[string]struct{}{"toolA1": {}, "ghost": {}})
	for _, l := range f.Links {
		assert.NotEqual(t, "ghost", l.TargetID())
	}
}

func TestDescendantTools(t *testing.T) {
	ds := graphtest.Fixture(t)

	assert.Equal(t, []string{"toolA1", "toolA2"}, ds.DescendantTools("domainA"))
	assert.Equal(t, []string{"toolA1", "toolA2"}, ds.DescendantTools("branchA"))
	assert.Equal(t, []string{"toolA1", "toolA2", "toolB1"}, ds.DescendantTools("central"))
	assert.Empty(t, ds.DescendantTools("toolA1"))
}

func TestNeighbors(t *testing.T) {
	ds := graphtest.Fixture(t)
	assert.ElementsMatch(t, []string{"domainA", "toolB1"}, ds.Neighbors("toolA1"))
}

func TestDefaultDataset(t *testing.T) {
	ds, err := graph.Default()
	require.NoError(t, err)

	assert.Equal(t, "central", ds.Central().ID)
	assert.Len(t, ds.Nodes(), 71)
	assert.Len(t, ds.Edges(), 99)

	base := ds.Filter(nil)
	for _, n := range base.Nodes {
		assert.LessOrEqual(t, n.Level, 2)
	}

	python, ok := ds.Node("python")
	require.True(t, ok)
	require.NotNil(t, python.Details)
	assert.NotEmpty(t, python.Details.Description)
	assert.Positive(t, python.Details.Years)
}

func TestEncodeRoundTrip(t *testing.T) {
	ds := graphtest.Fixture(t)
	raw, err := ds.Encode()
	require.NoError(t, err)

	again, err := graph.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, ds.Document(), again.Document())
}
