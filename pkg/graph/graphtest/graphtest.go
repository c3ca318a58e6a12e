// Package graphtest provides small datasets shared by package tests.
package graphtest

import (
	"testing"

	"github.com/rmax-ai/skillgraph/pkg/graph"
)

// Nodes and edges of the two-branch fixture: central, branches A and B,
// one domain per branch, two tools under domain A and one under domain B,
// and a cross edge between toolA1 and toolB1. Only toolA1 carries details.
var (
	FixtureNodes = []graph.Node{
		{ID: "central", Name: "Center", Category: graph.CategoryCentral, Level: 0, Weight: 50, Color: "#3498db"},
		{ID: "branchA", Name: "Branch\nA", Category: graph.CategoryBranch, Level: 1, Weight: 35, Color: "#e74c3c"},
		{ID: "branchB", Name: "Branch\nB", Category: graph.CategoryBranch, Level: 1, Weight: 35, Color: "#2ecc71"},
		{ID: "domainA", Name: "Domain A", Category: graph.CategoryDomain, Level: 2, Weight: 25, Color: "#e74c3c"},
		{ID: "domainB", Name: "Domain B", Category: graph.CategoryDomain, Level: 2, Weight: 25, Color: "#2ecc71"},
		{ID: "toolA1", Name: "Tool A1", Category: graph.CategoryTool, Level: 3, Weight: 20, Color: "#e74c3c",
			Details: &graph.Details{Description: "First tool under domain A.", Proficiency: 80, Years: 4}},
		{ID: "toolA2", Name: "Tool A2", Category: graph.CategoryTool, Level: 3, Weight: 20, Color: "#e74c3c"},
		{ID: "toolB1", Name: "Tool B1", Category: graph.CategoryTool, Level: 3, Weight: 20, Color: "#2ecc71"},
	}
	FixtureEdges = []graph.Edge{
		{Source: "central", Target: "branchA", Category: graph.EdgePrimary, Weight: 8},
		{Source: "central", Target: "branchB", Category: graph.EdgePrimary, Weight: 8},
		{Source: "branchA", Target: "domainA", Category: graph.EdgeBranch, Weight: 5},
		{Source: "branchB", Target: "domainB", Category: graph.EdgeBranch, Weight: 5},
		{Source: "domainA", Target: "toolA1", Category: graph.EdgeTool, Weight: 4},
		{Source: "domainA", Target: "toolA2", Category: graph.EdgeTool, Weight: 4},
		{Source: "domainB", Target: "toolB1", Category: graph.EdgeTool, Weight: 4},
		{Source: "toolA1", Target: "toolB1", Category: graph.EdgeCross, Weight: 3},
	}
)

// Fixture builds the two-branch dataset.
func Fixture(t testing.TB) *graph.Dataset {
	t.Helper()
	ds, err := graph.NewDataset(FixtureNodes, FixtureEdges)
	if err != nil {
		t.Fatalf("fixture dataset: %v", err)
	}
	return ds
}

// Single builds a dataset holding only a central node.
func Single(t testing.TB) *graph.Dataset {
	t.Helper()
	ds, err := graph.NewDataset(FixtureNodes[:1], nil)
	if err != nil {
		t.Fatalf("single dataset: %v", err)
	}
	return ds
}
