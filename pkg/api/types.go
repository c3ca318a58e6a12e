package api

import (
	"github.com/rmax-ai/skillgraph/pkg/graph"
	"github.com/rmax-ai/skillgraph/pkg/visibility"
)

// GraphResponse is the body of GET /v1/graph.
type GraphResponse struct {
	Nodes     []graph.Node `json:"nodes"`
	Links     []graph.Edge `json:"links"`
	Disclosed []string     `json:"disclosed"`
}

// NewGraphResponse renders the filtered graph of a visibility state.
func NewGraphResponse(vis *visibility.State) GraphResponse {
	f := vis.Filtered()
	resp := GraphResponse{
		Nodes:     make([]graph.Node, 0, len(f.Nodes)),
		Links:     f.Edges(),
		Disclosed: vis.Disclosed(),
	}
	for _, n := range f.Nodes {
		resp.Nodes = append(resp.Nodes, *n)
	}
	return resp
}

// NodeResponse is the body of GET /v1/nodes/{id}.
type NodeResponse struct {
	Node      graph.Node `json:"node"`
	Parent    string     `json:"parent,omitempty"`
	Children  []string   `json:"children"`
	Neighbors []string   `json:"neighbors"`
	Tools     []string   `json:"tools"` // tools a click on this node toggles
}

// NewNodeResponse describes id within ds.
func NewNodeResponse(ds *graph.Dataset, id string) (NodeResponse, bool) {
	n, ok := ds.Node(id)
	if !ok {
		return NodeResponse{}, false
	}
	parent, _ := ds.Parent(id)
	resp := NodeResponse{
		Node:      *n,
		Parent:    parent,
		Children:  nonNil(ds.Children(id)),
		Neighbors: nonNil(ds.Neighbors(id)),
		Tools:     []string{},
	}
	if n.Level <= 2 {
		resp.Tools = nonNil(ds.DescendantTools(id))
	}
	return resp, true
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
