package mcp

import (
	"context"
	"fmt"

	"github.com/rmax-ai/skillgraph/pkg/api"
	"github.com/rmax-ai/skillgraph/pkg/client"
	"github.com/rmax-ai/skillgraph/pkg/graph"
	"github.com/rmax-ai/skillgraph/pkg/visibility"
)

// Source answers graph queries. *client.Client reads a running daemon;
// Local reads an in-process dataset.
type Source interface {
	Graph(ctx context.Context, q client.Query) (api.GraphResponse, error)
	Node(ctx context.Context, id string) (api.NodeResponse, error)
}

var _ Source = (*client.Client)(nil)

// Local serves queries from a dataset held in memory.
type Local struct {
	DS *graph.Dataset
}

// Graph implements Source. Named datasets are not available locally.
func (l Local) Graph(_ context.Context, q client.Query) (api.GraphResponse, error) {
	if q.Dataset != "" {
		return api.GraphResponse{}, fmt.Errorf("dataset %q: %w", q.Dataset, client.ErrNotFound)
	}
	vis, err := visibility.Expand(l.DS, q.All, q.Expand...)
	if err != nil {
		return api.GraphResponse{}, err
	}
	return api.NewGraphResponse(vis), nil
}

// Node implements Source.
func (l Local) Node(_ context.Context, id string) (api.NodeResponse, error) {
	n, ok := api.NewNodeResponse(l.DS, id)
	if !ok {
		return api.NodeResponse{}, fmt.Errorf("node %q: %w", id, graph.ErrUnknownNode)
	}
	return n, nil
}
