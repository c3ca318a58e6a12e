package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmax-ai/skillgraph/pkg/api"
	"github.com/rmax-ai/skillgraph/pkg/client"
	"github.com/rmax-ai/skillgraph/pkg/graph"
	"github.com/rmax-ai/skillgraph/pkg/graph/graphtest"
)

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func decodeResult[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, result.IsError, resultText(t, result))
	var v T
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &v))
	return v
}

// sources runs each case against the in-process and the HTTP source.
func sources(t *testing.T) map[string]Source {
	t.Helper()
	ds := graphtest.Fixture(t)
	srv := api.NewServer(ds, nil, "")
	srv.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return map[string]Source{
		"local":  Local{DS: ds},
		"remote": client.NewClient(ts.URL),
	}
}

func TestGetGraph(t *testing.T) {
	for name, src := range sources(t) {
		t.Run(name, func(t *testing.T) {
			s := NewServer(src, "test")

			result, err := s.handleGetGraph(context.Background(), toolRequest("get_graph", map[string]any{
				"expand": "branchA, branchA,domainB",
			}))
			require.NoError(t, err)
			g := decodeResult[api.GraphResponse](t, result)
			assert.Equal(t, []string{"toolB1"}, g.Disclosed, "expanding twice hides again")

			result, err = s.handleGetGraph(context.Background(), toolRequest("get_graph", map[string]any{"all": true}))
			require.NoError(t, err)
			g = decodeResult[api.GraphResponse](t, result)
			assert.Len(t, g.Nodes, len(graphtest.FixtureNodes))
		})
	}
}

func TestGetGraph_Rejects(t *testing.T) {
	for name, src := range sources(t) {
		t.Run(name, func(t *testing.T) {
			s := NewServer(src, "test")
			for _, id := range []string{"ghost", "toolA1"} {
				result, err := s.handleGetGraph(context.Background(), toolRequest("get_graph", map[string]any{"expand": id}))
				require.NoError(t, err)
				assert.True(t, result.IsError, id)
			}
		})
	}
}

func TestGetNode(t *testing.T) {
	for name, src := range sources(t) {
		t.Run(name, func(t *testing.T) {
			s := NewServer(src, "test")

			result, err := s.handleGetNode(context.Background(), toolRequest("get_node", map[string]any{"id": "central"}))
			require.NoError(t, err)
			n := decodeResult[api.NodeResponse](t, result)
			assert.Equal(t, []string{"branchA", "branchB"}, n.Children)
			assert.Equal(t, []string{"toolA1", "toolA2", "toolB1"}, n.Tools)
			assert.Nil(t, n.Node.Details)

			result, err = s.handleGetNode(context.Background(), toolRequest("get_node", map[string]any{"id": "toolA1"}))
			require.NoError(t, err)
			n = decodeResult[api.NodeResponse](t, result)
			require.NotNil(t, n.Node.Details)
			assert.Equal(t, 80, n.Node.Details.Proficiency)
			assert.Equal(t, 4, n.Node.Details.Years)

			result, err = s.handleGetNode(context.Background(), toolRequest("get_node", map[string]any{"id": "ghost"}))
			require.NoError(t, err)
			assert.True(t, result.IsError)

			result, err = s.handleGetNode(context.Background(), toolRequest("get_node", nil))
			require.NoError(t, err)
			assert.True(t, result.IsError)
		})
	}
}

func TestSearchNodes(t *testing.T) {
	s := NewServer(Local{DS: graphtest.Fixture(t)}, "test")

	result, err := s.handleSearchNodes(context.Background(), toolRequest("search_nodes", map[string]any{"query": "a"}))
	require.NoError(t, err)
	nodes := decodeResult[[]graph.Node](t, result)
	require.NotEmpty(t, nodes)
	for i := 1; i < len(nodes); i++ {
		assert.LessOrEqual(t, nodes[i-1].Level, nodes[i].Level)
	}

	// Multi-line names match across the line break.
	result, err = s.handleSearchNodes(context.Background(), toolRequest("search_nodes", map[string]any{"query": "branch b"}))
	require.NoError(t, err)
	nodes = decodeResult[[]graph.Node](t, result)
	require.Len(t, nodes, 1)
	assert.Equal(t, "branchB", nodes[0].ID)

	// Descriptions are searched too.
	result, err = s.handleSearchNodes(context.Background(), toolRequest("search_nodes", map[string]any{"query": "first tool"}))
	require.NoError(t, err)
	nodes = decodeResult[[]graph.Node](t, result)
	require.Len(t, nodes, 1)
	assert.Equal(t, "toolA1", nodes[0].ID)

	result, err = s.handleSearchNodes(context.Background(), toolRequest("search_nodes", map[string]any{"query": "tool", "category": "domain"}))
	require.NoError(t, err)
	assert.Empty(t, decodeResult[[]graph.Node](t, result))

	result, err = s.handleSearchNodes(context.Background(), toolRequest("search_nodes", map[string]any{"query": "x", "category": "planet"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestReadResources(t *testing.T) {
	s := NewServer(Local{DS: graphtest.Fixture(t)}, "")

	tests := []struct {
		uri   string
		read  func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error)
		nodes int
	}{
		{"skillgraph://graph", s.handleReadGraph, 5},
		{"skillgraph://dataset", s.handleReadDataset, len(graphtest.FixtureNodes)},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			req := mcp.ReadResourceRequest{Params: mcp.ReadResourceParams{URI: tt.uri}}
			result, err := tt.read(context.Background(), req)
			require.NoError(t, err)
			require.Len(t, result, 1)

			content, ok := result[0].(mcp.TextResourceContents)
			require.True(t, ok)
			assert.Equal(t, "application/json", content.MIMEType)
			assert.Equal(t, tt.uri, content.URI)

			var g api.GraphResponse
			require.NoError(t, json.Unmarshal([]byte(content.Text), &g))
			assert.Len(t, g.Nodes, tt.nodes)
		})
	}
}

func TestLocal_NamedDataset(t *testing.T) {
	_, err := Local{DS: graphtest.Fixture(t)}.Graph(context.Background(), client.Query{Dataset: "x"})
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestPrompt(t *testing.T) {
	s := NewServer(Local{DS: graphtest.Fixture(t)}, "test")

	req := mcp.GetPromptRequest{}
	req.Params.Name = "skillgraph-guide"
	result, err := s.handleGetPrompt(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)

	req.Params.Name = "other"
	_, err = s.handleGetPrompt(context.Background(), req)
	assert.Error(t, err)
}
