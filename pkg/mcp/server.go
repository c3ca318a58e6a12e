package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rmax-ai/skillgraph/pkg/client"
	"github.com/rmax-ai/skillgraph/pkg/graph"
)

// Server exposes skills-graph queries over the Model Context Protocol.
type Server struct {
	mcpServer *server.MCPServer
	src       Source
}

// NewServer creates a new MCP server answering from src.
func NewServer(src Source, version string) *Server {
	if version == "" {
		version = "dev"
	}
	s := &Server{
		mcpServer: server.NewMCPServer(
			"skillgraph",
			version,
		),
		src: src,
	}
	s.registerResources()
	s.registerTools()
	s.registerPrompts()
	return s
}

// Serve starts the MCP server on stdio.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

// --- Resources ---

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(
		"skillgraph://graph",
		"Skills Graph Overview",
		mcp.WithResourceDescription("Central node, branches and domains with the links between them"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadGraph)

	s.mcpServer.AddResource(mcp.NewResource(
		"skillgraph://dataset",
		"Full Skills Dataset",
		mcp.WithResourceDescription("Every node and link, tools included"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadDataset)
}

// --- Tools ---

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"get_graph",
		mcp.WithDescription("Return the visible graph after expanding nodes. Expanding a branch or domain reveals the tools below it; expanding it twice hides them again."),
		mcp.WithString("expand", mcp.Description("Comma-separated node ids to expand, in order")),
		mcp.WithBoolean("all", mcp.Description("Reveal every tool")),
	), s.handleGetGraph)

	s.mcpServer.AddTool(mcp.NewTool(
		"get_node",
		mcp.WithDescription("Describe one node: its details, parent, children, neighbours and the tools it expands."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Node id")),
	), s.handleGetNode)

	s.mcpServer.AddTool(mcp.NewTool(
		"search_nodes",
		mcp.WithDescription("Find nodes whose id, name or description contains the query, case-insensitive."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to look for")),
		mcp.WithString("category", mcp.Description("Restrict to central, branch, domain or tool")),
	), s.handleSearchNodes)
}

// --- Prompts ---

func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(mcp.NewPrompt(
		"skillgraph-guide",
		mcp.WithPromptDescription("Explains how the skills graph is organized and how to explore it"),
	), s.handleGetPrompt)
}

// --- Handlers ---

func (s *Server) handleReadGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	g, err := s.src.Graph(ctx, client.Query{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch graph: %w", err)
	}
	return jsonResource(request.Params.URI, g)
}

func (s *Server) handleReadDataset(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	g, err := s.src.Graph(ctx, client.Query{All: true})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset: %w", err)
	}
	return jsonResource(request.Params.URI, g)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := client.Query{All: mcp.ParseBoolean(request, "all", false)}
	for _, id := range strings.Split(mcp.ParseString(request, "expand", ""), ",") {
		if id = strings.TrimSpace(id); id != "" {
			q.Expand = append(q.Expand, id)
		}
	}

	g, err := s.src.Graph(ctx, q)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("graph error: %v", err)), nil
	}
	return jsonResult(g)
}

func (s *Server) handleGetNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(request, "id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	n, err := s.src.Node(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("node error: %v", err)), nil
	}
	return jsonResult(n)
}

func (s *Server) handleSearchNodes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := strings.ToLower(strings.TrimSpace(mcp.ParseString(request, "query", "")))
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}
	cat := graph.Category(mcp.ParseString(request, "category", ""))
	if cat != "" && !cat.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown category %q", cat)), nil
	}

	g, err := s.src.Graph(ctx, client.Query{All: true})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("graph error: %v", err)), nil
	}

	matches := []graph.Node{}
	for _, n := range g.Nodes {
		if cat != "" && n.Category != cat {
			continue
		}
		name := strings.ToLower(strings.ReplaceAll(n.Name, "\n", " "))
		var desc string
		if n.Details != nil {
			desc = strings.ToLower(n.Details.Description)
		}
		if strings.Contains(strings.ToLower(n.ID), query) || strings.Contains(name, query) || strings.Contains(desc, query) {
			matches = append(matches, n)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Level < matches[j].Level })
	return jsonResult(matches)
}

func (s *Server) handleGetPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	if name != "skillgraph-guide" {
		return nil, fmt.Errorf("prompt not found: %s", name)
	}

	promptText := `You are exploring a skills graph organized as a four-level hierarchy.

Levels:
- Central (0): the single root of the graph.
- Branch (1): broad areas hanging off the centre.
- Domain (2): groups of related skills inside a branch.
- Tool (3): concrete technologies. Tools are hidden until something above them is expanded.

Links are primary (central to branch), branch (branch to domain), tool (domain to tool)
or cross (between related tools in different domains).

Use 'get_graph' with 'expand' to reveal tools below a branch or domain, 'get_node' to see
a node's details and relations, and 'search_nodes' to locate a skill by name or description.
`

	return mcp.NewGetPromptResult(
		"skillgraph-guide",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(promptText)),
		},
	), nil
}
