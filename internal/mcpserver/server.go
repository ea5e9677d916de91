// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the content graph for editor and LLM tooling via stdio
// transport. All tools are read-only.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/danielfarrell/gatsby/internal/session"
)

// Server wraps the MCP server with graph inspection tools.
type Server struct {
	mcp *server.MCPServer
	s   *session.Session
}

// New creates an MCP server with all graph tools registered.
func New(s *session.Session) *Server {
	srv := &Server{s: s}

	srv.mcp = server.NewMCPServer(
		"Gatsby",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	srv.mcp.AddTool(mcp.NewTool("get_node",
		mcp.WithDescription("Fetch a content-graph node by id, including its fields, parent, and children."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Node id")),
	), srv.getNode)

	srv.mcp.AddTool(mcp.NewTool("list_node_types",
		mcp.WithDescription("List every node type in the graph together with the plugin that owns it."),
	), srv.listNodeTypes)

	srv.mcp.AddTool(mcp.NewTool("list_nodes",
		mcp.WithDescription("List the nodes of a given type."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Node type tag (e.g. MarkdownRemark)")),
	), srv.listNodes)

	srv.mcp.AddTool(mcp.NewTool("node_children",
		mcp.WithDescription("List the child node ids linked under a parent node."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Parent node id")),
	), srv.nodeChildren)

	srv.mcp.AddTool(mcp.NewTool("page_dependencies",
		mcp.WithDescription("List the page paths whose rendered output depends on a node."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Node id")),
	), srv.pageDependencies)

	// Resource: node format contract.
	srv.mcp.AddResource(
		mcp.NewResource("gatsby://node-format", "Node Format Contract",
			mcp.WithResourceDescription("Shape and ownership rules for content-graph nodes."),
			mcp.WithMIMEType("text/markdown"),
		),
		srv.readNodeFormatResource,
	)

	return srv
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) getNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	node, ok := s.s.Store.GetNode(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(node, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listNodeTypes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owners := s.s.Registry.Types()
	var lines []string
	for _, typ := range s.s.Store.Types() {
		owner := owners[typ]
		if owner == "" {
			owner = "(unowned)"
		}
		lines = append(lines, fmt.Sprintf("%s\t%s", typ, owner))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("graph is empty"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) listNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typ, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	nodes := s.s.Store.NodesByType(typ)
	if len(nodes) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("no nodes of type %s", typ)), nil
	}
	var ids []string
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return mcp.NewToolResultText(strings.Join(ids, "\n")), nil
}

func (s *Server) nodeChildren(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	node, ok := s.s.Store.GetNode(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	if len(node.Children) == 0 {
		return mcp.NewToolResultText("no children"), nil
	}
	return mcp.NewToolResultText(strings.Join(node.Children, "\n")), nil
}

func (s *Server) pageDependencies(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	paths := s.s.Tracker.PathsDependingOnNode(id)
	if len(paths) == 0 {
		return mcp.NewToolResultText("no dependent pages"), nil
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) readNodeFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "gatsby://node-format",
			MIMEType: "text/markdown",
			Text:     NodeFormatContract,
		},
	}, nil
}
