// Package mcpserver exposes the analyzers as MCP tools over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers all scry analysis tools.
type Server struct {
	server *mcp.Server
}

// NewServer creates a new MCP server with all scry tools registered.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "scry",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	s.registerTools()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// registerTools adds all analyzer tools to the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_file",
		Description: "Analyze a single Python or Java source file: per-module import counts and cyclomatic complexity.",
	}, handleAnalyzeFile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "count_imports",
		Description: "Count import statements per module in a Python or Java source file.",
	}, handleCountImports)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_complexity",
		Description: "Compute the cyclomatic complexity of a Python or Java source file (1 + decision points).",
	}, handleAnalyzeComplexity)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_project",
		Description: "Analyze every supported source file under the given paths and aggregate summary statistics.",
	}, handleAnalyzeProject)
}
