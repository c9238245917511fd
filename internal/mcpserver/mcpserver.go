// Package mcpserver exposes the selector rule to agents over the Model
// Context Protocol.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers the selectorlint tools.
type Server struct {
	server     *mcp.Server
	configPath string
}

// Option configures a Server.
type Option func(*Server)

// WithConfigPath loads configuration from path instead of searching the
// working directory.
func WithConfigPath(path string) Option {
	return func(s *Server) {
		s.configPath = path
	}
}

// NewServer creates a new MCP server with all tools and prompts registered.
func NewServer(version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "selectorlint",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_selectors",
		Description: describeCheckSelectors(),
	}, s.handleCheckSelectors)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_source",
		Description: describeCheckSource(),
	}, s.handleCheckSource)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_rules",
		Description: describeListRules(),
	}, s.handleListRules)
}
