// ABOUTME: MCP server setup for the mapty workout session.
// ABOUTME: Wraps one long-lived session so tools act like a user at the map.
package mcp

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/harperreed/mapty/internal/app"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with session access.
type Server struct {
	mcpServer *mcp.Server
	app       *app.App
	logger    *log.Logger
}

// NewServer creates a new MCP server over a started app.
func NewServer(a *app.App, logger *log.Logger) (*Server, error) {
	if a == nil {
		return nil, errors.New("mcp: app is required")
	}
	if logger == nil {
		logger = log.Default()
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "mapty",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		app:       a,
		logger:    logger,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
