// ABOUTME: MCP server setup for the ironlog training store.
// ABOUTME: Wraps the MCP server with a Repository, a logging session, and a clock.
package mcp

import (
	"context"
	"time"

	"github.com/harperreed/ironlog/internal/schedule"
	"github.com/harperreed/ironlog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	session   *schedule.Session
	appName   string
	now       func() time.Time
}

// NewServer creates a new MCP server with the given storage. appName
// prefixes backup filenames.
func NewServer(repo storage.Repository, appName string) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "ironlog",
			Version: "1.0.0",
		},
		nil,
	)

	if appName == "" {
		appName = "ironlog"
	}
	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		session:   schedule.NewSession(time.Now()),
		appName:   appName,
		now:       time.Now,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
