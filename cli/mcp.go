// ABOUTME: MCP server subcommand
// ABOUTME: Serves the dashboard tools, resources and prompts over stdio
package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/harperreed/bizdash/handlers"
	"github.com/harperreed/bizdash/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPCommand starts the MCP server on stdio and blocks until the client disconnects.
func MCPCommand(ctx context.Context, repo *store.Repository, version string) error {
	log.Info("starting bizdash MCP server", "version", version)
	server := handlers.NewServer(repo, version)
	return server.Run(ctx, &mcp.StdioTransport{})
}
