// ABOUTME: CLI command to expose the answer engine as an MCP server
// ABOUTME: Serves the ask tool over stdio transport
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/uniqlabs/ragbot/internal/mcp"
)

// NewMCPCmd creates the mcp command
func NewMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run as an MCP server on stdio",
		Long: `Run the RAG engine as an MCP server over stdio.

Exposes a single "ask" tool so MCP clients can query the knowledge base
with per-session conversational memory.`,
		RunE: runMCP,
	}
}

func runMCP(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	engine, _, err := buildEngine(logger)
	if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer("UNIQ RAG Bot", versionInfo.Version)
	mcp.RegisterTools(server, engine)

	if err := mcpserver.ServeStdio(server); err != nil {
		return fmt.Errorf("mcp server failed: %w", err)
	}
	return nil
}
