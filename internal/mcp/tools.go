// ABOUTME: MCP tool definitions and registration for the RAG chat service
// ABOUTME: Exposes the answer engine as a single ask tool over MCP
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/uniqlabs/ragbot/internal/rag"
)

// RegisterTools registers the ask tool with the MCP server
func RegisterTools(server *mcpserver.MCPServer, engine *rag.Engine) *Handlers {
	handlers := &Handlers{engine: engine}

	server.AddTool(mcp.Tool{
		Name:        "ask",
		Description: "Ask a question about the UNIQ knowledge base. Answers strictly from indexed knowledge and keeps short per-session conversation memory.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The question to answer from the knowledge base",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional session id for conversational memory (default: \"default\")",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.Ask)

	return handlers
}
