// ABOUTME: MCP tool handler implementations for the RAG chat service
// ABOUTME: Bridges ask tool calls into the answer engine
package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/uniqlabs/ragbot/internal/rag"
)

// Handlers contains the handler functions for the MCP tools
type Handlers struct {
	engine *rag.Engine
}

// Ask handles the ask tool
func (h *Handlers) Ask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	sessionID := request.GetString("session_id", rag.DefaultSessionID)

	answer, err := h.engine.Answer(ctx, sessionID, question)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("answer generation failed: %v", err)), nil
	}

	return mcp.NewToolResultText(answer), nil
}
