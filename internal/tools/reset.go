package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ResetTool handles the reset_conversation MCP tool.
type ResetTool struct {
	agent Agent
}

// NewResetTool creates a ResetTool.
func NewResetTool(a Agent) *ResetTool {
	return &ResetTool{agent: a}
}

// Definition returns the MCP tool definition for registration.
func (t *ResetTool) Definition() mcp.Tool {
	return mcp.NewTool("reset_conversation",
		mcp.WithDescription(
			"Clear the agent's conversation history and its per-topic retry counters.",
		),
	)
}

// Handle processes the reset_conversation tool call.
func (t *ResetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.agent.Reset()
	return mcp.NewToolResultText("Conversation history and retry counters have been reset."), nil
}
