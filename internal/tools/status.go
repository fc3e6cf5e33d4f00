package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusTool handles the get_agent_status MCP tool.
type StatusTool struct {
	agent Agent
}

// NewStatusTool creates a StatusTool.
func NewStatusTool(a Agent) *StatusTool {
	return &StatusTool{agent: a}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("get_agent_status",
		mcp.WithDescription(
			"Show the agent's configured model, conversation length and how many topics have pending retries.",
		),
	)
}

// Handle processes the get_agent_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := t.agent.Status(ctx)

	var sb strings.Builder
	sb.WriteString("## Agent Status\n\n")
	sb.WriteString(fmt.Sprintf("- **Model**: %s (%s)\n", st.Model, st.Provider))
	sb.WriteString(fmt.Sprintf("- **Conversation turns**: %d\n", st.WindowLen))
	sb.WriteString(fmt.Sprintf("- **Topics with failed attempts**: %d\n", st.TrackedTopics))
	if st.JournalEnabled {
		sb.WriteString(fmt.Sprintf("- **Journaled exchanges**: %d\n", st.Journaled))
	}

	return mcp.NewToolResultText(sb.String()), nil
}
