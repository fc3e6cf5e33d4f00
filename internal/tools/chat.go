package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/agent"
)

// ChatTool handles the chat_with_agent MCP tool.
type ChatTool struct {
	agent Agent
}

// NewChatTool creates a ChatTool.
func NewChatTool(a Agent) *ChatTool {
	return &ChatTool{agent: a}
}

// Definition returns the MCP tool definition for registration.
func (t *ChatTool) Definition() mcp.Tool {
	return mcp.NewTool("chat_with_agent",
		mcp.WithDescription(
			"Ask the software development agent a question. It specializes in "+
				"software architecture, full-stack development and debugging, keeps a short "+
				"conversation history, and adds current web context for version or API "+
				"questions and for topics that have failed repeatedly.",
		),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("The question or request for the agent"),
		),
		mcp.WithString("context",
			mcp.Description("Optional background such as code, error output or project details"),
		),
	)
}

// Handle processes the chat_with_agent tool call.
func (t *ChatTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reply := t.agent.Chat(ctx, agent.ChatInput{
		Message: req.GetString("message", ""),
		Context: req.GetString("context", ""),
	})

	if reply.Outcome == agent.OutcomeRejected {
		return mcp.NewToolResultError(reply.Text), nil
	}
	return mcp.NewToolResultText(reply.Text), nil
}
