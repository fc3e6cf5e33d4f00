// Package tools implements the MCP tool handlers exposed by gpt-agent.
//
// Each tool is a struct that receives its dependencies through its
// constructor and exposes Definition() for registration and Handle() as the
// mcp-go handler. Handlers never return a Go error: every failure is
// reported as a tool result so the host always receives text content.
package tools

import (
	"context"

	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/agent"
)

// Agent is the conversation core the tools drive.
type Agent interface {
	Chat(ctx context.Context, in agent.ChatInput) agent.Reply
	Reset()
	Status(ctx context.Context) agent.Status
}
