// Package prompts implements MCP prompt handlers for the agent.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the host AI to call the agent tools in a specific sequence.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// DebugPrompt handles the debug-session MCP prompt.
// It packages an error and optional code into a chat_with_agent call.
type DebugPrompt struct{}

// NewDebugPrompt creates a DebugPrompt.
func NewDebugPrompt() *DebugPrompt {
	return &DebugPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *DebugPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("debug-session",
		mcp.WithPromptDescription(
			"Ask the agent to debug a problem. Sends the error and any relevant "+
				"code through chat_with_agent.",
		),
		mcp.WithArgument("error",
			mcp.ArgumentDescription("The error message or unexpected behaviour"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("code",
			mcp.ArgumentDescription("Relevant code or stack trace"),
		),
	)
}

// Handle processes the debug-session prompt request.
func (p *DebugPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	problem := strings.TrimSpace(req.Params.Arguments["error"])
	if problem == "" {
		return nil, fmt.Errorf("argument 'error' is required")
	}
	code := strings.TrimSpace(req.Params.Arguments["code"])

	var sb strings.Builder
	sb.WriteString("Call `chat_with_agent` with:\n\n")
	fmt.Fprintf(&sb, "- message: %q\n", "Help me debug this: "+problem)
	if code != "" {
		sb.WriteString("- context: the code below\n\n```\n")
		sb.WriteString(code)
		sb.WriteString("\n```\n")
	}
	sb.WriteString("\nThen summarise the likely cause and the fix. " +
		"If the agent reports an error, retry the same message; after three failures " +
		"it adds web context automatically.")

	return &mcp.GetPromptResult{
		Description: "Debug session",
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(sb.String()),
			},
		},
	}, nil
}

// StatusPrompt handles the agent-status MCP prompt.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("agent-status",
		mcp.WithPromptDescription(
			"Check the agent's model, conversation length and pending retries.",
		),
	)
}

// Handle processes the agent-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Agent Status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `get_agent_status` and show me the result.\n\n" +
						"If any topics have failed attempts, tell me that retrying them will add " +
						"web context, and offer `reset_conversation` if I want a clean slate.",
				),
			},
		},
	}, nil
}
