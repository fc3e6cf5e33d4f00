package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func promptText(t *testing.T, r *mcp.GetPromptResult) string {
	t.Helper()
	if r == nil || len(r.Messages) == 0 {
		t.Fatal("empty prompt result")
	}
	tc, ok := r.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want mcp.TextContent", r.Messages[0].Content)
	}
	return tc.Text
}

func TestDebugPrompt(t *testing.T) {
	p := NewDebugPrompt()
	if p.Definition().Name != "debug-session" {
		t.Errorf("name = %q", p.Definition().Name)
	}

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{
		"error": "nil pointer dereference",
		"code":  "var m map[string]int\nm[\"a\"] = 1",
	}
	result, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := promptText(t, result)
	for _, want := range []string{"chat_with_agent", "nil pointer dereference", "m[\"a\"] = 1"} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt missing %q:\n%s", want, text)
		}
	}
}

func TestDebugPrompt_RequiresError(t *testing.T) {
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"code": "x := 1"}
	if _, err := NewDebugPrompt().Handle(context.Background(), req); err == nil {
		t.Fatal("expected error without 'error' argument")
	}
}

func TestStatusPrompt(t *testing.T) {
	result, err := NewStatusPrompt().Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(promptText(t, result), "get_agent_status") {
		t.Error("status prompt should reference get_agent_status")
	}
}
