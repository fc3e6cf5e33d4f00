package resources

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/agent"
	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/journal"
)

type fixedStatus agent.Status

func (f fixedStatus) Status(context.Context) agent.Status { return agent.Status(f) }

type fakeJournal struct {
	entries []journal.Entry
	err     error
}

func (f *fakeJournal) Recent(_ context.Context, _ string, limit int) ([]journal.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.entries) > limit {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

func readReq(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func contentsText(t *testing.T, c []mcp.ResourceContents) (string, string) {
	t.Helper()
	if len(c) != 1 {
		t.Fatalf("contents = %d, want 1", len(c))
	}
	tc, ok := c[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content type = %T", c[0])
	}
	return tc.MIMEType, tc.Text
}

func TestHandleStatus(t *testing.T) {
	h := NewHandler(fixedStatus{WindowLen: 4, TrackedTopics: 1, Model: "gpt-4o-mini", Provider: "openai"}, nil)

	c, err := h.HandleStatus(context.Background(), readReq(StatusURI))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mime, text := contentsText(t, c)
	if mime != "application/json" {
		t.Errorf("mime = %q", mime)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(text), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got["model"] != "gpt-4o-mini" || got["window_len"] != float64(4) || got["tracked_topics"] != float64(1) {
		t.Errorf("status = %v", got)
	}
}

func TestHandleJournal(t *testing.T) {
	entries := make([]journal.Entry, 30)
	for i := range entries {
		entries[i] = journal.Entry{ID: int64(i + 1), TopicKey: "topic"}
	}
	h := NewHandler(fixedStatus{}, &fakeJournal{entries: entries})

	c, err := h.HandleJournal(context.Background(), readReq(JournalURI))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, text := contentsText(t, c)
	var got []journal.Entry
	if err := json.Unmarshal([]byte(text), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != recentLimit {
		t.Errorf("entries = %d, want %d", len(got), recentLimit)
	}
}

func TestHandleJournal_Errors(t *testing.T) {
	disabled := NewHandler(fixedStatus{}, nil)
	c, err := disabled.HandleJournal(context.Background(), readReq(JournalURI))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mime, text := contentsText(t, c); mime != "text/plain" || !strings.Contains(text, "disabled") {
		t.Errorf("disabled journal: %s %q", mime, text)
	}

	broken := NewHandler(fixedStatus{}, &fakeJournal{err: errors.New("database is locked")})
	c, err = broken.HandleJournal(context.Background(), readReq(JournalURI))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, text := contentsText(t, c); !strings.Contains(text, "database is locked") {
		t.Errorf("text = %q", text)
	}
}

func TestHandleJournal_EmptyIsArray(t *testing.T) {
	h := NewHandler(fixedStatus{}, &fakeJournal{})
	c, err := h.HandleJournal(context.Background(), readReq(JournalURI))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, text := contentsText(t, c); text != "[]" {
		t.Errorf("text = %q, want []", text)
	}
}
