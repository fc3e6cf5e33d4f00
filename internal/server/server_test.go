package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/mark3labs/mcp-go/server"

	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/config"
	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/metrics"
)

// fakeOpenAI answers chat completions with a fixed reply, or with the
// given status code when fail is set.
func fakeOpenAI(t *testing.T, fail *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if code := fail.Load(); code != 0 {
			w.WriteHeader(int(code))
			_, _ = io.WriteString(w, `{"error": {"message": "upstream unavailable", "type": "server_error"}}`)
			return
		}
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "Use a worker pool."}
			}]
		}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) *config.Config {
	cfg := config.Default()
	cfg.APIKey = "sk-test"
	cfg.BaseURL = baseURL
	cfg.Model = config.DefaultModel
	return cfg
}

// rpc sends one JSON-RPC request and returns the marshaled response.
func rpc(t *testing.T, s *server.MCPServer, id int, method string, params any) string {
	t.Helper()
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp := s.HandleMessage(context.Background(), msg)
	out, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return string(out)
}

func callTool(t *testing.T, s *server.MCPServer, id int, name string, args map[string]any) string {
	t.Helper()
	return rpc(t, s, id, "tools/call", map[string]any{"name": name, "arguments": args})
}

func newTestServer(t *testing.T, cfg *config.Config) *server.MCPServer {
	t.Helper()
	s, cleanup, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(cleanup)
	return s
}

func TestNew_RegistersTools(t *testing.T) {
	var fail atomic.Int32
	s := newTestServer(t, testConfig(fakeOpenAI(t, &fail).URL))

	out := rpc(t, s, 1, "tools/list", map[string]any{})
	for _, name := range []string{"chat_with_agent", "reset_conversation", "get_agent_status"} {
		if !strings.Contains(out, `"`+name+`"`) {
			t.Errorf("tools/list missing %s: %s", name, out)
		}
	}

	out = rpc(t, s, 2, "prompts/list", map[string]any{})
	for _, name := range []string{"debug-session", "agent-status"} {
		if !strings.Contains(out, `"`+name+`"`) {
			t.Errorf("prompts/list missing %s: %s", name, out)
		}
	}
}

func TestChatRoundTrip(t *testing.T) {
	var fail atomic.Int32
	s := newTestServer(t, testConfig(fakeOpenAI(t, &fail).URL))

	out := callTool(t, s, 1, "chat_with_agent", map[string]any{"message": "How do I bound concurrency?"})
	if !strings.Contains(out, "Use a worker pool.") {
		t.Fatalf("chat response: %s", out)
	}

	out = callTool(t, s, 2, "get_agent_status", map[string]any{})
	if !strings.Contains(out, "Conversation turns**: 2") {
		t.Errorf("status after one exchange: %s", out)
	}

	callTool(t, s, 3, "reset_conversation", map[string]any{})
	out = callTool(t, s, 4, "get_agent_status", map[string]any{})
	if !strings.Contains(out, "Conversation turns**: 0") {
		t.Errorf("status after reset: %s", out)
	}
}

func TestChatFailuresAreText(t *testing.T) {
	var fail atomic.Int32
	fail.Store(http.StatusUnauthorized)
	s := newTestServer(t, testConfig(fakeOpenAI(t, &fail).URL))

	out := callTool(t, s, 1, "chat_with_agent", map[string]any{"message": "hello"})
	if !strings.Contains(out, "Authentication failed") {
		t.Errorf("expected auth failure text: %s", out)
	}
	if strings.Contains(out, `"isError":true`) {
		t.Errorf("classified failures are not tool errors: %s", out)
	}

	out = callTool(t, s, 2, "chat_with_agent", map[string]any{})
	if !strings.Contains(out, `"isError":true`) {
		t.Errorf("missing message should be a tool error: %s", out)
	}
}

func TestJournalEnabled(t *testing.T) {
	var fail atomic.Int32
	cfg := testConfig(fakeOpenAI(t, &fail).URL)
	cfg.JournalPath = filepath.Join(t.TempDir(), "journal.db")
	s := newTestServer(t, cfg)

	callTool(t, s, 1, "chat_with_agent", map[string]any{"message": "first question"})
	out := callTool(t, s, 2, "get_agent_status", map[string]any{})
	if !strings.Contains(out, "Journaled exchanges**: 1") {
		t.Errorf("status should report the journal: %s", out)
	}

	out = rpc(t, s, 3, "resources/read", map[string]any{"uri": "gpt-agent://journal/recent"})
	if !strings.Contains(out, "first question") {
		t.Errorf("journal resource: %s", out)
	}
}

func TestMetricsEnabled(t *testing.T) {
	var fail atomic.Int32
	cfg := testConfig(fakeOpenAI(t, &fail).URL)
	cfg.MetricsAddr = "127.0.0.1:0"
	s := newTestServer(t, cfg)

	out := callTool(t, s, 1, "chat_with_agent", map[string]any{"message": "what is the latest Go version"})
	if !strings.Contains(out, "Use a worker pool.") {
		t.Fatalf("chat response: %s", out)
	}
}

func TestServeMetrics(t *testing.T) {
	recorder := metrics.NewPrometheusRecorder()
	recorder.ObserveReset()

	addr, stop, err := serveMetrics("127.0.0.1:0", recorder.Handler(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("serveMetrics: %v", err)
	}
	defer stop()

	resp, err := http.Get("http://" + addr + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "gpt_agent_resets_total 1") {
		t.Errorf("metrics body missing reset counter:\n%s", body)
	}
}

func TestServeMetrics_BadAddr(t *testing.T) {
	if _, _, err := serveMetrics("not-an-address", http.NotFoundHandler(), slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Fatal("expected listen error")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Provider = "cohere"
	cfg.Model = "command"

	s, cleanup, err := New(cfg, nil)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if s != nil {
		t.Error("server should be nil on error")
	}
	if cleanup == nil {
		t.Fatal("cleanup must never be nil")
	}
	cleanup()
}
