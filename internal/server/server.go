// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts and resources that depend on
// abstractions. No business logic lives here, only wiring.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/agent"
	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/config"
	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/journal"
	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/llm"
	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/metrics"
	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/prompts"
	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/resources"
	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/search"
	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Name is the MCP server name announced to hosts.
const Name = "gpt-agent"

// New creates and configures the MCP server with all tools, prompts and
// resources registered. This is the single place where all dependencies
// are resolved.
//
// The returned cleanup function stops the metrics listener and closes the
// journal. It is always non-nil and safe to call even when New fails.
func New(cfg *config.Config, logger *slog.Logger) (*server.MCPServer, func(), error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := cfg.Validate(); err != nil {
		return nil, noop, fmt.Errorf("invalid configuration: %w", err)
	}

	// --- Create shared dependencies ---

	completer, err := llm.New(llm.Options{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
	})
	if err != nil {
		return nil, noop, fmt.Errorf("creating completer: %w", err)
	}

	searcher, err := search.NewCache(search.NewSynthesizer(), cfg.SearchCacheSize)
	if err != nil {
		return nil, noop, fmt.Errorf("creating search cache: %w", err)
	}

	orch := agent.New(agent.Config{
		Model:     cfg.Model,
		Provider:  cfg.Provider,
		Completer: completer,
		Searcher:  searcher,
		Logger:    logger,
	})

	// --- Optional subsystems ---
	//
	// The journal and the metrics listener are independent of the chat
	// path: if either fails to start, the server still answers tools.

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var store *journal.Store
	if cfg.JournalPath != "" {
		store, err = journal.Open(cfg.JournalPath)
		if err != nil {
			logger.Warn("journal disabled", "path", cfg.JournalPath, "error", err)
			store = nil
		} else {
			orch.SetJournal(store)
			closers = append(closers, func() {
				if err := store.Close(); err != nil {
					logger.Warn("journal close", "error", err)
				}
			})
			logger.Info("journal enabled", "path", cfg.JournalPath)
		}
	}

	if cfg.MetricsAddr != "" {
		recorder := metrics.NewPrometheusRecorder()
		_, stop, err := serveMetrics(cfg.MetricsAddr, recorder.Handler(), logger)
		if err != nil {
			logger.Warn("metrics disabled", "addr", cfg.MetricsAddr, "error", err)
		} else {
			orch.SetRecorder(recorder)
			closers = append(closers, stop)
		}
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	chatTool := tools.NewChatTool(orch)
	s.AddTool(chatTool.Definition(), chatTool.Handle)

	resetTool := tools.NewResetTool(orch)
	s.AddTool(resetTool.Definition(), resetTool.Handle)

	statusTool := tools.NewStatusTool(orch)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	// --- Register prompts ---

	debugPrompt := prompts.NewDebugPrompt()
	s.AddPrompt(debugPrompt.Definition(), debugPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	var src resources.JournalSource
	if store != nil {
		src = store
	}
	resourceHandler := resources.NewHandler(orch, src)
	s.AddResource(resourceHandler.StatusResource(), resourceHandler.HandleStatus)
	if store != nil {
		s.AddResource(resourceHandler.JournalResource(), resourceHandler.HandleJournal)
	}

	logger.Info("server ready",
		"version", Version,
		"provider", cfg.Provider,
		"model", cfg.Model,
	)
	return s, cleanup, nil
}

// noop is the cleanup returned when nothing was started.
func noop() {}

// serveMetrics starts an HTTP listener exposing /metrics. It returns the
// bound address and a function that shuts the listener down.
func serveMetrics(addr string, h http.Handler, logger *slog.Logger) (string, func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics listener stopped", "error", err)
		}
	}()
	logger.Info("metrics listening", "addr", ln.Addr().String())

	return ln.Addr().String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

// serverInstructions returns the system instructions that tell the host AI
// how to use the agent.
func serverInstructions() string {
	return `You have access to gpt-agent, a software development assistant backed by a chat-completion model.

## Tools

- chat_with_agent(message, context?): ask a question about software architecture,
  full-stack development or debugging. Put code, logs or project details in
  "context" rather than in "message".
- reset_conversation(): clear the agent's conversation history and retry counters.
- get_agent_status(): show the model, conversation length and topics with failed attempts.

## Behaviour

- The agent remembers the last few exchanges; call reset_conversation when switching
  to an unrelated task.
- Questions about versions, releases or APIs are answered with extra web context.
- When a question fails, retry it with the same wording: after three consecutive
  failures on the same topic the agent adds web context automatically.
- Failures are reported as plain text (authentication, rate limit, bad request or
  a communication error). Relay them to the user instead of retrying blindly on
  authentication errors.`
}
