// gpt-agent: a software development assistant exposed as an MCP server
//
// The server speaks MCP over stdio and forwards questions to a
// chat-completion provider (OpenAI by default), keeping a short
// conversation history and adding web context to repeated failures.
//
// Usage:
//
//	gpt-agent serve [flags]   # Start MCP server (stdio transport)
//	gpt-agent version         # Print the version
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/pflag"

	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/config"
	agentserver "github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(os.Args[2:]); err != nil {
			if errors.Is(err, pflag.ErrHelp) {
				os.Exit(0)
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage(os.Stdout)
	case "--version", "-v", "version":
		fmt.Printf("gpt-agent v%s\n", agentserver.Version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(1)
	}
}

// serveFlags holds the serve command's flag values.
type serveFlags struct {
	set *pflag.FlagSet

	configPath  string
	provider    string
	model       string
	journal     string
	metricsAddr string
	debug       bool
}

func newServeFlags() *serveFlags {
	f := &serveFlags{set: pflag.NewFlagSet("serve", pflag.ContinueOnError)}
	f.set.StringVarP(&f.configPath, "config", "c", "", "path to a YAML config file")
	f.set.StringVar(&f.provider, "provider", "", "completion provider: openai, anthropic or gemini")
	f.set.StringVarP(&f.model, "model", "m", "", "model name (default depends on provider)")
	f.set.StringVar(&f.journal, "journal", "", "SQLite file recording every exchange")
	f.set.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	f.set.BoolVar(&f.debug, "debug", false, "log at debug level")
	return f
}

// apply overrides cfg with every flag set on the command line, then
// renormalizes it. Switching provider without a model drops the previous
// provider's default model and key.
func (f *serveFlags) apply(cfg *config.Config) {
	if f.set.Changed("provider") && f.provider != cfg.Provider {
		if !f.set.Changed("model") && cfg.Model == config.DefaultModelFor(cfg.Provider) {
			cfg.Model = ""
		}
		cfg.Provider = f.provider
		cfg.APIKey = ""
	}
	if f.set.Changed("model") {
		cfg.Model = f.model
	}
	if f.set.Changed("journal") {
		cfg.JournalPath = f.journal
	}
	if f.set.Changed("metrics-addr") {
		cfg.MetricsAddr = f.metricsAddr
	}
	if f.set.Changed("debug") {
		cfg.Debug = f.debug
	}
	cfg.Normalize()
}

func run(args []string) error {
	flags := newServeFlags()
	if err := flags.set.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	flags.apply(cfg)

	// stdout carries the MCP protocol; logs go to stderr.
	logger := newLogger(os.Stderr, cfg.Debug)
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	s, cleanup, err := agentserver.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Graceful shutdown on interrupt.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))

	err = stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `gpt-agent v%s - software development assistant MCP server

Usage:
  gpt-agent serve [flags]   Start the MCP server (stdio transport)
  gpt-agent version         Print the version

Serve flags:
%s
Environment:
  OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY   provider keys
  GPT_AGENT_PROVIDER, GPT_AGENT_MODEL (or OPENAI_MODEL), OPENAI_BASE_URL
  GPT_AGENT_JOURNAL, GPT_AGENT_METRICS_ADDR, GPT_AGENT_SEARCH_CACHE, DEBUG

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "gpt-agent": {
        "command": "gpt-agent",
        "args": ["serve"],
        "env": {"OPENAI_API_KEY": "sk-..."}
      }
    }
  }
`, agentserver.Version, newServeFlags().set.FlagUsages())
}
