// Package llm adapts chat-completion provider SDKs to agent.Completer.
//
// Every provider maps agent turns to its own message shape and normalises
// SDK failures to *Error so the orchestrator can classify them by HTTP
// status. SDK-level automatic retries are disabled: the per-topic failure
// counter is the only retry mechanism.
package llm

import (
	"fmt"
	"strings"

	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/agent"
)

// Provider names.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Providers lists the supported provider names.
func Providers() []string {
	return []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini}
}

// Options configures a provider client.
type Options struct {
	Provider string
	APIKey   string
	BaseURL  string // empty: provider default
}

// New returns the Completer for opts.Provider. An empty provider selects OpenAI.
func New(opts Options) (agent.Completer, error) {
	switch strings.ToLower(opts.Provider) {
	case "", ProviderOpenAI:
		return NewOpenAI(opts.APIKey, opts.BaseURL), nil
	case ProviderAnthropic:
		return NewAnthropic(opts.APIKey, opts.BaseURL), nil
	case ProviderGemini:
		return NewGemini(opts.APIKey, opts.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want one of %s)", opts.Provider, strings.Join(Providers(), ", "))
	}
}

// splitSystem separates system turns from the conversation. Providers that
// take the system prompt out of band use it; multiple system turns are
// joined with a blank line.
func splitSystem(turns []agent.Turn) (string, []agent.Turn) {
	var system []string
	rest := make([]agent.Turn, 0, len(turns))
	for _, t := range turns {
		if t.Role == agent.RoleSystem {
			system = append(system, t.Content)
			continue
		}
		rest = append(rest, t)
	}
	return strings.Join(system, "\n\n"), rest
}
