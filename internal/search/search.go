// Package search provides the supplementary-context collaborators used when
// a chat request is augmented.
//
// Synthesizer builds deterministic guidance text locally; Cache memoises
// any agent.Searcher with a bounded LRU.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/agent"
)

// Synthesizer produces locally synthesized supplementary text for a query.
// It performs no network I/O and never fails unless ctx is already done.
type Synthesizer struct{}

// NewSynthesizer creates a Synthesizer.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

// Search implements agent.Searcher.
func (s *Synthesizer) Search(ctx context.Context, query string, attempts int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("search: %w", err)
	}

	lower := strings.ToLower(query)
	var sb strings.Builder
	fmt.Fprintf(&sb, "Search summary for %q.", strings.TrimSpace(query))

	if attempts >= agent.FailedAttemptsThreshold {
		fmt.Fprintf(&sb, " Previous answers on this topic failed %d times; "+
			"take a different approach and keep the answer self-contained.", attempts)
	}
	if containsAny(lower, "version", "latest", "current", "release", "update", "upgrade") {
		sb.WriteString(" Versions change often: name the version your answer targets " +
			"and check the project's release notes and changelog for the newest release.")
	}
	if containsAny(lower, "api", "docs", "documentation", "reference", "endpoint") {
		sb.WriteString(" Prefer the official API reference; note any deprecated " +
			"endpoints or parameters and their replacements.")
	}
	sb.WriteString(" Cite official sources by name so the user can verify them.")
	return sb.String(), nil
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
