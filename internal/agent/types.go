// Package agent is the decision-and-bookkeeping core of the gpt-agent server.
//
// It tracks consecutive failures per topic, decides when a request should be
// augmented with supplementary search text, keeps a bounded conversation
// window and maps upstream failures to user-facing text. The two external
// services (completion and search) are reached through the Completer and
// Searcher interfaces; the MCP transport lives in internal/tools.
package agent

import "context"

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single role/content entry in a conversation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserTurn builds a user turn.
func UserTurn(content string) Turn { return Turn{Role: RoleUser, Content: content} }

// AssistantTurn builds an assistant turn.
func AssistantTurn(content string) Turn { return Turn{Role: RoleAssistant, Content: content} }

// SystemTurn builds a system turn.
func SystemTurn(content string) Turn { return Turn{Role: RoleSystem, Content: content} }

// ─── Collaborators ──────────────────────────────────────────────────────────

// Completion parameters sent with every chat request.
const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
)

// CompletionRequest is the composed request handed to a Completer.
type CompletionRequest struct {
	Model       string
	Messages    []Turn
	MaxTokens   int
	Temperature float64
}

// Completer generates the assistant reply for a composed request.
//
// Implementations should return errors that expose the upstream HTTP status
// through a StatusCode() int method so failures can be classified.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Searcher fetches supplementary context for a message. attempts is the
// number of consecutive failures already recorded for the message's topic.
type Searcher interface {
	Search(ctx context.Context, query string, attempts int) (string, error)
}
