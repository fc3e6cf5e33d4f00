package agent

import (
	"fmt"
	"strings"
)

// systemInstructions is the fixed system prompt for every completion.
const systemInstructions = "You are an expert software development assistant specializing in " +
	"software architecture, full-stack development, and debugging. " +
	"Give precise, practical answers with working code examples where they help, " +
	"explain trade-offs briefly, and say so when you are unsure."

// augmentedInstructions is appended to the system prompt when the request
// carries supplementary search text.
const augmentedInstructions = " You have access to current web information provided below " +
	"the user's question; prefer it over older knowledge when they disagree."

// ComposeInput is everything the composer needs for one request.
type ComposeInput struct {
	Message    string
	Context    string
	History    []Turn
	Augmented  bool
	SearchText string
}

// Compose builds the ordered message list for the completion collaborator:
// the system turn, the window history and the current user turn.
func Compose(in ComposeInput) []Turn {
	system := systemInstructions
	if in.Augmented {
		system += augmentedInstructions
	}

	messages := make([]Turn, 0, len(in.History)+2)
	messages = append(messages, SystemTurn(system))
	messages = append(messages, in.History...)
	messages = append(messages, UserTurn(composeUserContent(in)))
	return messages
}

func composeUserContent(in ComposeInput) string {
	var sb strings.Builder
	if in.Context != "" {
		sb.WriteString("Context: ")
		sb.WriteString(in.Context)
		sb.WriteString("\n\nQuestion: ")
	}
	sb.WriteString(in.Message)
	if in.Augmented {
		sb.WriteString("\n\nWeb Search Results: ")
		sb.WriteString(in.SearchText)
	}
	return sb.String()
}

// FallbackSearchText is the locally synthesized stand-in used when the
// Searcher fails. It is deterministic for a given query and attempt count.
func FallbackSearchText(query string, attempts int) string {
	return fmt.Sprintf(
		"No live search results were available for %q (previous failed attempts: %d). "+
			"Answer from existing knowledge, state which version your answer applies to, "+
			"and point to the official documentation, release notes and changelog for current details.",
		query, attempts,
	)
}
