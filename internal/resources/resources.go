// Package resources implements MCP resource handlers for the agent.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (gpt-agent://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/agent"
	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/journal"
)

// Resource URIs.
const (
	StatusURI  = "gpt-agent://status"
	JournalURI = "gpt-agent://journal/recent"
)

// recentLimit caps the journal resource.
const recentLimit = 20

// StatusSource reports the agent state.
type StatusSource interface {
	Status(ctx context.Context) agent.Status
}

// JournalSource lists recent exchanges.
type JournalSource interface {
	Recent(ctx context.Context, topic string, limit int) ([]journal.Entry, error)
}

// Handler manages agent resource endpoints.
type Handler struct {
	status  StatusSource
	journal JournalSource
}

// NewHandler creates a resource Handler. recent may be nil.
func NewHandler(status StatusSource, recent JournalSource) *Handler {
	return &Handler{status: status, journal: recent}
}

// StatusResource returns the MCP resource definition for the agent status.
func (h *Handler) StatusResource() mcp.Resource {
	return mcp.NewResource(
		StatusURI,
		"Agent Status",
		mcp.WithResourceDescription("Configured model, conversation length and pending retries"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStatus returns the agent status as JSON.
func (h *Handler) HandleStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	st := h.status.Status(ctx)
	return jsonResource(req.Params.URI, map[string]any{
		"model":           st.Model,
		"provider":        st.Provider,
		"window_len":      st.WindowLen,
		"tracked_topics":  st.TrackedTopics,
		"journal_enabled": st.JournalEnabled,
		"journaled":       st.Journaled,
	})
}

// JournalResource returns the MCP resource definition for recent exchanges.
func (h *Handler) JournalResource() mcp.Resource {
	return mcp.NewResource(
		JournalURI,
		"Recent Exchanges",
		mcp.WithResourceDescription("The most recent journaled chat exchanges, newest first"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleJournal returns recent exchanges as JSON.
func (h *Handler) HandleJournal(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.journal == nil {
		return errorResource(req.Params.URI, "journal is disabled"), nil
	}
	entries, err := h.journal.Recent(ctx, "", recentLimit)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	return jsonResource(req.Params.URI, entries)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling resource: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
