package journal

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/agent"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, s.Record(ctx, agent.Exchange{
		RequestID: "r1",
		TopicKey:  "what is the latest version of React?",
		Reason:    agent.ReasonVersionCheck,
		Augmented: true,
		Message:   "what is the latest version of React?",
		Response:  "React 19",
		Outcome:   agent.OutcomeSucceeded,
		Duration:  1500 * time.Millisecond,
	}))
	require.NoError(t, s.Record(ctx, agent.Exchange{
		RequestID:   "r2",
		TopicKey:    "linker",
		Message:     "linker",
		Context:     "cgo build",
		Response:    "Rate limit exceeded. Please try again later.",
		Outcome:     agent.OutcomeFailed,
		FailureKind: agent.FailureRateLimit,
		Attempts:    1,
	}))

	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, topic := range []string{"a", "b", "a"} {
		require.NoError(t, s.Record(ctx, agent.Exchange{
			RequestID: string(rune('x' + i)),
			TopicKey:  topic,
			Message:   topic,
			Response:  "ok",
			Outcome:   agent.OutcomeSucceeded,
		}))
	}

	all, err := s.Recent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "z", all[0].RequestID, "newest first")

	onlyA, err := s.Recent(ctx, "a", 0)
	require.NoError(t, err)
	require.Len(t, onlyA, 2)
	for _, e := range onlyA {
		assert.Equal(t, "a", e.TopicKey)
		assert.Empty(t, e.Reason)
		assert.False(t, e.Augmented)
	}

	limited, err := s.Recent(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecent_RoundTripsFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, agent.Exchange{
		RequestID:   "r1",
		TopicKey:    "t",
		Reason:      agent.ReasonFailedAttempts,
		Augmented:   true,
		Message:     "m",
		Context:     "c",
		Response:    "resp",
		Outcome:     agent.OutcomeFailed,
		FailureKind: agent.FailureAuth,
		Attempts:    3,
		Duration:    250 * time.Millisecond,
	}))

	entries, err := s.Recent(ctx, "t", 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "failed_attempts", e.Reason)
	assert.True(t, e.Augmented)
	assert.Equal(t, "c", e.Context)
	assert.Equal(t, "auth", e.FailureKind)
	assert.Equal(t, 3, e.Attempts)
	assert.Equal(t, 250*time.Millisecond, e.Duration)
	assert.NotEmpty(t, e.CreatedAt)
}

func TestOpen_DriverError(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(string, string) (*sql.DB, error) {
		return nil, errors.New("driver unavailable")
	}

	_, err := Open(filepath.Join(t.TempDir(), "j.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "driver unavailable")
}

func TestStoreSatisfiesJournal(t *testing.T) {
	var _ agent.Journal = newTestStore(t)
}
