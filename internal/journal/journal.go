// Package journal records finished chat exchanges in a local SQLite file.
//
// The journal is write-mostly: the orchestrator appends one row per chat
// call and the status tool reads the row count. It is optional; the server
// runs without it when no path is configured.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/agent"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Entry is one journaled exchange as read back from the database.
type Entry struct {
	ID          int64         `json:"id"`
	RequestID   string        `json:"request_id"`
	TopicKey    string        `json:"topic_key"`
	Reason      string        `json:"reason,omitempty"`
	Augmented   bool          `json:"augmented"`
	Message     string        `json:"message"`
	Context     string        `json:"context,omitempty"`
	Response    string        `json:"response"`
	Outcome     string        `json:"outcome"`
	FailureKind string        `json:"failure_kind,omitempty"`
	Attempts    int           `json:"attempts"`
	Duration    time.Duration `json:"duration"`
	CreatedAt   string        `json:"created_at"`
}

// Store is the SQLite-backed journal.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("journal: create dir: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("journal: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS exchanges (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			request_id   TEXT    NOT NULL,
			topic_key    TEXT    NOT NULL,
			reason       TEXT,
			augmented    INTEGER NOT NULL DEFAULT 0,
			message      TEXT    NOT NULL,
			context      TEXT,
			response     TEXT    NOT NULL,
			outcome      TEXT    NOT NULL,
			failure_kind TEXT,
			attempts     INTEGER NOT NULL DEFAULT 0,
			duration_ms  INTEGER NOT NULL DEFAULT 0,
			created_at   TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_exchanges_topic   ON exchanges(topic_key);
		CREATE INDEX IF NOT EXISTS idx_exchanges_created ON exchanges(created_at DESC);
	`)
	return err
}

// Record implements agent.Journal.
func (s *Store) Record(ctx context.Context, ex agent.Exchange) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exchanges
			(request_id, topic_key, reason, augmented, message, context, response, outcome, failure_kind, attempts, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ex.RequestID,
		ex.TopicKey,
		nullable(string(ex.Reason)),
		ex.Augmented,
		ex.Message,
		nullable(ex.Context),
		ex.Response,
		string(ex.Outcome),
		nullable(string(ex.FailureKind)),
		ex.Attempts,
		ex.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("journal: insert exchange: %w", err)
	}
	return nil
}

// Count implements agent.Journal.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exchanges`).Scan(&n); err != nil {
		return 0, fmt.Errorf("journal: count: %w", err)
	}
	return n, nil
}

// Recent returns up to limit exchanges, newest first. Topic filters by
// topic key when non-empty.
func (s *Store) Recent(ctx context.Context, topic string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, request_id, topic_key, reason, augmented, message, context,
			response, outcome, failure_kind, attempts, duration_ms, created_at
		FROM exchanges`
	args := []any{}
	if topic != "" {
		query += ` WHERE topic_key = ?`
		args = append(args, topic)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: query recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var (
			e                            Entry
			reason, ctxText, failureKind sql.NullString
			durationMS                   int64
		)
		if err := rows.Scan(
			&e.ID, &e.RequestID, &e.TopicKey, &reason, &e.Augmented, &e.Message, &ctxText,
			&e.Response, &e.Outcome, &failureKind, &e.Attempts, &durationMS, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		e.Reason = reason.String
		e.Context = ctxText.String
		e.FailureKind = failureKind.String
		e.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
