package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_session_store.go -package=mocks dory-ai/internal/storage SessionStore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SessionKey builds the session key for a user in a channel.
func SessionKey(userID, channelID string) string {
	return userID + ":" + channelID
}

// SessionStore defines the interface for chat session persistence.
type SessionStore interface {
	// History returns the stored turns for a session in order.
	// An unknown session yields an empty slice, not an error.
	History(ctx context.Context, sessionKey string) ([]Turn, error)
	// UpdateHistory replaces the stored turns for a session, keeping only
	// the most recent turns up to the store's limit.
	UpdateHistory(ctx context.Context, sessionKey string, turns []Turn) error
	// Sources returns the citation lines recorded for the session's last
	// answer. An unknown session yields an empty slice, not an error.
	Sources(ctx context.Context, sessionKey string) ([]string, error)
	// SetSources records the citation lines for the session's last answer.
	SetSources(ctx context.Context, sessionKey string, citations []string) error
}

// SessionRepo provides methods for chat session persistence.
// It implements the SessionStore interface.
type SessionRepo struct {
	db       *sql.DB
	maxTurns int
}

// NewSessionRepo creates a new SessionRepo. maxTurns caps how many turns
// UpdateHistory keeps per session; zero or negative means unlimited.
func NewSessionRepo(db *sql.DB, maxTurns int) *SessionRepo {
	return &SessionRepo{db: db, maxTurns: maxTurns}
}

// History returns the stored turns for a session in order.
func (r *SessionRepo) History(ctx context.Context, sessionKey string) ([]Turn, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, session_key, seq, role, content FROM turns WHERE session_key = ? ORDER BY seq",
		sessionKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.SessionKey, &t.Seq, &t.Role, &t.Content); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read turns: %w", err)
	}

	return turns, nil
}

// UpdateHistory replaces the stored turns for a session. Only the most
// recent maxTurns turns are kept; older ones are dropped so long sessions
// stay bounded.
func (r *SessionRepo) UpdateHistory(ctx context.Context, sessionKey string, turns []Turn) error {
	if r.maxTurns > 0 && len(turns) > r.maxTurns {
		turns = turns[len(turns)-r.maxTurns:]
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM turns WHERE session_key = ?", sessionKey); err != nil {
		return fmt.Errorf("failed to clear turns: %w", err)
	}

	for i, t := range turns {
		id := t.ID
		if id == "" {
			id = uuid.New().String()
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO turns (id, session_key, seq, role, content) VALUES (?, ?, ?, ?, ?)",
			id, sessionKey, i, t.Role, t.Content,
		); err != nil {
			return fmt.Errorf("failed to insert turn: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit turns: %w", err)
	}

	return nil
}

// Sources returns the citation lines recorded for the session's last answer.
func (r *SessionRepo) Sources(ctx context.Context, sessionKey string) ([]string, error) {
	var citation string
	err := r.db.QueryRowContext(ctx,
		"SELECT citation FROM sources WHERE session_key = ?",
		sessionKey,
	).Scan(&citation)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}

	if citation == "" {
		return nil, nil
	}
	return strings.Split(citation, "\n"), nil
}

// SetSources records the citation lines for the session's last answer.
// Lines are stored newline-joined in a single row per session.
func (r *SessionRepo) SetSources(ctx context.Context, sessionKey string, citations []string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sources (session_key, citation, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (session_key) DO UPDATE SET
		 citation = excluded.citation, updated_at = CURRENT_TIMESTAMP`,
		sessionKey, strings.Join(citations, "\n"),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert sources: %w", err)
	}

	return nil
}
