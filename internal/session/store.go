package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Slot names for staged diet plans. All three are overwritten together on
// each new generation.
const (
	SlotDisplay  = "diet_plan_display"
	SlotDownload = "diet_plan_download"
	SlotSave     = "diet_plan_save"
)

// DefaultTTL is how long a session stays valid after creation.
const DefaultTTL = 24 * time.Hour

// Session represents an active authenticated session.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Store provides per-session key-value state backed by SQLite. Values survive
// across requests from the same client but are discarded when the session
// expires or is deleted.
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

// NewStore creates a new session Store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, ttl: DefaultTTL}
}

// Create creates a new session for a user and returns it.
func (s *Store) Create(ctx context.Context, userID string) (*Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, data, expires_at, created_at, updated_at) VALUES (?, ?, '{}', ?, ?, ?)`,
		sess.ID, sess.UserID, sess.ExpiresAt, sess.CreatedAt, sess.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

// Get retrieves a session by ID. It returns nil without error when the
// session does not exist or has expired.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = ? AND expires_at > ?`,
		id, time.Now().UTC(),
	).Scan(&sess.ID, &sess.UserID, &sess.ExpiresAt, &sess.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &sess, nil
}

// Value returns the value stored under key for a session, or the empty string
// when the key has never been set.
func (s *Store) Value(ctx context.Context, id, key string) (string, error) {
	data, err := s.data(ctx, s.db, id)
	if err != nil {
		return "", err
	}
	return data[key], nil
}

// SetValues stores all given key-value pairs in a single session write, so
// the update is atomic from the caller's perspective. Existing values for the
// given keys are overwritten wholesale.
func (s *Store) SetValues(ctx context.Context, id string, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin session update: %w", err)
	}
	defer tx.Rollback()

	data, err := s.data(ctx, tx, id)
	if err != nil {
		return err
	}
	for key, value := range values {
		data[key] = value
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET data = ?, updated_at = ? WHERE id = ?`,
		string(encoded), time.Now().UTC(), id,
	); err != nil {
		return fmt.Errorf("failed to update session data: %w", err)
	}

	return tx.Commit()
}

// Delete removes a session. Deleting an absent session is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CleanupExpired removes all expired sessions (optional maintenance task).
func (s *Store) CleanupExpired(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to clean up expired sessions: %w", err)
	}
	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) data(ctx context.Context, q queryRower, id string) (map[string]string, error) {
	var encoded string
	err := q.QueryRowContext(ctx, `SELECT data FROM sessions WHERE id = ?`, id).Scan(&encoded)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session data: %w", err)
	}

	data := make(map[string]string)
	if err := json.Unmarshal([]byte(encoded), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	return data, nil
}
