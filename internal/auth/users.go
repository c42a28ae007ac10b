package auth

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User is a registered account.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository persists user accounts.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create stores a new user and returns it with its generated ID.
func (r *UserRepository) Create(ctx context.Context, email, name, passwordHash string) (*User, error) {
	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetByEmail returns the user registered under email, or nil when no such
// user exists.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getBy(ctx, `SELECT id, email, name, password_hash, created_at FROM users WHERE email = ?`, email)
}

// GetByID returns the user with the given ID, or nil when no such user exists.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getBy(ctx, `SELECT id, email, name, password_hash, created_at FROM users WHERE id = ?`, id)
}

func (r *UserRepository) getBy(ctx context.Context, query, arg string) (*User, error) {
	var user User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return &user, nil
}

// UpdateName changes the user's display name.
func (r *UserRepository) UpdateName(ctx context.Context, id, name string) error {
	return r.update(ctx, `UPDATE users SET name = ? WHERE id = ?`, name, id)
}

// UpdateEmail changes the user's email address.
func (r *UserRepository) UpdateEmail(ctx context.Context, id, email string) error {
	return r.update(ctx, `UPDATE users SET email = ? WHERE id = ?`, email, id)
}

// UpdatePassword changes the user's password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.update(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
}

func (r *UserRepository) update(ctx context.Context, query string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
