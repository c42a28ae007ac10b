package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"foodie-planner/internal/database"
)

func newTestUsers(t *testing.T) *UserRepository {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db.SQL)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("Expected hash to differ from the plain password")
	}

	if !CheckPassword(hash, "correct horse battery") {
		t.Error("Expected the original password to match its hash")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("Expected a wrong password to be rejected")
	}
}

func TestValidatePassword(t *testing.T) {
	if msg := ValidatePassword("longenough"); msg != "" {
		t.Errorf("Expected no message for a valid password, got '%s'", msg)
	}
	if msg := ValidatePassword("short"); msg != "password must be at least 8 characters long" {
		t.Errorf("Unexpected message for a short password: '%s'", msg)
	}
}

func TestValidateEmail(t *testing.T) {
	ctx := context.Background()
	users := newTestUsers(t)

	t.Run("ValidAndUnused", func(t *testing.T) {
		msg, err := ValidateEmail(ctx, users, "new@example.com")
		if err != nil {
			t.Fatalf("ValidateEmail failed: %v", err)
		}
		if msg != "" {
			t.Errorf("Expected no message, got '%s'", msg)
		}
	})

	t.Run("BadFormat", func(t *testing.T) {
		for _, email := range []string{"", "plainaddress", "missing@tld", "@no-local.com"} {
			msg, err := ValidateEmail(ctx, users, email)
			if err != nil {
				t.Fatalf("ValidateEmail failed for '%s': %v", email, err)
			}
			if msg != "invalid email format" {
				t.Errorf("Expected format rejection for '%s', got '%s'", email, msg)
			}
		}
	})

	t.Run("AlreadyRegistered", func(t *testing.T) {
		if _, err := users.Create(ctx, "taken@example.com", "Someone", "hash"); err != nil {
			t.Fatalf("Failed to create user: %v", err)
		}

		msg, err := ValidateEmail(ctx, users, "taken@example.com")
		if err != nil {
			t.Fatalf("ValidateEmail failed: %v", err)
		}
		if msg != "email already in use" {
			t.Errorf("Expected duplicate rejection, got '%s'", msg)
		}
	})
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	users := newTestUsers(t)

	created, err := users.Create(ctx, "user@example.com", "Test User", "hashed")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Expected a generated user ID")
	}

	t.Run("GetByEmail", func(t *testing.T) {
		got, err := users.GetByEmail(ctx, "user@example.com")
		if err != nil {
			t.Fatalf("GetByEmail failed: %v", err)
		}
		if got == nil {
			t.Fatal("Expected a user, got nil")
		}
		if got.ID != created.ID || got.Name != "Test User" {
			t.Errorf("Unexpected user: %+v", got)
		}
	})

	t.Run("GetByEmailUnknown", func(t *testing.T) {
		got, err := users.GetByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetByEmail failed: %v", err)
		}
		if got != nil {
			t.Errorf("Expected nil for an unknown email, got %+v", got)
		}
	})

	t.Run("Updates", func(t *testing.T) {
		if err := users.UpdateName(ctx, created.ID, "Renamed"); err != nil {
			t.Fatalf("UpdateName failed: %v", err)
		}
		if err := users.UpdateEmail(ctx, created.ID, "renamed@example.com"); err != nil {
			t.Fatalf("UpdateEmail failed: %v", err)
		}
		if err := users.UpdatePassword(ctx, created.ID, "rehashed"); err != nil {
			t.Fatalf("UpdatePassword failed: %v", err)
		}

		got, err := users.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got == nil {
			t.Fatal("Expected the updated user, got nil")
		}
		if got.Name != "Renamed" || got.Email != "renamed@example.com" || got.PasswordHash != "rehashed" {
			t.Errorf("Updates not applied: %+v", got)
		}
	})
}

func TestTokenManager(t *testing.T) {
	manager := NewTokenManager("test-secret")

	t.Run("RoundTrip", func(t *testing.T) {
		token, err := manager.Issue("sess-123", "user-456", time.Hour)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}

		sessionID, userID, err := manager.Parse(token)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if sessionID != "sess-123" {
			t.Errorf("Expected session 'sess-123', got '%s'", sessionID)
		}
		if userID != "user-456" {
			t.Errorf("Expected user 'user-456', got '%s'", userID)
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := manager.Issue("sess-123", "user-456", time.Hour)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}

		if _, _, err := NewTokenManager("other-secret").Parse(token); err == nil {
			t.Error("Expected a token signed with a different secret to be rejected")
		}
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := manager.Issue("sess-123", "user-456", -time.Minute)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}

		if _, _, err := manager.Parse(token); err == nil {
			t.Error("Expected an expired token to be rejected")
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		if _, _, err := manager.Parse("not-a-token"); err == nil {
			t.Error("Expected garbage input to be rejected")
		}
	})
}
