package auth

import (
	"context"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// ValidateEmail checks the email format and that it is not already registered.
// It returns a user-facing message on failure and the empty string otherwise.
func ValidateEmail(ctx context.Context, users *UserRepository, email string) (string, error) {
	if !emailPattern.MatchString(email) {
		return "invalid email format", nil
	}

	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "email already in use", nil
	}

	return "", nil
}

// ValidatePassword checks the password against the minimum length rule. It
// returns a user-facing message on failure and the empty string otherwise.
func ValidatePassword(password string) string {
	if len(password) < MinPasswordLength {
		return fmt.Sprintf("password must be at least %d characters long", MinPasswordLength)
	}
	return ""
}

// HashPassword hashes a password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
