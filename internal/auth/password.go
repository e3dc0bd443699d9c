package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"go-task-manager/pkg/apierror"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a bcrypt hasher. A cost outside bcrypt's bounds
// falls back to bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash salts and hashes password. Passwords over MaxPasswordBytes are a
// validation error, counted in bytes rather than characters.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", apierror.Validation(fmt.Sprintf("Password must be at most %d bytes", MaxPasswordBytes), "password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apierror.Validation(fmt.Sprintf("Password must be at most %d bytes", MaxPasswordBytes), "password").Wrap(err)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hashed. A mismatch is (false, nil);
// a stored hash bcrypt cannot parse is returned as an error.
func (h *PasswordHasher) Verify(password string, hashed string) (bool, error) {
	if _, err := bcrypt.Cost([]byte(hashed)); err != nil {
		return false, fmt.Errorf("verify password: %w", err)
	}
	// Hash never stores such a password, so it cannot match.
	if len(password) > MaxPasswordBytes {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("verify password: %w", err)
}
