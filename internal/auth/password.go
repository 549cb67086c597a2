// Package auth holds the credential primitives: password digests, signed
// access tokens, and bearer header parsing.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher produces salted bcrypt digests.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using the given bcrypt cost.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d outside [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordHasher{cost: cost}, nil
}

// Hash returns a new digest for password. It errors if the password is longer
// than 72 bytes.
func (h *PasswordHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether password matches digest. Malformed digests never match.
func (h *PasswordHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
