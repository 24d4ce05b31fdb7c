package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogauth/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes passwords with bcrypt. The salt is generated per call
// and stored inside the hash string.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost, falling back to
// bcrypt.DefaultCost when cost is out of bcrypt's range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt hash of plaintext. Empty passwords and passwords
// longer than 72 bytes are rejected with common.ErrInvalidInput.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("%w: password is empty", common.ErrInvalidInput)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password is too long", common.ErrInvalidInput)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches hashed. A malformed hash is a
// mismatch.
func (h *BcryptHasher) Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
