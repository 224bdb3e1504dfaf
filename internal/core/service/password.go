package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/finance-tracker/finance-api/internal/core/domain"
)

// BcryptHasher hashes passwords with bcrypt. Each hash embeds its own salt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, or bcrypt.DefaultCost when cost
// is outside the range bcrypt accepts.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash fails with domain.ErrPasswordTooLong for inputs over bcrypt's limit.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > domain.MaxPasswordBytes {
		return "", domain.ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.ErrPasswordTooLong
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. A malformed hash never
// matches, and neither does a plaintext over bcrypt's limit: bcrypt would
// compare only its first 72 bytes.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	if hash == "" || len(plaintext) > domain.MaxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
