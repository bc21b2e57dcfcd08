package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	// Hash returns a salted digest of password. The salt and cost are
	// embedded in the digest.
	Hash(password string) (string, error)

	// Verify reports whether password matches digest. Malformed digests
	// never match.
	Verify(password, digest string) bool
}

// BcryptHasher is the only PasswordHasher used for password writes.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	switch {
	case cost < bcrypt.MinCost:
		cost = bcrypt.DefaultCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Cost() int {
	return h.cost
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", Validation("password cannot be empty")
	}
	if len(password) > MaxPasswordBytes {
		return "", Validation("password must be at most %d bytes", MaxPasswordBytes)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", Validation("password must be at most %d bytes", MaxPasswordBytes)
		}
		return "", Internal("hash password", err)
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(password, digest string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

var _ PasswordHasher = (*BcryptHasher)(nil)
