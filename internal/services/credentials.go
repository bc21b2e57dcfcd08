package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"clubhouse-server/internal/auth"
	"clubhouse-server/internal/models"
)

// lookupAccount resolves a login or reset identifier. Usernames cannot
// contain "@", so an identifier with one is always an email address.
func lookupAccount(ctx context.Context, accounts AccountStore, identifier string) (*models.Account, error) {
	if strings.Contains(identifier, "@") {
		return accounts.GetByEmail(ctx, identifier)
	}
	return accounts.GetByUsername(ctx, identifier)
}

func validatePassword(password string, minLen int) error {
	if password == "" {
		return auth.Validation("password is required")
	}
	if utf8.RuneCountInString(password) < minLen {
		return auth.Validation("password must be at least %d characters", minLen)
	}
	if len(password) > auth.MaxPasswordBytes {
		return auth.Validation("password must be at most %d bytes", auth.MaxPasswordBytes)
	}
	return nil
}

// fingerprint lets logs correlate attempts on an identifier without
// recording it.
func fingerprint(identifier string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(identifier)))
	return hex.EncodeToString(sum[:6])
}
