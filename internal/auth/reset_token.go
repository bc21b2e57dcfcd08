package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// ResetTokenBytes is the entropy of a reset token before hex encoding.
const ResetTokenBytes = 32

// NewResetToken returns a random reset token and the digest to persist.
// Only the digest is stored; the token itself goes to the account holder.
func NewResetToken() (token, digest string, err error) {
	buf := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", Internal("generate reset token", err)
	}
	token = hex.EncodeToString(buf)
	return token, ResetTokenDigest(token), nil
}

// ResetTokenDigest is the lookup key stored for token.
func ResetTokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
