package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestCodec(secret string) (*TokenCodec, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewTokenCodec(secret, WithClock(clock.Now)), clock
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec, clock := newTestCodec("test-secret-value")
	id := Identity{AccountID: "acc-1", Username: "alice", Role: "staff"}

	token, expiresAt, err := codec.Issue(id, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, clock.now.Add(time.Hour), expiresAt)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Identity())
	assert.Equal(t, "acc-1", claims.Subject)
	assert.Equal(t, TokenIssuer, claims.Issuer)
	assert.Equal(t, clock.now, claims.IssuedAt.Time.UTC())
}

func TestTokenCodec_ExpiryBoundary(t *testing.T) {
	codec, clock := newTestCodec("test-secret-value")
	issuedAt := clock.now
	ttl := 30 * time.Minute

	token, _, err := codec.Issue(Identity{AccountID: "acc-1", Username: "alice", Role: "staff"}, ttl)
	require.NoError(t, err)

	clock.now = issuedAt.Add(ttl - time.Second)
	_, err = codec.Verify(token)
	require.NoError(t, err)

	clock.now = issuedAt.Add(ttl)
	_, err = codec.Verify(token)
	require.Error(t, err)
	assert.Equal(t, CodeTokenExpired, CodeOf(err))

	clock.now = issuedAt.Add(ttl + time.Hour)
	_, err = codec.Verify(token)
	assert.Equal(t, CodeTokenExpired, CodeOf(err))
}

func TestTokenCodec_RejectsMalformedTokens(t *testing.T) {
	codec, _ := newTestCodec("test-secret-value")
	other, _ := newTestCodec("another-secret-value")

	foreign, _, err := other.Issue(Identity{AccountID: "acc-1", Username: "alice", Role: "staff"}, time.Hour)
	require.NoError(t, err)

	valid, _, err := codec.Issue(Identity{AccountID: "acc-1", Username: "alice", Role: "staff"}, time.Hour)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		AccountID: "acc-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: foreign},
		{name: "tampered payload", token: valid[:len(valid)-4] + "AAAA"},
		{name: "alg none", token: unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Verify(tt.token)
			require.Error(t, err)
			assert.Equal(t, CodeTokenMalformed, CodeOf(err))
		})
	}
}

func TestTokenCodec_RejectsBadIssueInput(t *testing.T) {
	_, _, err := NewTokenCodec("").Issue(Identity{AccountID: "acc-1"}, time.Hour)
	assert.Equal(t, CodeInternal, CodeOf(err))

	_, _, err = NewTokenCodec("secret").Issue(Identity{AccountID: "acc-1"}, 0)
	assert.Equal(t, CodeInternal, CodeOf(err))
}
