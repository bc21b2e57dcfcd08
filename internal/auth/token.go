package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// TokenIssuer is the iss claim stamped on every session token.
const TokenIssuer = "clubhouse"

// Identity is the account data embedded in a session token.
type Identity struct {
	AccountID string
	Username  string
	Role      string
}

// Claims are the signed contents of a session token.
type Claims struct {
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity {
	return Identity{AccountID: c.AccountID, Username: c.Username, Role: c.Role}
}

// TokenCodec issues and verifies stateless HS256 session tokens. There is
// no server-side session table: a token stays valid until it expires, and
// rotating the secret invalidates every outstanding token.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

type TokenOption func(*TokenCodec)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

func NewTokenCodec(secret string, opts ...TokenOption) *TokenCodec {
	c := &TokenCodec{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue signs a token for id that expires ttl after now.
func (c *TokenCodec) Issue(id Identity, ttl time.Duration) (string, time.Time, error) {
	if len(c.secret) == 0 {
		return "", time.Time{}, Internal("issue token", errors.New("signing secret is empty"))
	}
	if ttl <= 0 {
		return "", time.Time{}, Internal("issue token", errors.New("token ttl must be positive"))
	}

	// NumericDate has second precision; truncating here keeps exp == iat + ttl.
	issuedAt := c.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(ttl)
	claims := Claims{
		AccountID: id.AccountID,
		Username:  id.Username,
		Role:      id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Subject:   id.AccountID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, Internal("sign token", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature and expiry of token. A token is expired once
// now reaches its exp claim.
func (c *TokenCodec) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, oops.Code(CodeTokenMalformed).Errorf("token is empty")
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, oops.Code(CodeTokenExpired).Errorf("token has expired")
		}
		return nil, oops.Code(CodeTokenMalformed).With("reason", err.Error()).Errorf("token is invalid")
	}
	if !parsed.Valid || claims.AccountID == "" {
		return nil, oops.Code(CodeTokenMalformed).Errorf("token is invalid")
	}
	return claims, nil
}
