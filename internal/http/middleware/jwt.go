package middleware

import (
	"strings"

	"clubhouse-server/internal/auth"
	"clubhouse-server/internal/utils"
	"github.com/gin-gonic/gin"
)

// Context keys set by JWTAuth.
const (
	ContextAccountID = "account_id"
	ContextUsername  = "username"
	ContextRole      = "role"
)

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// JWTAuth rejects requests without a valid Bearer session token and exposes
// the token's identity to later handlers.
func JWTAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, tokenStr, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenStr) == "" {
			utils.RespondUnauthorized(c, "missing token")
			return
		}

		claims, err := tokens.Verify(strings.TrimSpace(tokenStr))
		if err != nil {
			utils.RespondUnauthorized(c, "invalid token")
			return
		}

		c.Set(ContextAccountID, claims.AccountID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// CurrentIdentity returns the identity JWTAuth stored on c.
func CurrentIdentity(c *gin.Context) (auth.Identity, bool) {
	id := c.GetString(ContextAccountID)
	if id == "" {
		return auth.Identity{}, false
	}
	return auth.Identity{
		AccountID: id,
		Username:  c.GetString(ContextUsername),
		Role:      c.GetString(ContextRole),
	}, true
}
