package middleware

import (
	"slices"

	"clubhouse-server/internal/auth"
	"clubhouse-server/internal/utils"
	"github.com/gin-gonic/gin"
)

// RequireRole must run after JWTAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(roles, c.GetString(ContextRole)) {
			utils.RespondError(c, auth.Forbidden("insufficient role"))
			c.Abort()
			return
		}
		c.Next()
	}
}
