package middleware

import (
	"log/slog"
	"time"

	"clubhouse-server/internal/utils"
	"github.com/gin-gonic/gin"
)

// Logger writes one line per request. Errors handlers attached with c.Error
// are logged separately with their code and context.
func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		requestID := c.GetString(RequestIDHeader)
		status := c.Writer.Status()

		for _, ginErr := range c.Errors {
			utils.LogError(c.Request.Context(), log, "request failed", ginErr.Err,
				"path", c.Request.URL.Path,
				"request_id", requestID,
			)
		}

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		}
		log.Log(c.Request.Context(), level, "request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", latency,
			"request_id", requestID,
			"ip", c.ClientIP(),
		)
	}
}
