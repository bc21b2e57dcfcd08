package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"clubhouse-server/internal/auth"
	"clubhouse-server/internal/utils"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

func Health(c *gin.Context) {
	utils.RespondOK(c, gin.H{"status": "ok"})
}

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ready reports 503 until the database answers a ping.
func Ready(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		utils.RespondOK(c, gin.H{"status": "ready"})
	}
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, auth.Validation("id must be a positive integer")
	}
	return id, nil
}

func parseIntDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseDate(field, value string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, auth.Validation("%s must be YYYY-MM-DD", field)
	}
	return parsed, nil
}
