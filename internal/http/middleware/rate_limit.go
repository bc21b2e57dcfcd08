package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"clubhouse-server/internal/utils"
	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed one-minute window counter per client IP.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	items     map[string]*rateEntry
	lastSweep time.Time
}

type rateEntry struct {
	count int
	reset time.Time
}

// NewRateLimiter allows limit requests per minute per IP. A limit <= 0
// disables limiting.
func NewRateLimiter(limit int) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: time.Minute,
		now:    time.Now,
		items:  make(map[string]*rateEntry),
	}
}

// Allow counts a request from key and reports whether it is within the
// limit, and if not, how long until the window resets.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	if rl.limit <= 0 {
		return true, 0
	}
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.sweep(now)
	entry, ok := rl.items[key]
	if !ok || !now.Before(entry.reset) {
		entry = &rateEntry{reset: now.Add(rl.window)}
		rl.items[key] = entry
	}
	entry.count++
	if entry.count > rl.limit {
		return false, entry.reset.Sub(now)
	}
	return true, 0
}

// sweep drops expired windows at most once per window so the map does not
// grow with every address ever seen.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	for key, entry := range rl.items {
		if !now.Before(entry.reset) {
			delete(rl.items, key)
		}
	}
	rl.lastSweep = now
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retry := rl.Allow(c.ClientIP())
		if !ok {
			seconds := int(retry.Round(time.Second).Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			utils.RespondError(c, utils.NewAppError(http.StatusTooManyRequests, "RATE_LIMIT", "too many requests", nil))
			c.Abort()
			return
		}
		c.Next()
	}
}
