package middleware

import (
	"time"

	"clubhouse-server/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latency keyed by the matched route
// template, so path parameters do not explode label cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveHTTP(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
