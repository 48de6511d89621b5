package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crewscheduler/backend/internal/metrics"
)

// Metrics records request counts and latency by route template.
func Metrics(m *metrics.HTTP) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.Observe(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
