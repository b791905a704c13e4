package middleware

import (
	"time"

	"github.com/SscSPs/fitment_console/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware tracks request duration and error counts per route template.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
