package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/finlogs/monitor"
)

// PrometheusMiddleware records the count and latency of API requests by route.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		monitor.RecordAPIRequest(path, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
