package middleware

import (
	"net/http"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/finlogs/common/graceful"
)

var errServerDraining = errors.New("server is shutting down")

// RequestTracker counts in-flight requests for graceful.Drain and turns new
// requests away once draining has started.
func RequestTracker() gin.HandlerFunc {
	return func(c *gin.Context) {
		if graceful.IsDraining() {
			AbortWithError(c, http.StatusServiceUnavailable, errServerDraining)
			return
		}
		done := graceful.BeginRequest()
		defer done()
		c.Next()
	}
}
