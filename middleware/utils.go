package middleware

import (
	"context"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/finlogs/common/ctxkey"
	"github.com/songquanpeng/finlogs/common/helper"
)

// AbortWithError aborts the request with an error message
func AbortWithError(c *gin.Context, statusCode int, err error) {
	logger := gmw.GetLogger(c)
	if ignoreServerError(err) {
		logger.Warn("server abort",
			zap.Int("status_code", statusCode),
			zap.Error(err))
	} else {
		logger.Error("server abort",
			zap.Int("status_code", statusCode),
			zap.Error(err))
	}

	c.JSON(statusCode, gin.H{
		"success": false,
		"message": helper.MessageWithRequestId(err.Error(), c.GetString(ctxkey.RequestId)),
	})
	c.Abort()
}

// ignoreServerError lists errors that are expected during normal operation.
func ignoreServerError(err error) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, errServerDraining):
		return true
	default:
		return false
	}
}
