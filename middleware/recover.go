package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/finlogs/common/ctxkey"
	"github.com/songquanpeng/finlogs/common/helper"
	"github.com/songquanpeng/finlogs/common/logger"
)

func PanicRecover() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Logger.Error("panic detected",
					zap.Any("panic", err),
					zap.String("stacktrace", string(debug.Stack())),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path))
				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"message": helper.MessageWithRequestId(fmt.Sprintf("panic detected: %v", err), c.GetString(ctxkey.RequestId)),
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}
