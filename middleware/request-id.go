package middleware

import (
	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/finlogs/common/ctxkey"
	"github.com/songquanpeng/finlogs/common/helper"
)

func RequestId() func(c *gin.Context) {
	return func(c *gin.Context) {
		id := helper.GenRequestID()
		c.Set(ctxkey.RequestId, id)
		c.Header(ctxkey.RequestId, id)
		if lg := gmw.GetLogger(c); lg != nil {
			gmw.SetLogger(c, lg.With(zap.String("request_id", id)))
		}
		c.Next()
	}
}
