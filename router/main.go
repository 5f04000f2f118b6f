package router

import (
	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/finlogs/controller"
)

func SetRouter(router *gin.Engine, views *controller.Views) {
	SetApiRouter(router, views)
}
