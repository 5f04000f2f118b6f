package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/finlogs/controller"
	"github.com/songquanpeng/finlogs/middleware"
)

func SetApiRouter(router *gin.Engine, views *controller.Views) {
	apiRouter := router.Group("/api")
	apiRouter.Use(gzip.Gzip(gzip.DefaultCompression))
	apiRouter.Use(middleware.RequestTracker())
	{
		apiRouter.GET("/status", controller.GetStatus)

		apiRouter.DELETE("/financial-logs", views.CloseView)

		logsRoute := apiRouter.Group("/financial-logs")
		logsRoute.Use(views.Middleware())
		{
			logsRoute.GET("", controller.GetFinancialLogs)
			logsRoute.PUT("/filters", controller.UpdateFinancialLogsFilters)
			logsRoute.POST("/refresh", controller.RefreshFinancialLogs)
			logsRoute.POST("/page", controller.GoToFinancialLogsPage)
			logsRoute.POST("/page-size", controller.ChangeFinancialLogsPageSize)
			logsRoute.POST("/next", controller.LoadNextFinancialLogs)
			logsRoute.POST("/mode", controller.SetFinancialLogsMode)
			logsRoute.POST("/reset", controller.ResetFinancialLogsForm)
			logsRoute.PUT("/columns", controller.UpdateFinancialLogsColumns)
			logsRoute.POST("/columns/reset", controller.ResetFinancialLogsColumns)
			logsRoute.PUT("/compact", controller.SetFinancialLogsCompact)
			logsRoute.POST("/copy", controller.CopyFinancialLogsText)
			logsRoute.GET("/export", controller.ExportFinancialLogs)
		}
	}
}
