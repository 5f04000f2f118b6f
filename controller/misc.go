package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/finlogs/common"
	"github.com/songquanpeng/finlogs/common/config"
	"github.com/songquanpeng/finlogs/common/graceful"
)

func GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"version":                  common.Version,
			"start_time":               common.StartTime,
			"api_base":                 config.APIBase,
			"quota_per_unit":           config.QuotaPerUnit,
			"display_in_currency":      config.DisplayInCurrencyEnabled,
			"page_size_options":        config.PageSizeOptions,
			"export_confirm_threshold": config.ExportConfirmThreshold,
			"language":                 config.Language,
			"time_zone":                config.Location().String(),
			"draining":                 graceful.IsDraining(),
		},
	})
}
