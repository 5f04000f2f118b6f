package controller

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/finlogs/common/ctxkey"
	"github.com/songquanpeng/finlogs/common/helper"
	"github.com/songquanpeng/finlogs/common/i18n"
	"github.com/songquanpeng/finlogs/export"
	"github.com/songquanpeng/finlogs/logquery"
	"github.com/songquanpeng/finlogs/model"
)

// respondView writes the view snapshot, with err mapped to a user message.
func respondView(c *gin.Context, v *FinancialLogs, err error) {
	if err != nil {
		gmw.GetLogger(c).Debug("financial logs operation failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": userMessage(err, v.Translator()),
			"data":    v.Snapshot(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    v.Snapshot(),
	})
}

func userMessage(err error, t i18n.Translator) string {
	switch {
	case errors.Is(err, ErrInvalidPageSize):
		return t.T("Invalid page size")
	case errors.Is(err, ErrExportInProgress):
		return err.Error()
	default:
		return logquery.UserMessage(err, t)
	}
}

func GetFinancialLogs(c *gin.Context) {
	respondView(c, currentView(c), nil)
}

type filtersRequest struct {
	Form     FormState `json:"form"`
	TokenKey string    `json:"token_key"`
}

func UpdateFinancialLogsFilters(c *gin.Context) {
	v := currentView(c)
	var req filtersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.RespondError(c, err)
		return
	}
	v.SetFilters(req.Form, req.TokenKey)
	respondView(c, v, v.Refresh(c.Request.Context()))
}

func RefreshFinancialLogs(c *gin.Context) {
	v := currentView(c)
	respondView(c, v, v.Refresh(c.Request.Context()))
}

func ResetFinancialLogsForm(c *gin.Context) {
	v := currentView(c)
	respondView(c, v, v.ResetForm(c.Request.Context()))
}

type pageRequest struct {
	Page int `json:"page" binding:"required,min=1"`
}

func GoToFinancialLogsPage(c *gin.Context) {
	v := currentView(c)
	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.RespondError(c, err)
		return
	}
	respondView(c, v, v.GoToPage(c.Request.Context(), req.Page))
}

type pageSizeRequest struct {
	PageSize int `json:"page_size" binding:"required"`
}

func ChangeFinancialLogsPageSize(c *gin.Context) {
	v := currentView(c)
	var req pageSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.RespondError(c, err)
		return
	}
	respondView(c, v, v.ChangePageSize(c.Request.Context(), req.PageSize))
}

func LoadNextFinancialLogs(c *gin.Context) {
	v := currentView(c)
	respondView(c, v, v.LoadNext(c.Request.Context()))
}

type modeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

func SetFinancialLogsMode(c *gin.Context) {
	v := currentView(c)
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.RespondError(c, err)
		return
	}
	mode, err := model.ParsePaginationMode(req.Mode)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	respondView(c, v, v.SetPaginationMode(c.Request.Context(), mode))
}

type columnsRequest struct {
	Column  string `json:"column"`
	Visible *bool  `json:"visible"`
	All     *bool  `json:"all"`
}

func UpdateFinancialLogsColumns(c *gin.Context) {
	v := currentView(c)
	var req columnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.RespondError(c, err)
		return
	}

	var err error
	switch {
	case req.All != nil:
		err = v.SelectAllColumns(c.Request.Context(), *req.All)
	case req.Column != "" && req.Visible != nil:
		err = v.SetColumnVisible(c.Request.Context(), req.Column, *req.Visible)
	default:
		helper.RespondError(c, errors.New("either all or column and visible must be set"))
		return
	}
	respondView(c, v, err)
}

func ResetFinancialLogsColumns(c *gin.Context) {
	v := currentView(c)
	respondView(c, v, v.ResetColumns(c.Request.Context()))
}

type compactRequest struct {
	Compact bool `json:"compact"`
}

func SetFinancialLogsCompact(c *gin.Context) {
	v := currentView(c)
	var req compactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.RespondError(c, err)
		return
	}
	respondView(c, v, v.SetCompactMode(c.Request.Context(), req.Compact))
}

type copyRequest struct {
	Text string `json:"text" binding:"required"`
}

// CopyFinancialLogsText hands the text back for the browser to place on its clipboard.
func CopyFinancialLogsText(c *gin.Context) {
	v := currentView(c)
	var req copyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.RespondError(c, err)
		return
	}
	cb := &deferredClipboard{}
	notice := v.CopyText(c.Request.Context(), cb, req.Text)
	c.JSON(http.StatusOK, gin.H{
		"success": notice.Copied,
		"message": notice.Message,
		"data":    notice,
	})
}

// ExportFinancialLogs streams the xlsx export. Without confirm=true an export above
// the confirmation threshold answers 409 with the record count.
func ExportFinancialLogs(c *gin.Context) {
	v := currentView(c)
	t := v.Translator()
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))

	var asked int
	res, err := v.Export(c.Request.Context(), func(_ context.Context, total int) bool {
		asked = total
		return confirmed
	})
	switch {
	case errors.Is(err, export.ErrExportDeclined):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": t.T("{{count}} records match, exporting may take a while. Continue?", "count", asked),
			"data":    gin.H{"total": asked},
		})
		return
	case err != nil:
		gmw.GetLogger(c).Warn("export financial logs", zap.Error(err))
		msg := export.UserMessage(err, t)
		if errors.Is(err, ErrExportInProgress) {
			msg = err.Error()
		}
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": helper.MessageWithRequestId(msg, c.GetString(ctxkey.RequestId)),
		})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(res.Filename))
	c.Header("X-Export-Records", strconv.Itoa(res.Records()))
	c.Status(http.StatusOK)
	if err := res.WriteXLSX(c.Writer); err != nil {
		gmw.GetLogger(c).Error("write xlsx", zap.Error(err))
	}
}
