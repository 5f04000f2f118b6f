package helper

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/finlogs/common/ctxkey"
)

// MessageWithRequestId appends the request id so users can quote it in reports.
func MessageWithRequestId(message string, id string) string {
	if id == "" {
		return message
	}
	return fmt.Sprintf("%s (request id: %s)", message, id)
}

// RespondError writes the standard failure envelope.
func RespondError(c *gin.Context, err error) {
	c.JSON(http.StatusOK, gin.H{
		"success": false,
		"message": MessageWithRequestId(err.Error(), c.GetString(ctxkey.RequestId)),
	})
}

// RespondMessage writes a failure envelope with an already localized message.
func RespondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}
