package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/finlogs/common/config"
	"github.com/songquanpeng/finlogs/common/ctxkey"
	"github.com/songquanpeng/finlogs/common/i18n"
)

// Language picks the response language from ?lang=, then Accept-Language, then LANGUAGE.
func Language() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxkey.Language, negotiateLanguage(c.Query("lang"), c.GetHeader("Accept-Language")))
		c.Next()
	}
}

func negotiateLanguage(query, acceptLanguage string) string {
	if query != "" && i18n.Supported(query) {
		return i18n.Normalize(query)
	}
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag != "" && i18n.Supported(tag) {
			return i18n.Normalize(tag)
		}
	}
	if i18n.Supported(config.Language) {
		return i18n.Normalize(config.Language)
	}
	return "en"
}
