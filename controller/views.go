package controller

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Laisky/zap"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"

	"github.com/songquanpeng/finlogs/common/ctxkey"
	"github.com/songquanpeng/finlogs/common/i18n"
	"github.com/songquanpeng/finlogs/common/logger"
	"github.com/songquanpeng/finlogs/common/random"
	"github.com/songquanpeng/finlogs/monitor"
)

// ViewFactory builds an unmounted view for a preference profile.
type ViewFactory func(profile string, t i18n.Translator) *FinancialLogs

// Views keeps one FinancialLogs per browser session. Idle views expire.
type Views struct {
	mu      sync.Mutex
	cache   *gocache.Cache
	factory ViewFactory
}

// NewViews returns a registry whose views expire after idle of inactivity.
func NewViews(idle time.Duration, factory ViewFactory) *Views {
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	vs := &Views{
		cache:   gocache.New(idle, idle/2),
		factory: factory,
	}
	vs.cache.OnEvicted(func(id string, _ any) {
		logger.Logger.Debug("financial logs view unmounted", zap.String("view_id", id))
		monitor.SetActiveViews(vs.cache.ItemCount())
	})
	return vs
}

// Get returns the view for id and extends its lifetime.
func (vs *Views) Get(id string) (*FinancialLogs, bool) {
	raw, ok := vs.cache.Get(id)
	if !ok {
		return nil, false
	}
	v := raw.(*FinancialLogs)
	vs.cache.SetDefault(id, v)
	return v, true
}

// Open returns the view for id, creating and mounting it on first use.
// A failed initial load keeps the view; its error is part of the snapshot.
func (vs *Views) Open(ctx context.Context, id, profile string, t i18n.Translator) *FinancialLogs {
	vs.mu.Lock()
	if v, ok := vs.Get(id); ok {
		vs.mu.Unlock()
		return v
	}
	v := vs.factory(profile, t)
	vs.cache.SetDefault(id, v)
	vs.mu.Unlock()

	monitor.SetActiveViews(vs.cache.ItemCount())
	if err := v.Mount(ctx); err != nil {
		logger.Logger.Debug("initial financial logs load failed", zap.String("view_id", id), zap.Error(err))
	}
	return v
}

// Close unmounts the view for id.
func (vs *Views) Close(id string) {
	vs.cache.Delete(id)
}

// Count returns the number of live views.
func (vs *Views) Count() int {
	return vs.cache.ItemCount()
}

// Middleware binds the session's view to the request, creating ids on first visit.
func (vs *Views) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		viewId, _ := session.Get(ctxkey.ViewId).(string)
		profileId, _ := session.Get(ctxkey.ProfileId).(string)
		if viewId == "" || profileId == "" {
			if viewId == "" {
				viewId = random.GetUUID()
				session.Set(ctxkey.ViewId, viewId)
			}
			if profileId == "" {
				profileId = random.GetUUID()
				session.Set(ctxkey.ProfileId, profileId)
			}
			if err := session.Save(); err != nil {
				logger.Logger.Error("save session", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"message": "failed to save session",
				})
				return
			}
		}

		t := i18n.FromContext(c)
		v := vs.Open(c.Request.Context(), viewId, profileId, t)
		v.SetTranslator(t)
		c.Set(ctxkey.ViewId, viewId)
		c.Set(ctxkey.View, v)
		c.Next()
	}
}

// CloseView handles DELETE /api/financial-logs. It runs without Middleware so
// closing never opens a view.
func (vs *Views) CloseView(c *gin.Context) {
	session := sessions.Default(c)
	if viewId, _ := session.Get(ctxkey.ViewId).(string); viewId != "" {
		vs.Close(viewId)
		session.Delete(ctxkey.ViewId)
		if err := session.Save(); err != nil {
			logger.Logger.Warn("save session", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
	})
}

func currentView(c *gin.Context) *FinancialLogs {
	return c.MustGet(ctxkey.View).(*FinancialLogs)
}
