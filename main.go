package main

import (
	"context"
	"encoding/base64"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	gmw "github.com/Laisky/gin-middlewares/v6"
	glog "github.com/Laisky/go-utils/v5/log"
	"github.com/Laisky/zap"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/songquanpeng/finlogs/common"
	"github.com/songquanpeng/finlogs/common/client"
	"github.com/songquanpeng/finlogs/common/config"
	"github.com/songquanpeng/finlogs/common/ctxkey"
	"github.com/songquanpeng/finlogs/common/graceful"
	"github.com/songquanpeng/finlogs/common/i18n"
	"github.com/songquanpeng/finlogs/common/logger"
	"github.com/songquanpeng/finlogs/controller"
	"github.com/songquanpeng/finlogs/logquery"
	"github.com/songquanpeng/finlogs/middleware"
	"github.com/songquanpeng/finlogs/model"
	"github.com/songquanpeng/finlogs/monitor"
	"github.com/songquanpeng/finlogs/router"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	common.Init()
	logger.SetupLogger()

	// Setup enhanced logger with alertPusher integration
	logger.SetupEnhancedLogger(ctx)

	logger.Logger.Info("finlogs started",
		zap.String("version", common.Version),
		zap.String("api_base", config.APIBase))

	if config.GinMode != gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	if config.LogRetentionDays > 0 && logger.LogDir != "" {
		logger.StartLogRetentionCleaner(ctx, config.LogRetentionDays, logger.LogDir)
	}

	// Preferences live in SQL unless Redis is configured
	if err := model.InitDB(); err != nil {
		logger.Logger.Fatal("database init error", zap.Error(err))
	}
	defer func() {
		if err := model.CloseDB(); err != nil {
			logger.Logger.Error("failed to close database", zap.Error(err))
		}
	}()

	if err := common.InitRedisClient(); err != nil {
		logger.Logger.Fatal("failed to initialize Redis", zap.Error(err))
	}
	defer func() {
		if err := common.CloseRedis(); err != nil {
			logger.Logger.Error("failed to close Redis", zap.Error(err))
		}
	}()

	if config.EnablePrometheusMetrics {
		startTime := time.Unix(common.StartTime, 0)
		if err := monitor.InitPrometheusMonitoring(common.Version, startTime.Format(time.RFC3339), runtime.Version(), startTime); err != nil {
			logger.Logger.Fatal("failed to initialize Prometheus monitoring", zap.Error(err))
		}
		logger.Logger.Info("Prometheus monitoring initialized")
	}

	client.Init()

	if err := i18n.Init(); err != nil {
		logger.Logger.Fatal("failed to initialize i18n", zap.Error(err))
	}

	getter := client.New(config.APIBase, nil)
	fetcher := logquery.NewFetcher(getter)
	pricing := logquery.NewPricingLoader(ctx, getter, config.PricingCacheTTL)
	views := controller.NewViews(config.ViewIdleTimeout, func(profile string, t i18n.Translator) *controller.FinancialLogs {
		return controller.NewFinancialLogs(controller.Deps{
			Fetcher:     fetcher,
			Pricing:     pricing,
			Preferences: model.NewPreferenceStore(profile),
			Translator:  t,
		})
	})

	logLevel := glog.LevelInfo
	if config.DebugEnabled {
		logLevel = glog.LevelDebug
	}

	server := gin.New()
	server.RedirectTrailingSlash = false
	server.Use(
		middleware.PanicRecover(),
		gmw.NewLoggerMiddleware(
			gmw.WithLoggerMwColored(),
			gmw.WithLevel(logLevel.String()),
			gmw.WithLogger(logger.Logger.Named("gin")),
		),
	)
	server.Use(middleware.RequestId())
	server.Use(middleware.Language())
	server.Use(cors.New(corsConfig()))

	if config.EnablePrometheusMetrics {
		server.Use(middleware.PrometheusMiddleware())
		server.GET("/metrics", gin.WrapH(promhttp.Handler()))
		logger.Logger.Info("Prometheus metrics endpoint available at /metrics")
	}

	server.Use(sessions.Sessions("session", newSessionStore()))

	router.SetRouter(server, views)

	port := config.ServerPort
	if port == "" {
		port = strconv.Itoa(*common.Port)
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Logger.Info("server started", zap.String("address", "http://localhost:"+port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Logger.Info("shutdown signal received, draining")
	graceful.SetDraining()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(config.ShutdownTimeoutSec)*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("server shutdown", zap.Error(err))
	}
	if err := graceful.Drain(shutdownCtx); err != nil {
		logger.Logger.Error("graceful drain", zap.Error(err))
	}
	logger.Logger.Info("server stopped")
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowCredentials = true
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AddAllowHeaders("Accept-Language")
	cfg.AddExposeHeaders("Content-Disposition", "X-Export-Records", ctxkey.RequestId)

	var origins []string
	for _, o := range strings.Split(config.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func newSessionStore() cookie.Store {
	var store cookie.Store
	sessionSecret, err := base64.StdEncoding.DecodeString(config.SessionSecret)
	if err != nil {
		logger.Logger.Info("session secret is not base64 encoded, using raw value instead")
		store = cookie.NewStore([]byte(config.SessionSecret))
	} else {
		store = cookie.NewStore(sessionSecret, sessionSecret)
	}

	if !config.EnableCookieSecure {
		logger.Logger.Warn("ENABLE_COOKIE_SECURE is not set, session cookies are sent over plain HTTP")
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   config.CookieMaxAgeHours * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   config.EnableCookieSecure,
	})
	return store
}
