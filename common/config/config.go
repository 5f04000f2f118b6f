package config

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/songquanpeng/finlogs/common/env"
)

var (
	// APIBase is the root URL of the one-api/new-api backend that serves the log endpoints.
	APIBase = strings.TrimSuffix(strings.TrimSpace(env.String("API_BASE", "http://localhost:3000")), "/")
	// TokenKey is the default API token whose usage logs are queried when no key is supplied.
	TokenKey = strings.TrimSpace(env.String("FINLOGS_TOKEN_KEY", ""))
	// LogQueryPath is the backend route that lists logs for a single token.
	LogQueryPath = env.String("LOG_QUERY_PATH", "/api/log/token")
	// PricingPath is the backend route exposing model and group ratios.
	PricingPath = env.String("PRICING_PATH", "/api/pricing")

	// RequestTimeout bounds backend requests (seconds). 0 leaves it to the transport.
	RequestTimeout = env.Int("REQUEST_TIMEOUT", 0)
	// RequestProxy routes backend requests through an HTTP proxy when set.
	RequestProxy = env.String("REQUEST_PROXY", "")

	// DefaultPageSize is the page size used before the user picks one.
	DefaultPageSize = env.Int("DEFAULT_PAGE_SIZE", 10)

	// ExportConfirmThreshold is the record count above which an export must be confirmed.
	ExportConfirmThreshold = env.Int("EXPORT_CONFIRM_THRESHOLD", 50000)
	// ExportSingleShotLimit is the largest export fetched in one request.
	ExportSingleShotLimit = env.Int("EXPORT_SINGLE_SHOT_LIMIT", 100000)
	// ExportBatchSize is the page size of each batch when an export exceeds ExportSingleShotLimit.
	ExportBatchSize = func() int {
		v := env.Int("EXPORT_BATCH_SIZE", 50000)
		if v <= 0 {
			panic("EXPORT_BATCH_SIZE must be positive")
		}
		return v
	}()
	// ExportLabel prefixes exported file names.
	ExportLabel = env.String("EXPORT_LABEL", "financial_logs")

	// FallbackBasePrice is the per-million-token input price (USD) assumed when the backend sends no price fields.
	FallbackBasePrice = env.Float64("FALLBACK_BASE_PRICE", 2)
	// FallbackOutputMultiplier scales FallbackBasePrice to obtain the output price.
	FallbackOutputMultiplier = env.Float64("FALLBACK_OUTPUT_MULTIPLIER", 2)
	// PricingCacheTTL controls how long a pricing payload is reused.
	PricingCacheTTL = env.Duration("PRICING_CACHE_TTL", 5*time.Minute)

	// Language selects the locale bundle for labels and messages.
	Language = env.String("LANGUAGE", "en")
	// TimeZone is the IANA zone used to render and parse local date-times.
	TimeZone = env.String("TIMEZONE", "Local")

	// DebugEnabled toggles verbose structured logging when DEBUG=true.
	DebugEnabled = env.Bool("DEBUG", false)
	// DebugSQLEnabled toggles per-query SQL logging when DEBUG_SQL=true.
	DebugSQLEnabled = env.Bool("DEBUG_SQL", false)

	// OnlyOneLogFile writes every run into finlogs.log instead of dated files.
	OnlyOneLogFile = env.Bool("ONLY_ONE_LOG_FILE", false)
	// LogRetentionDays determines how many days log files are kept before the retention worker purges them (0 disables cleanup).
	LogRetentionDays = func() int {
		v := env.Int("LOG_RETENTION_DAYS", 0)
		if v < 0 {
			return 0
		}
		return v
	}()

	// LogPushAPI defines the webhook endpoint for escalated log alerts.
	LogPushAPI = env.String("LOG_PUSH_API", "")
	// LogPushType labels outbound log alerts so downstream processors can route them.
	LogPushType = env.String("LOG_PUSH_TYPE", "")
	// LogPushToken authenticates outbound log alert requests.
	LogPushToken = env.String("LOG_PUSH_TOKEN", "")

	// SQLDSN provides the preference database DSN; empty indicates that SQLite should be used.
	SQLDSN = strings.TrimSpace(env.String("SQL_DSN", ""))
	// SQLitePath is the SQLite file used when SQL_DSN is empty.
	SQLitePath = env.String("SQLITE_PATH", "finlogs.db")
	// SQLiteBusyTimeout is the SQLite busy timeout in milliseconds.
	SQLiteBusyTimeout = env.Int("SQLITE_BUSY_TIMEOUT", 3000)
	// SQLMaxIdleConns caps idle connections in the preference database pool.
	SQLMaxIdleConns = env.Int("SQL_MAX_IDLE_CONNS", 10)
	// SQLMaxOpenConns caps open connections in the preference database pool.
	SQLMaxOpenConns = env.Int("SQL_MAX_OPEN_CONNS", 50)
	// SQLMaxLifetimeSeconds recycles pooled connections after this many seconds.
	SQLMaxLifetimeSeconds = env.Int("SQL_MAX_LIFETIME", 60)

	// RedisConnString defines the Redis connection string; when set, preferences are kept in Redis.
	RedisConnString = strings.TrimSpace(env.String("REDIS_CONN_STRING", ""))
	// RedisMasterName enables Redis sentinel/cluster discovery when provided.
	RedisMasterName = strings.TrimSpace(env.String("REDIS_MASTER_NAME", ""))
	// RedisPassword supplies the Redis authentication password when required.
	RedisPassword = env.String("REDIS_PASSWORD", "")

	// ServerPort overrides the --port flag when running inside container or PaaS environments.
	ServerPort = strings.TrimSpace(env.String("PORT", ""))
	// GinMode allows forcing Gin into release mode (or other modes) without recompiling.
	GinMode = strings.TrimSpace(env.String("GIN_MODE", ""))
	// ShutdownTimeoutSec bounds graceful shutdown (seconds).
	ShutdownTimeoutSec = env.Int("SHUTDOWN_TIMEOUT", 30)
	// CORSAllowedOrigins is a comma separated allow-list; empty allows all origins.
	CORSAllowedOrigins = env.String("CORS_ALLOWED_ORIGINS", "")

	// SessionSecretEnvValue keeps the raw SESSION_SECRET input so other packages can warn about placeholder values.
	SessionSecretEnvValue = strings.TrimSpace(env.String("SESSION_SECRET", ""))
	// SessionSecret stores the effective session secret. It is replaced or hashed to a 32-byte base64 token in init().
	SessionSecret = SessionSecretEnvValue
	// CookieMaxAgeHours controls how long session cookies stay valid.
	CookieMaxAgeHours = env.Int("COOKIE_MAXAGE_HOURS", 168)
	// EnableCookieSecure forces the browser to send session cookies only over HTTPS when set to true.
	EnableCookieSecure = env.Bool("ENABLE_COOKIE_SECURE", false)

	// ViewIdleTimeout drops a browser session's view state after this long without requests.
	ViewIdleTimeout = env.Duration("VIEW_IDLE_TIMEOUT", 30*time.Minute)

	// EnablePrometheusMetrics exposes /metrics and records pipeline collectors.
	EnablePrometheusMetrics = env.Bool("ENABLE_PROMETHEUS_METRICS", true)
)

var (
	// QuotaPerUnit defines the conversion rate between quota and USD for display.
	QuotaPerUnit = env.Float64("QUOTA_PER_UNIT", 500*1000.0)
	// DisplayInCurrencyEnabled renders quota as USD instead of raw quota points.
	DisplayInCurrencyEnabled = env.Bool("DISPLAY_IN_CURRENCY", true)
)

// PageSizeOptions lists the page sizes a view accepts.
var PageSizeOptions = []int{10, 20, 40, 100}

// ValidPageSize reports whether size is one of PageSizeOptions.
func ValidPageSize(size int) bool {
	return slices.Contains(PageSizeOptions, size)
}

// Location resolves TimeZone, falling back to time.Local.
func Location() *time.Location {
	switch TimeZone {
	case "", "Local":
		return time.Local
	}
	loc, err := time.LoadLocation(TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

func init() {
	if SessionSecretEnvValue == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("failed to generate random secret: %v", err))
		}

		SessionSecret = base64.StdEncoding.EncodeToString(key)
	} else if !slices.Contains([]int{16, 24, 32}, len(SessionSecretEnvValue)) {
		hashed := sha256.Sum256([]byte(SessionSecretEnvValue))
		SessionSecret = base64.StdEncoding.EncodeToString(hashed[:32])
	}

	if !ValidPageSize(DefaultPageSize) {
		DefaultPageSize = PageSizeOptions[0]
	}
}
