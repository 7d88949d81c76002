// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "STRATACOURSE"

// Page store backends.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, page_store, etc.
//   - Environment variables: STRATACOURSE_MONGO_URI, STRATACOURSE_PAGE_STORE, etc.
//   - Command-line flags: --mongo_uri, --page_store, etc.
var appConfigKeys = []config.AppKey{
	{Name: "page_store", Default: StoreMongo, Desc: "Landing page store: 'mongo', 'postgres' or 'memory'"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "stratacourse", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "postgres_dsn", Default: "", Desc: "PostgreSQL DSN (required when page_store is 'postgres')"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key shared with the sign-in service"},
	{Name: "session_name", Default: "stratacourse-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie max age (e.g., 24h, 720h, 30m)"},
	{Name: "login_url", Default: "/login", Desc: "Sign-in page for editors without a session"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "CSRF token signing key (32+ chars in production)"},

	// API key configuration (for automation using Bearer token auth)
	{Name: "api_key", Default: "", Desc: "API key for the admin JSON API (leave empty to disable API key auth)"},
	{Name: "api_cors_origins", Default: "", Desc: "Comma-separated origins allowed to read the public API (blank allows any)"},

	// Public resolver cache
	{Name: "landing_revalidate", Default: "60s", Desc: "How long a published page is cached before it is read again"},
	{Name: "landing_cache_max", Default: 1024, Desc: "Maximum number of cached landing pages"},

	// Store deadlines
	{Name: "store_timeout", Default: "5s", Desc: "Deadline for one page store call on the public path"},
	{Name: "ping_timeout", Default: "2s", Desc: "Deadline for health check pings"},

	{Name: "seed_landing_pages", Default: false, Desc: "Create the demo landing page on startup if its slug is free"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, STRATACOURSE_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		PageStore:        strings.ToLower(strings.TrimSpace(appValues.String("page_store"))),
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		PostgresDSN:      appValues.String("postgres_dsn"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),
		LoginURL:      appValues.String("login_url"),

		CSRFKey:        appValues.String("csrf_key"),
		APIKey:         appValues.String("api_key"),
		APICORSOrigins: splitList(appValues.String("api_cors_origins")),

		LandingRevalidate: appValues.Duration("landing_revalidate", 60*time.Second),
		LandingCacheMax:   appValues.Int("landing_cache_max"),

		StoreTimeout: appValues.Duration("store_timeout", 5*time.Second),
		PingTimeout:  appValues.Duration("ping_timeout", 2*time.Second),

		SeedLandingPages: appValues.Bool("seed_landing_pages"),
	}

	return coreCfg, appCfg, nil
}

// splitList parses a comma-separated config value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.PageStore {
	case StoreMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if strings.TrimSpace(appCfg.MongoDatabase) == "" {
			return fmt.Errorf("mongo_database is required when page_store is %q", StoreMongo)
		}
	case StorePostgres:
		if strings.TrimSpace(appCfg.PostgresDSN) == "" {
			logger.Error("postgres_dsn is empty", zap.String("page_store", appCfg.PageStore))
			return fmt.Errorf("postgres_dsn is required when page_store is %q", StorePostgres)
		}
	case StoreMemory:
		if coreCfg != nil && coreCfg.Env == "prod" {
			logger.Warn("memory page store in production: pages are lost on restart")
		}
	default:
		return fmt.Errorf("unknown page_store %q (want %s, %s or %s)", appCfg.PageStore, StoreMongo, StorePostgres, StoreMemory)
	}

	if appCfg.LandingRevalidate <= 0 {
		return fmt.Errorf("landing_revalidate must be positive, got %s", appCfg.LandingRevalidate)
	}
	if appCfg.LandingCacheMax < 0 {
		return fmt.Errorf("landing_cache_max must not be negative, got %d", appCfg.LandingCacheMax)
	}

	return nil
}
