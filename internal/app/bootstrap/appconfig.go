// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
type AppConfig struct {
	// Page store selection: "mongo", "postgres" or "memory"
	PageStore string

	// MongoDB connection configuration (page_store=mongo)
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// PostgreSQL connection configuration (page_store=postgres)
	PostgresDSN string

	// Session cookie written by the platform's sign-in service
	SessionKey    string        // Secret key shared with the sign-in service
	SessionName   string        // Cookie name for sessions (default: stratacourse-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Maximum session cookie lifetime (default: 24h)
	LoginURL      string        // Where signed-out editors are sent (default: /login)

	// CSRF protection for the HTML editor
	CSRFKey string // Secret key for CSRF token signing (32 bytes, must be strong in production)

	// API key for automation calling the admin JSON API with a Bearer token.
	// Leave empty to disable API key authentication.
	APIKey string

	// Origins allowed to read the public landing page API. Empty allows any.
	APICORSOrigins []string

	// Public resolver cache
	LandingRevalidate time.Duration // How long a resolved page is served from cache (default: 60s)
	LandingCacheMax   int           // Maximum cached slugs (default: 1024)

	// Store deadlines
	StoreTimeout time.Duration // Deadline for one store call on the public path (default: 5s)
	PingTimeout  time.Duration // Deadline for health and background pings (default: 2s)

	// Seed the demo landing page when its slug is free
	SeedLandingPages bool
}
