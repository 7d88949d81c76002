// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/stratacourse/internal/app/features/errors"
	healthfeature "github.com/dalemusser/stratacourse/internal/app/features/health"
	landingfeature "github.com/dalemusser/stratacourse/internal/app/features/landing"
	landingadminfeature "github.com/dalemusser/stratacourse/internal/app/features/landingadmin"
	systemstatsfeature "github.com/dalemusser/stratacourse/internal/app/features/systemstats"
	"github.com/dalemusser/stratacourse/internal/app/resources"
	"github.com/dalemusser/stratacourse/internal/app/system/apicors"
	"github.com/dalemusser/stratacourse/internal/app/system/auth"
	"github.com/dalemusser/stratacourse/internal/app/system/sectionrender"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// Route groups:
//   - Public JSON (/api/landing-pages): no auth, permissive read-only CORS
//   - Public HTML (/p): no auth; admins see an edit link
//   - Admin JSON (/api/admin/landing-pages, /api/admin/system): session or API key, admin role, no CSRF
//   - Admin HTML (/admin/landing-pages): session, admin role, CSRF
//   - Static assets (/assets): embedded CSS
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	sessionMgr.SetLoginURL(appCfg.LoginURL)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	mountRoutes(r, routeConfig{
		Secure:        secure,
		CSRFKey:       appCfg.CSRFKey,
		SessionDomain: appCfg.SessionDomain,
		APIKey:        appCfg.APIKey,
		CORSOrigins:   appCfg.APICORSOrigins,
	}, sessionMgr, deps, logger)
	return r, nil
}

// routeConfig is the slice of AppConfig the route table needs.
type routeConfig struct {
	Secure        bool
	CSRFKey       string
	SessionDomain string
	APIKey        string
	CORSOrigins   []string
}

// mountRoutes attaches session loading and every feature router to r.
func mountRoutes(r chi.Router, rc routeConfig, sessionMgr *auth.SessionManager, deps DBDeps, logger *zap.Logger) {
	renderer := sectionrender.New(logger.Named("sectionrender"))

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	// Session middleware: loads SessionUser into context if signed in.
	// Public routes use it only to decide whether to show the edit link.
	r.Use(sessionMgr.LoadSessionUser)

	// ─────────────────────────────────────────────────────────────────────────────
	// Health
	// ─────────────────────────────────────────────────────────────────────────────

	healthHandler := healthfeature.NewHandler(logger, healthfeature.Check{
		Name:   deps.PageStoreName,
		Pinger: deps.Pages,
	})
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	r.Handle("/assets/*", resources.AssetsHandler("/assets"))

	// ─────────────────────────────────────────────────────────────────────────────
	// Public landing pages
	// ─────────────────────────────────────────────────────────────────────────────

	landingHandler := landingfeature.NewHandler(deps.Resolver, renderer, errLog, logger)

	publicCORS := apicors.Middleware(apicors.ReadOnlyMethods...)
	if len(rc.CORSOrigins) > 0 {
		publicCORS = apicors.MiddlewareWithOrigins(rc.CORSOrigins, apicors.ReadOnlyMethods...)
	}
	r.Route("/api/landing-pages", func(sr chi.Router) {
		sr.Use(publicCORS)
		sr.Mount("/", landingfeature.APIRoutes(landingHandler))
	})
	r.Mount("/p", landingfeature.PageRoutes(landingHandler))

	// ─────────────────────────────────────────────────────────────────────────────
	// Admin JSON API: API key or session, admin only, no CSRF
	// ─────────────────────────────────────────────────────────────────────────────

	adminAPIHandler := landingadminfeature.NewAPIHandler(deps.Pages, errLog, logger)
	r.Route("/api/admin/landing-pages", func(sr chi.Router) {
		sr.Use(apicors.Middleware())
		sr.Use(auth.APIKeyAuth(rc.APIKey, logger))
		sr.Use(sessionMgr.RequireRole("admin"))
		sr.Mount("/", landingadminfeature.APIRoutes(adminAPIHandler))
	})

	// ─────────────────────────────────────────────────────────────────────────────
	// Admin system stats: same gate as the admin JSON API
	// ─────────────────────────────────────────────────────────────────────────────

	statsHandler := systemstatsfeature.NewHandler(deps.PageStoreName, deps.Pages, logger)
	r.Route("/api/admin/system", func(sr chi.Router) {
		sr.Use(apicors.Middleware(apicors.ReadOnlyMethods...))
		sr.Use(auth.APIKeyAuth(rc.APIKey, logger))
		sr.Use(sessionMgr.RequireRole("admin"))
		sr.Mount("/", systemstatsfeature.Routes(statsHandler))
	})

	// ─────────────────────────────────────────────────────────────────────────────
	// Admin HTML editor: session, admin only, CSRF
	// ─────────────────────────────────────────────────────────────────────────────

	editorHandler := landingadminfeature.NewEditorHandler(deps.Pages, errLog, logger)
	csrfMiddleware := newCSRF(rc, sessionMgr, errorsHandler, logger)
	r.Route("/admin/landing-pages", func(sr chi.Router) {
		sr.Use(sessionMgr.RequireRole("admin"))
		sr.Use(csrfMiddleware)
		sr.Mount("/", landingadminfeature.EditorRoutes(editorHandler))
	})

	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)
}

// newCSRF builds the CSRF middleware for the HTML editor.
// Cookie name is "stratacourse_csrf" to avoid collisions with other services
// on the same domain.
func newCSRF(rc routeConfig, sessionMgr *auth.SessionManager, errorsHandler *errorsfeature.Handler, logger *zap.Logger) func(http.Handler) http.Handler {
	csrfOpts := []csrf.Option{
		csrf.Secure(rc.Secure),
		csrf.Path("/"),
		csrf.CookieName("stratacourse_csrf"),
		csrf.FieldName("csrf_token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			if req.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", sessionMgr.LoginURL())
				w.WriteHeader(http.StatusForbidden)
				return
			}
			errorsHandler.Forbidden(w, req)
		})),
	}
	// In dev mode, trust localhost origins for CSRF validation.
	trustedOrigins := []string{
		"localhost:8080",
		"localhost:3000",
		"127.0.0.1:8080",
		"127.0.0.1:3000",
	}
	if !rc.Secure {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins(trustedOrigins))
	}
	if rc.SessionDomain != "" {
		csrfOpts = append(csrfOpts, csrf.Domain(rc.SessionDomain))
	}
	protect := csrf.Protect([]byte(rc.CSRFKey), csrfOpts...)

	return func(next http.Handler) http.Handler {
		h := protect(next)
		if rc.Secure {
			return h
		}
		// Plain HTTP in dev: skip the HTTPS-only Referer check.
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(req))
		})
	}
}
