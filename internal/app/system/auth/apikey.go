package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// APIKeyUserID identifies requests authenticated by the automation key.
const APIKeyUserID = "api-key"

// APIKeyAuth returns middleware for automation clients (content import jobs,
// deploy scripts) that call the admin JSON API without a browser session.
//
// A request carrying "Authorization: Bearer <api-key>" with the configured
// key is treated as an admin caller. A Bearer header with any other value is
// rejected with 401. Requests without an Authorization header pass through
// unchanged so the session check that follows can decide.
//
// Usage in routes.go:
//
//	r.Group(func(r chi.Router) {
//	    r.Use(auth.APIKeyAuth(appCfg.APIKey, logger))
//	    r.Use(sessionMgr.LoadSessionUser)
//	    r.Use(sessionMgr.RequireRole("admin"))
//	    r.Mount("/api/admin/landing-pages", adminAPI)
//	})
//
// If the API key is not configured (empty), every Bearer request is rejected.
func APIKeyAuth(validKey string, logger *zap.Logger) func(http.Handler) http.Handler {
	if validKey == "" {
		logger.Info("API key not configured - admin API accepts session callers only")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Expect "Bearer <api-key>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Debug("API request rejected: invalid Authorization format",
					zap.String("path", r.URL.Path),
				)
				http.Error(w, "Invalid Authorization format (expected: Bearer <api-key>)", http.StatusUnauthorized)
				return
			}

			if validKey == "" {
				logger.Warn("API request rejected: API key not configured",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				http.Error(w, "API authentication not configured", http.StatusUnauthorized)
				return
			}

			if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(validKey)) != 1 {
				logger.Warn("API request rejected: invalid API key",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				http.Error(w, "Invalid API key", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, withUser(r, &SessionUser{
				ID:   APIKeyUserID,
				Name: "automation",
				Role: "admin",
			}))
		})
	}
}
