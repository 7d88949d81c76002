// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/stratacourse/internal/app/system/auth"
	"github.com/dalemusser/stratacourse/internal/app/system/normalize"
)

// UserCtx returns the caller's role (lowercased), name, user id and a found
// flag. With no user in context, or an identity without an id, it returns
// "visitor", "", "", false so callers can trust ok=true.
func UserCtx(r *http.Request) (role string, name string, userID string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok || strings.TrimSpace(user.ID) == "" {
		return "visitor", "", "", false
	}
	return normalize.Role(user.Role), user.Name, user.ID, true
}

// IsAdmin reports whether the current request's user is an admin.
// Admins see the edit link on public landing pages.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "admin"
}

// IsLoggedIn reports whether there is a user in the request context.
func IsLoggedIn(r *http.Request) bool {
	_, _, _, ok := UserCtx(r)
	return ok
}

// HasRole reports whether the current user has one of the specified roles.
func HasRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, allowed := range roles {
		if normalize.Role(allowed) == role {
			return true
		}
	}
	return false
}
