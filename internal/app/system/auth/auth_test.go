package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

const testKey = "this-is-a-32-character-long-key!"

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	sm, err := NewSessionManager(testKey, "", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager() error = %v", err)
	}
	return sm
}

// signedInRequest writes a platform-style session cookie and returns a
// request that carries it.
func signedInRequest(t *testing.T, sm *SessionManager, id, name, role string) *http.Request {
	t.Helper()
	seed := httptest.NewRequest("GET", "/", nil)
	sess, _ := sm.GetSession(seed)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = id
	sess.Values[userName] = name
	sess.Values[userRole] = role

	rec := httptest.NewRecorder()
	if err := sess.Save(seed, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	req := httptest.NewRequest("GET", "/admin/landing-pages", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestNewSessionManager(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name       string
		sessionKey string
		secure     bool
		wantErr    bool
	}{
		{"valid key dev mode", testKey, false, false},
		{"valid key prod mode", testKey, true, false},
		{"empty key", "", false, true},
		{"weak key dev mode", "short", false, false},
		{"weak key prod mode", "short", true, true},
		{"default key prod mode", "dev-only-session-key-not-for-production", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm, err := NewSessionManager(tt.sessionKey, "test-session", "", time.Hour, tt.secure, logger)

			if tt.wantErr {
				if err == nil {
					t.Error("NewSessionManager() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("NewSessionManager() error = %v", err)
			}
			if sm == nil {
				t.Error("NewSessionManager() returned nil")
			}
		})
	}
}

func TestSessionManager_SessionName(t *testing.T) {
	sm := newTestManager(t)
	if got := sm.SessionName(); got != "stratacourse-session" {
		t.Errorf("SessionName() = %q, want default", got)
	}

	named, _ := NewSessionManager(testKey, "platform", "", time.Hour, false, zap.NewNop())
	if got := named.SessionName(); got != "platform" {
		t.Errorf("SessionName() = %q, want %q", got, "platform")
	}
}

func TestSessionManager_LoginURL(t *testing.T) {
	sm := newTestManager(t)
	if sm.LoginURL() != "/login" {
		t.Errorf("LoginURL() = %q, want /login", sm.LoginURL())
	}
	sm.SetLoginURL("  ")
	if sm.LoginURL() != "/login" {
		t.Errorf("blank SetLoginURL changed the URL to %q", sm.LoginURL())
	}
	sm.SetLoginURL("https://learn.example.com/sign-in")
	if sm.LoginURL() != "https://learn.example.com/sign-in" {
		t.Errorf("LoginURL() = %q", sm.LoginURL())
	}
}

func TestCurrentUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	user, ok := CurrentUser(req)
	if ok || user != nil {
		t.Error("CurrentUser() should report no user for a bare request")
	}

	testUser := &SessionUser{ID: "u-1", Name: "Test User", Role: "admin"}
	user, ok = CurrentUser(WithTestUser(req, testUser))
	if !ok || user == nil {
		t.Fatal("CurrentUser() should return the injected user")
	}
	if user.ID != testUser.ID || user.Name != testUser.Name {
		t.Errorf("CurrentUser() = %+v, want %+v", user, testUser)
	}
}

func TestLoadSessionUser(t *testing.T) {
	sm := newTestManager(t)

	var got *SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	}))

	t.Run("session cookie", func(t *testing.T) {
		got = nil
		req := signedInRequest(t, sm, "u-42", "Lan", "admin")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if got == nil {
			t.Fatal("user should be loaded from the session")
		}
		if got.ID != "u-42" || got.Name != "Lan" || got.Role != "admin" {
			t.Errorf("user = %+v", got)
		}
	})

	t.Run("no cookie", func(t *testing.T) {
		got = nil
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
		if got != nil {
			t.Errorf("user = %+v, want none", got)
		}
	})

	t.Run("cookie signed with another key", func(t *testing.T) {
		got = nil
		other, _ := NewSessionManager("another-32-character-signing-key", "", "", time.Hour, false, zap.NewNop())
		req := signedInRequest(t, other, "u-42", "Lan", "admin")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if got != nil {
			t.Errorf("user = %+v, want none for a foreign cookie", got)
		}
	})

	t.Run("existing user kept", func(t *testing.T) {
		got = nil
		req := WithTestUser(httptest.NewRequest("GET", "/", nil), &SessionUser{ID: APIKeyUserID, Role: "admin"})
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if got == nil || got.ID != APIKeyUserID {
			t.Errorf("user = %+v, want the API key user", got)
		}
	})
}

func TestRequireRole(t *testing.T) {
	sm := newTestManager(t)

	called := false
	protected := sm.RequireRole("Admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		user       *SessionUser
		accept     string
		htmx       bool
		wantStatus int
		wantCalled bool
	}{
		{"correct role", &SessionUser{ID: "a", Role: "admin"}, "", false, http.StatusOK, true},
		{"role case folded", &SessionUser{ID: "a", Role: " ADMIN "}, "", false, http.StatusOK, true},
		{"wrong role", &SessionUser{ID: "s", Role: "student"}, "application/json", false, http.StatusForbidden, false},
		{"unauthenticated API", nil, "application/json", false, http.StatusUnauthorized, false},
		{"unauthenticated browser", nil, "text/html", false, http.StatusSeeOther, false},
		{"unauthenticated htmx", nil, "", true, http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			req := httptest.NewRequest("GET", "/admin/landing-pages?page=2", nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			if tt.user != nil {
				req = WithTestUser(req, tt.user)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			if called != tt.wantCalled {
				t.Errorf("handler called = %v, want %v", called, tt.wantCalled)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireRole_RedirectKeepsReturn(t *testing.T) {
	sm := newTestManager(t)
	sm.SetLoginURL("/sign-in")
	protected := sm.RequireRole("admin")(http.NotFoundHandler())

	req := httptest.NewRequest("GET", "/admin/landing-pages/new", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)

	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/sign-in?return=") {
		t.Errorf("Location = %q", loc)
	}
	if !strings.Contains(loc, "%2Fadmin%2Flanding-pages%2Fnew") {
		t.Errorf("Location %q should carry the return path", loc)
	}
}

func TestIsDefaultKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"dev-only-session-key", true},
		{"please-change-me-now", true},
		{"my-PASSWORD-key", true},
		{"k9Vw2pQ7zL4mN8xR3tY6uB1cE5gH0jAs", false},
	}
	for _, tt := range tests {
		if got := isDefaultKey(tt.key); got != tt.want {
			t.Errorf("isDefaultKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestWantsHTML(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if wantsHTML(req) {
		t.Error("wantsHTML() should be false without Accept")
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if !wantsHTML(req) {
		t.Error("wantsHTML() should be true for browsers")
	}

	htmx := httptest.NewRequest("GET", "/", nil)
	htmx.Header.Set("HX-Request", "true")
	if !wantsHTML(htmx) {
		t.Error("wantsHTML() should be true for HTMX")
	}
}

func TestClassifySessionError(t *testing.T) {
	if typ, cat := classifySessionError(nil); typ != sessionErrUnknown || cat != "none" {
		t.Errorf("classifySessionError(nil) = %v, %q", typ, cat)
	}

	tests := []struct {
		name     string
		errMsg   string
		wantType sessionErrorType
	}{
		{"expired", "expired timestamp", sessionErrExpired},
		{"mac invalid", "mac validation failed", sessionErrTampered},
		{"hash invalid", "hash mismatch", sessionErrTampered},
		{"decrypt failed", "decrypt error", sessionErrCorrupted},
		{"base64 error", "base64 decode failed", sessionErrCorrupted},
		{"other decode", "value too long", sessionErrCorrupted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errType, _ := classifySessionError(mockSecureCookieError{msg: tt.errMsg, isDecode: true})
			if errType != tt.wantType {
				t.Errorf("classifySessionError() type = %v, want %v", errType, tt.wantType)
			}
		})
	}

	errType, category := classifySessionError(mockSecureCookieError{msg: "backend error"})
	if errType != sessionErrBackend || category != "backend" {
		t.Errorf("classifySessionError(non-decode) = %v, %q", errType, category)
	}
}

// mockSecureCookieError implements securecookie.Error for testing
type mockSecureCookieError struct {
	msg      string
	isDecode bool
}

func (e mockSecureCookieError) Error() string    { return e.msg }
func (e mockSecureCookieError) IsDecode() bool   { return e.isDecode }
func (e mockSecureCookieError) IsUsage() bool    { return false }
func (e mockSecureCookieError) IsInternal() bool { return false }
func (e mockSecureCookieError) Cause() error     { return nil }

func TestCurrentURI(t *testing.T) {
	req := httptest.NewRequest("GET", "/test/path?query=value", nil)
	if uri := currentURI(req); uri != "/test/path?query=value" {
		t.Errorf("currentURI() = %q", uri)
	}
}

func TestSessionConfigError(t *testing.T) {
	err := &SessionConfigError{Message: "test error"}
	if err.Error() != "test error" {
		t.Errorf("Error() = %q", err.Error())
	}
}
