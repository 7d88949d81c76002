package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestAPIKeyAuth(t *testing.T) {
	var got *SessionUser
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		got, _ = CurrentUser(r)
	})

	tests := []struct {
		name       string
		configured string
		header     string
		wantStatus int
		wantCalled bool
		wantUser   bool
	}{
		{"valid key", "automation-key", "Bearer automation-key", http.StatusOK, true, true},
		{"scheme case folded", "automation-key", "bearer automation-key", http.StatusOK, true, true},
		{"wrong key", "automation-key", "Bearer nope", http.StatusUnauthorized, false, false},
		{"wrong scheme", "automation-key", "Basic abc", http.StatusUnauthorized, false, false},
		{"no header passes through", "automation-key", "", http.StatusOK, true, false},
		{"unconfigured rejects bearer", "", "Bearer anything", http.StatusUnauthorized, false, false},
		{"unconfigured passes sessions", "", "", http.StatusOK, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called, got = false, nil
			h := APIKeyAuth(tt.configured, zap.NewNop())(next)

			req := httptest.NewRequest("GET", "/api/admin/landing-pages", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != tt.wantCalled {
				t.Errorf("called = %v, want %v", called, tt.wantCalled)
			}
			if tt.wantUser {
				if got == nil || got.ID != APIKeyUserID || got.Role != "admin" {
					t.Errorf("user = %+v, want API key admin", got)
				}
			} else if got != nil {
				t.Errorf("user = %+v, want none", got)
			}
		})
	}
}

func TestAPIKeyAuth_SatisfiesRequireRole(t *testing.T) {
	sm := newTestManager(t)
	h := APIKeyAuth("automation-key", zap.NewNop())(
		sm.LoadSessionUser(
			sm.RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})),
		),
	)

	req := httptest.NewRequest("DELETE", "/api/admin/landing-pages/x", nil)
	req.Header.Set("Authorization", "Bearer automation-key")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}
