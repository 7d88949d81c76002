package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	landingpagestore "github.com/dalemusser/stratacourse/internal/app/store/landingpages"
	"github.com/dalemusser/stratacourse/internal/app/store/landingpages/memstore"
	"github.com/dalemusser/stratacourse/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func down(context.Context) error { return errors.New("connection refused") }

func TestHandler_Check(t *testing.T) {
	h := NewHandler(zap.NewNop(), Check{Name: "memory", Pinger: memstore.New()})

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Check() status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("response status = %q, want %q", resp.Status, "ok")
	}
	if resp.Services["memory"] != "ok" {
		t.Errorf("memory status = %q, want %q", resp.Services["memory"], "ok")
	}
}

func TestHandler_CheckDegraded(t *testing.T) {
	h := NewHandler(zap.NewNop(),
		Check{Name: "memory", Pinger: memstore.New()},
		Check{Name: "postgres", Pinger: pingFunc(down)},
	)

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Check() status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "degraded" || resp.Services["postgres"] != "unavailable" || resp.Services["memory"] != "ok" {
		t.Errorf("response = %+v", resp)
	}
}

func TestHandler_Ready(t *testing.T) {
	tests := []struct {
		name       string
		pinger     Pinger
		wantStatus int
		wantBody   string
	}{
		{"reachable", memstore.New(), http.StatusOK, `{"status":"ready"}`},
		{"unreachable", pingFunc(down), http.StatusServiceUnavailable, `{"status":"not ready"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(zap.NewNop(), Check{Name: "store", Pinger: tt.pinger})
			rec := httptest.NewRecorder()
			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("Ready() status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if body := rec.Body.String(); body != tt.wantBody {
				t.Errorf("Ready() body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestHandler_ReadyMongo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(zap.NewNop(), Check{Name: "mongodb", Pinger: landingpagestore.New(db)})

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Ready() status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHandler_Live(t *testing.T) {
	// Live never pings
	h := NewHandler(zap.NewNop(), Check{Name: "store", Pinger: pingFunc(down)})

	rec := httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Live() status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body := rec.Body.String(); body != `{"status":"alive"}` {
		t.Errorf("Live() body = %q", body)
	}
}

func TestRoutesAndRootEndpoints(t *testing.T) {
	h := NewHandler(zap.NewNop(), Check{Name: "memory", Pinger: memstore.New()})

	r := chi.NewRouter()
	r.Mount("/health", Routes(h))
	MountRootEndpoints(r, h)

	for _, path := range []string{"/health", "/health/ready", "/health/live", "/ready", "/readyz", "/livez"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Code != http.StatusOK {
				t.Errorf("%s status = %d, want %d", path, rec.Code, http.StatusOK)
			}
		})
	}
}
