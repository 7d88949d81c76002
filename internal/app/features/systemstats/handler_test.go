package systemstats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"go.uber.org/zap"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func serve(t *testing.T, h *Handler) (*httptest.ResponseRecorder, Stats) {
	t.Helper()
	rec := httptest.NewRecorder()
	Routes(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	var stats Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec, stats
}

func TestServe_ReportsRuntime(t *testing.T) {
	h := NewHandler("memory", stubPinger{}, zap.NewNop())
	started := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	h.started = started
	h.now = func() time.Time { return started.Add(26*time.Hour + 5*time.Minute) }

	rec, stats := serve(t, h)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
	if stats.Uptime != (26*time.Hour + 5*time.Minute).Seconds() {
		t.Errorf("Uptime = %v", stats.Uptime)
	}
	if stats.UptimeHuman != "1 day 2 hours" {
		t.Errorf("UptimeHuman = %q", stats.UptimeHuman)
	}
	if stats.ServerTime != "2026-06-02T10:05:00Z" {
		t.Errorf("ServerTime = %q", stats.ServerTime)
	}
	if stats.Runtime.GoVersion != runtime.Version() || stats.OS.CPUs != runtime.NumCPU() || stats.OS.Platform != runtime.GOOS {
		t.Errorf("runtime info = %+v %+v", stats.Runtime, stats.OS)
	}
	if stats.Memory.Sys == 0 || stats.Memory.HeapAlloc == 0 {
		t.Errorf("memory = %+v", stats.Memory)
	}
	if !stats.Store.OK || stats.Store.Name != "memory" {
		t.Errorf("store = %+v", stats.Store)
	}
}

func TestServe_StoreDown(t *testing.T) {
	h := NewHandler("postgres", stubPinger{err: errors.New("dial tcp: refused")}, zap.NewNop())

	rec, stats := serve(t, h)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if stats.Store.OK || stats.Store.Error != "unreachable" {
		t.Errorf("store = %+v", stats.Store)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{30 * time.Second, "0 mins"},
		{61 * time.Minute, "1 hour 1 min"},
		{49 * time.Hour, "2 days 1 hour"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
