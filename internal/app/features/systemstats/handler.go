// internal/app/features/systemstats/handler.go
package systemstats

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/dalemusser/stratacourse/internal/app/system/jsonutil"
	"github.com/dalemusser/stratacourse/internal/app/system/timeouts"
	"go.uber.org/zap"
)

var startTime = time.Now()

// Pinger reports whether the page store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves process and runtime statistics to admins.
type Handler struct {
	storeName string
	store     Pinger
	started   time.Time
	now       func() time.Time
	logger    *zap.Logger
}

// NewHandler creates a new stats Handler. store may be nil.
func NewHandler(storeName string, store Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		storeName: storeName,
		store:     store,
		started:   startTime,
		now:       time.Now,
		logger:    logger,
	}
}

// Stats is the response body of GET /api/admin/system/stats.
type Stats struct {
	Uptime      float64     `json:"uptime"` // seconds
	UptimeHuman string      `json:"uptimeHuman"`
	Memory      MemoryStats `json:"memory"`
	OS          OSInfo      `json:"os"`
	Runtime     RuntimeInfo `json:"runtime"`
	Store       StoreStatus `json:"store"`
	ServerTime  string      `json:"serverTime"`
}

// MemoryStats is a subset of runtime.MemStats, in bytes.
type MemoryStats struct {
	Sys        uint64 `json:"sys"`
	HeapSys    uint64 `json:"heapSys"`
	HeapAlloc  uint64 `json:"heapAlloc"`
	StackInuse uint64 `json:"stackInuse"`
	NumGC      uint32 `json:"numGC"`
	HeapHuman  string `json:"heapHuman"`
}

type OSInfo struct {
	Platform string `json:"platform"`
	Arch     string `json:"arch"`
	Hostname string `json:"hostname,omitempty"`
	CPUs     int    `json:"cpus"`
}

type RuntimeInfo struct {
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
	PID          int    `json:"pid"`
}

type StoreStatus struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	PingMS int64  `json:"pingMs"`
	Error  string `json:"error,omitempty"`
}

// Serve handles GET /api/admin/system/stats.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	uptime := now.Sub(h.started)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	hostname, _ := os.Hostname()

	stats := Stats{
		Uptime:      uptime.Seconds(),
		UptimeHuman: formatDuration(uptime),
		Memory: MemoryStats{
			Sys:        m.Sys,
			HeapSys:    m.HeapSys,
			HeapAlloc:  m.HeapAlloc,
			StackInuse: m.StackInuse,
			NumGC:      m.NumGC,
			HeapHuman:  formatBytes(m.HeapAlloc),
		},
		OS: OSInfo{
			Platform: runtime.GOOS,
			Arch:     runtime.GOARCH,
			Hostname: hostname,
			CPUs:     runtime.NumCPU(),
		},
		Runtime: RuntimeInfo{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			PID:          os.Getpid(),
		},
		Store:      h.pingStore(r.Context()),
		ServerTime: now.UTC().Format(time.RFC3339),
	}

	w.Header().Set("Cache-Control", "no-store")
	jsonutil.OK(w, r, stats)
}

func (h *Handler) pingStore(ctx context.Context) StoreStatus {
	status := StoreStatus{Name: h.storeName}
	if h.store == nil {
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()

	start := time.Now()
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("system stats: page store ping failed", zap.String("store", h.storeName), zap.Error(err))
		status.Error = "unreachable"
		return status
	}
	status.OK = true
	status.PingMS = time.Since(start).Milliseconds()
	return status
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return formatPlural(days, "day") + " " + formatPlural(hours, "hour")
	}
	if hours > 0 {
		return formatPlural(hours, "hour") + " " + formatPlural(minutes, "min")
	}
	return formatPlural(minutes, "min")
}

func formatPlural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}

// formatBytes formats bytes in a human-readable way.
func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatUint(b, 10) + " B"
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
