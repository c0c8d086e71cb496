// Package handlers provides the HTTP API handlers for episodarr.
package handlers

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"gorm.io/gorm"
)

// HealthHandler handles the health and status endpoints.
type HealthHandler struct {
	version   string
	startTime time.Time
	db        *gorm.DB
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		version:   version,
		startTime: time.Now(),
	}
}

// WithDB sets the database connection for readiness checks.
func (h *HealthHandler) WithDB(db *gorm.DB) *HealthHandler {
	h.db = db
	return h
}

// HealthResponse is the health endpoint payload.
type HealthResponse struct {
	Status        string            `json:"status" example:"healthy" doc:"Overall service status"`
	Timestamp     string            `json:"timestamp" doc:"Current server time, RFC 3339"`
	Version       string            `json:"version" doc:"Build version"`
	Uptime        string            `json:"uptime" doc:"Process uptime"`
	UptimeSeconds float64           `json:"uptime_seconds" doc:"Process uptime in seconds"`
	Memory        MemoryInfo        `json:"memory" doc:"Memory usage"`
	Goroutines    int               `json:"goroutines" doc:"Number of goroutines"`
	Checks        map[string]string `json:"checks" doc:"Per-component status"`
}

// MemoryInfo reports process and system memory usage.
type MemoryInfo struct {
	ProcessRSSBytes uint64  `json:"process_rss_bytes" doc:"Resident set size of this process"`
	SystemUsedPct   float64 `json:"system_used_pct" doc:"System memory used percentage"`
}

// HealthInput is the input for the health check endpoint.
type HealthInput struct{}

// HealthOutput is the output for the health check endpoint.
type HealthOutput struct {
	Body HealthResponse
}

// Register registers the health routes with the API.
func (h *HealthHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getHealth",
		Method:      "GET",
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service including process metrics",
		Tags:        []string{"System"},
	}, h.GetHealth)
}

// GetHealth returns the health status of the service.
func (h *HealthHandler) GetHealth(ctx context.Context, _ *HealthInput) (*HealthOutput, error) {
	now := time.Now()
	uptime := now.Sub(h.startTime)

	status := "healthy"
	checks := map[string]string{
		"database": h.databaseStatus(ctx),
	}
	if checks["database"] != "ok" {
		status = "degraded"
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:        status,
			Timestamp:     now.UTC().Format(time.RFC3339),
			Version:       h.version,
			Uptime:        uptime.Round(time.Second).String(),
			UptimeSeconds: uptime.Seconds(),
			Memory:        h.memoryInfo(),
			Goroutines:    runtime.NumGoroutine(),
			Checks:        checks,
		},
	}, nil
}

func (h *HealthHandler) databaseStatus(ctx context.Context) string {
	if h.db == nil {
		return "not_configured"
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return "error"
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return "error"
	}
	return "ok"
}

func (h *HealthHandler) memoryInfo() MemoryInfo {
	info := MemoryInfo{}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if memInfo, err := proc.MemoryInfo(); err == nil && memInfo != nil {
			info.ProcessRSSBytes = memInfo.RSS
		}
	}
	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		info.SystemUsedPct = vm.UsedPercent
	}
	return info
}
