package health

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// CacheProbe is satisfied by *cache.Cache
type CacheProbe interface {
	Backend() string
	IsHealthy(ctx context.Context) bool
}

type HealthChecker struct {
	db    Pinger
	cache CacheProbe
	store string
	start time.Time
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Store    string         `json:"store"`
	Database DatabaseHealth `json:"database"`
	Cache    *CacheHealth   `json:"cache,omitempty"`
}

type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

type CacheHealth struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

type SystemHealth struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
	DiskPercent   float64 `json:"disk_percent"`
	Goroutines    int     `json:"goroutines"`
	UptimeSeconds int64   `json:"uptime_seconds"`
}

// Liveness answers without touching any backend
type Liveness struct {
	Status        string `json:"status"`
	Store         string `json:"store"`
	CacheBackend  string `json:"cache_backend"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

type DetailedStatus struct {
	HealthStatus
	System SystemHealth `json:"system"`
}

// NewHealthChecker takes a nil db for the memory store
func NewHealthChecker(db Pinger, cache CacheProbe, store string) *HealthChecker {
	return &HealthChecker{db: db, cache: cache, store: store, start: time.Now()}
}

func (h *HealthChecker) Liveness() Liveness {
	l := Liveness{
		Status:        "ok",
		Store:         h.store,
		CacheBackend:  "none",
		UptimeSeconds: int64(time.Since(h.start).Seconds()),
	}
	if h.cache != nil {
		l.CacheBackend = h.cache.Backend()
	}
	return l
}

func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	dbHealth := h.checkDatabase(ctx)

	status := "healthy"
	if dbHealth.Status == "unhealthy" {
		status = "unhealthy"
	}

	hs := HealthStatus{
		Status:   status,
		Store:    h.store,
		Database: dbHealth,
	}
	if h.cache != nil {
		// a lost cache degrades, never fails, readiness
		c := &CacheHealth{Status: "healthy", Backend: h.cache.Backend()}
		if !h.cache.IsHealthy(ctx) {
			c.Status = "unhealthy"
			if hs.Status == "healthy" {
				hs.Status = "degraded"
			}
		}
		hs.Cache = c
	}
	return hs
}

func (h *HealthChecker) CheckDetailed(ctx context.Context) DetailedStatus {
	d := DetailedStatus{HealthStatus: h.CheckBasic(ctx)}

	if cpuPercents, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(cpuPercents) > 0 {
		d.System.CPUPercent = cpuPercents[0]
	}
	if memStats, err := mem.VirtualMemory(); err == nil {
		d.System.MemoryPercent = memStats.UsedPercent
		d.System.MemoryUsedMB = memStats.Used / 1024 / 1024
	}
	if diskStats, err := disk.Usage("/"); err == nil {
		d.System.DiskPercent = diskStats.UsedPercent
	}
	d.System.Goroutines = runtime.NumGoroutine()
	d.System.UptimeSeconds = int64(time.Since(h.start).Seconds())
	return d
}

func (h *HealthChecker) checkDatabase(ctx context.Context) DatabaseHealth {
	if h.db == nil {
		return DatabaseHealth{Status: "not_configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return DatabaseHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	return DatabaseHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}
