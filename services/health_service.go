package services

import (
	"context"
	"runtime"
	"slices"
	"storefront_server/lib"
	"time"

	"github.com/MonkyMars/gecho"
)

const checkTimeout = 5 * time.Second

// Pinger is anything with a cheap liveness check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type MemoryStats struct {
	HeapMB uint64 `json:"heap_mb"`
	SysMB  uint64 `json:"sys_mb"`
	NumGC  uint32 `json:"num_gc"`
}

type ServerStatus struct {
	StartedAt  time.Time   `json:"started_at"`
	Uptime     float64     `json:"uptime_seconds"`
	Goroutines int         `json:"goroutines"`
	Memory     MemoryStats `json:"memory"`
}

type DependencyStatus struct {
	Name      string    `json:"name"`
	Connected bool      `json:"connected"`
	CheckedAt time.Time `json:"checked_at"`
	LatencyMs int64     `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
}

// HealthService checks the database and the cache on demand.
type HealthService struct {
	logger  *gecho.Logger
	started time.Time
	checks  map[string]Pinger
}

func NewHealthService(logger *gecho.Logger, db, cache Pinger) *HealthService {
	return &HealthService{
		logger:  logger,
		started: time.Now(),
		checks:  map[string]Pinger{"database": db, "cache": cache},
	}
}

// Dependencies lists the checked dependencies in a stable order.
func (hs *HealthService) Dependencies() []string {
	names := make([]string, 0, len(hs.checks))
	for name := range hs.checks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (hs *HealthService) Server() ServerStatus {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return ServerStatus{
		StartedAt:  hs.started,
		Uptime:     time.Since(hs.started).Seconds(),
		Goroutines: runtime.NumGoroutine(),
		Memory: MemoryStats{
			HeapMB: m.HeapAlloc >> 20,
			SysMB:  m.Sys >> 20,
			NumGC:  m.NumGC,
		},
	}
}

// Check pings one dependency. The status is filled in even when the ping fails.
func (hs *HealthService) Check(ctx context.Context, name string) (DependencyStatus, error) {
	p, ok := hs.checks[name]
	if !ok || p == nil {
		return DependencyStatus{Name: name}, lib.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	status := DependencyStatus{
		Name:      name,
		Connected: err == nil,
		CheckedAt: time.Now(),
		LatencyMs: time.Since(start).Milliseconds(),
	}

	if err != nil {
		status.Error = err.Error()
		hs.logger.Error("Health check failed", gecho.Field("dependency", name), gecho.Field("error", err))
	}
	return status, err
}
