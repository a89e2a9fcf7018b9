package monitoring

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

type Metrics struct {
	RequestCount    int64            `json:"request_count"`
	RequestDuration time.Duration    `json:"avg_request_duration_ms"`
	ActiveRequests  int64            `json:"active_requests"`
	ErrorCount      int64            `json:"error_count"`
	StatusCodes     map[string]int64 `json:"status_codes"`
	Endpoints       map[string]int64 `json:"endpoint_calls"`
	StartTime       time.Time        `json:"start_time"`
	LastRequest     time.Time        `json:"last_request"`
}

type HealthCheck struct {
	Name    string    `json:"name"`
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	LastRun time.Time `json:"last_run"`
}

type HealthCheckFunc func(ctx context.Context) error

// Registry collects request metrics and runs registered health checks. The
// zero value is not usable; use NewRegistry.
type Registry struct {
	mu            sync.RWMutex
	metrics       Metrics
	totalDuration time.Duration

	checksMu     sync.RWMutex
	checks       map[string]HealthCheckFunc
	checkTimeout time.Duration
}

func NewRegistry() *Registry {
	return &Registry{
		metrics: Metrics{
			StatusCodes: make(map[string]int64),
			Endpoints:   make(map[string]int64),
			StartTime:   time.Now(),
		},
		checks:       make(map[string]HealthCheckFunc),
		checkTimeout: 5 * time.Second,
	}
}

func (r *Registry) MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		r.mu.Lock()
		r.metrics.ActiveRequests++
		r.mu.Unlock()

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		endpoint := c.Request.Method + " " + route

		r.mu.Lock()
		defer r.mu.Unlock()

		r.metrics.RequestCount++
		r.metrics.ActiveRequests--
		r.totalDuration += duration
		r.metrics.RequestDuration = r.totalDuration / time.Duration(r.metrics.RequestCount)
		r.metrics.LastRequest = time.Now()

		if statusCode >= 400 {
			r.metrics.ErrorCount++
		}
		r.metrics.StatusCodes[http.StatusText(statusCode)]++
		r.metrics.Endpoints[endpoint]++
	}
}

// Snapshot returns a copy that is safe to read after the lock is released.
func (r *Registry) Snapshot() Metrics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.metrics
	out.StatusCodes = make(map[string]int64, len(r.metrics.StatusCodes))
	out.Endpoints = make(map[string]int64, len(r.metrics.Endpoints))
	for k, v := range r.metrics.StatusCodes {
		out.StatusCodes[k] = v
	}
	for k, v := range r.metrics.Endpoints {
		out.Endpoints[k] = v
	}
	return out
}

type SystemMetrics struct {
	Uptime         time.Duration `json:"uptime"`
	MemoryUsage    MemoryStats   `json:"memory"`
	GoroutineCount int           `json:"goroutine_count"`
	CPUCount       int           `json:"cpu_count"`
	GoVersion      string        `json:"go_version"`
}

type MemoryStats struct {
	Alloc        uint64 `json:"alloc_mb"`
	TotalAlloc   uint64 `json:"total_alloc_mb"`
	Sys          uint64 `json:"sys_mb"`
	NumGC        uint32 `json:"num_gc"`
	NextGC       uint64 `json:"next_gc_mb"`
	LastGC       string `json:"last_gc"`
	GCPauseTotal string `json:"gc_pause_total"`
}

func (r *Registry) SystemMetrics() SystemMetrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SystemMetrics{
		Uptime: time.Since(r.metrics.StartTime),
		MemoryUsage: MemoryStats{
			Alloc:        bToMb(m.Alloc),
			TotalAlloc:   bToMb(m.TotalAlloc),
			Sys:          bToMb(m.Sys),
			NumGC:        m.NumGC,
			NextGC:       bToMb(m.NextGC),
			LastGC:       time.Unix(0, int64(m.LastGC)).Format(time.RFC3339),
			GCPauseTotal: time.Duration(m.PauseTotalNs).String(),
		},
		GoroutineCount: runtime.NumGoroutine(),
		CPUCount:       runtime.NumCPU(),
		GoVersion:      runtime.Version(),
	}
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}

// RegisterHealthCheck adds or replaces a named check. Checks run on every
// health or readiness request.
func (r *Registry) RegisterHealthCheck(name string, check HealthCheckFunc) {
	r.checksMu.Lock()
	defer r.checksMu.Unlock()
	r.checks[name] = check
}

func (r *Registry) RunHealthChecks(ctx context.Context) map[string]HealthCheck {
	r.checksMu.RLock()
	names := make([]string, 0, len(r.checks))
	for name := range r.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	checks := make([]HealthCheckFunc, len(names))
	for i, name := range names {
		checks[i] = r.checks[name]
	}
	r.checksMu.RUnlock()

	results := make(map[string]HealthCheck, len(names))
	for i, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, r.checkTimeout)
		err := checks[i](checkCtx)
		cancel()

		result := HealthCheck{Name: name, Status: StatusHealthy, LastRun: time.Now()}
		if err != nil {
			result.Status = StatusUnhealthy
			result.Message = err.Error()
		}
		results[name] = result
	}
	return results
}

func allHealthy(checks map[string]HealthCheck) bool {
	for _, check := range checks {
		if check.Status != StatusHealthy {
			return false
		}
	}
	return true
}

func (r *Registry) MetricsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"application": r.Snapshot(),
			"system":      r.SystemMetrics(),
			"timestamp":   time.Now(),
		})
	}
}

func (r *Registry) HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := r.RunHealthChecks(c.Request.Context())

		overall, status := StatusHealthy, http.StatusOK
		if !allHealthy(checks) {
			overall, status = StatusUnhealthy, http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"status":    overall,
			"timestamp": time.Now(),
			"checks":    checks,
			"uptime":    time.Since(r.metrics.StartTime).String(),
		})
	}
}

func (r *Registry) ReadinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if allHealthy(r.RunHealthChecks(c.Request.Context())) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "ready",
				"timestamp": time.Now(),
			})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "not ready",
			"timestamp": time.Now(),
		})
	}
}

func (r *Registry) LivenessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "alive",
			"timestamp": time.Now(),
			"uptime":    time.Since(r.metrics.StartTime).String(),
		})
	}
}

// Register mounts the operational endpoints on r.
func (r *Registry) Register(router gin.IRouter) {
	router.GET("/metrics", r.MetricsHandler())
	router.GET("/health", r.HealthHandler())
	router.GET("/ready", r.ReadinessHandler())
	router.GET("/live", r.LivenessHandler())
}
