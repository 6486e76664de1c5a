// Package handlers provides the HTTP handlers for pages, the quote and speech
// API, voice settings, and the /-/ operational endpoints.
package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/quote-reader/internal/ports"
)

// BuildInfo is injected with -ldflags by the cmd package.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

// NewBuildInfo fills in the running Go version.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// HealthHandler serves the /-/ operational endpoints.
type HealthHandler struct {
	registry  ports.HealthRegistry
	buildInfo BuildInfo
	gatherer  prometheus.Gatherer
}

// HealthOption configures a HealthHandler.
type HealthOption func(*HealthHandler)

// WithGatherer serves /-/metrics from g instead of the default registry.
func WithGatherer(g prometheus.Gatherer) HealthOption {
	return func(h *HealthHandler) { h.gatherer = g }
}

// NewHealthHandler creates the operational handler.
func NewHealthHandler(registry ports.HealthRegistry, buildInfo BuildInfo, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{
		registry:  registry,
		buildInfo: buildInfo,
		gatherer:  prometheus.DefaultGatherer,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

type statusResponse struct {
	Status    string                        `json:"status"`
	Checks    map[string]*ports.CheckResult `json:"checks,omitempty"`
	CheckedAt *time.Time                    `json:"checkedAt,omitempty"`
}

// Liveness answers 200 without consulting the model or speech provider.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}

// Readiness runs the registered checks and answers 503 if any fails.
// Quote requests still succeed while unready; they fall back to the catalog.
func (h *HealthHandler) Readiness(c *gin.Context) {
	result := h.registry.CheckAll(c.Request.Context())

	code := http.StatusOK
	if result.Status != ports.HealthStatusHealthy {
		code = http.StatusServiceUnavailable
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(code, statusResponse{
		Status:    string(result.Status),
		Checks:    result.Checks,
		CheckedAt: &result.Timestamp,
	})
}

// Build serves the ldflags build metadata.
func (h *HealthHandler) Build(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo)
}

// Metrics serves the Prometheus exposition format, including the quote and
// speech outcome counters.
func (h *HealthHandler) Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
}

// RegisterOpsRoutes registers live, ready, build and metrics under /-/.
func (h *HealthHandler) RegisterOpsRoutes(engine *gin.Engine) {
	ops := engine.Group("/-")
	ops.GET("/live", h.Liveness)
	ops.GET("/ready", h.Readiness)
	ops.GET("/build", h.Build)
	ops.GET("/metrics", h.Metrics())
}
