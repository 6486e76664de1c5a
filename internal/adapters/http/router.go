package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-reader/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-reader/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-reader/internal/platform/config"
	"github.com/jsamuelsen/quote-reader/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds API requests when RouterConfig.Timeout is zero.
const DefaultRequestTimeout = 90 * time.Second

// RouterConfig holds the handlers and settings used by SetupRouter.
// Nil handlers are skipped.
type RouterConfig struct {
	ServiceName string
	Auth        *config.AuthConfig
	Timeout     time.Duration

	Health   *handlers.HealthHandler
	Pages    *handlers.PageHandler
	Quotes   *handlers.QuoteHandler
	Speech   *handlers.SpeechHandler
	Settings *handlers.SettingsHandler
}

// SetupRouter configures middleware and routes on the engine.
// Middleware order (first to last):
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry span, then trace ID and request metrics
//  5. Logging (skips /-/ and /static/)
//
// Route groups:
//   - /-/: probes, build info, metrics; no timeout
//   - /, /quotes, /settings, /static: pages
//   - /api: JSON API with request timeout; POST /api/settings behind RequireAuth
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.ServiceName),
		telemetry.Middleware(),
		middleware.Logging("/-/", "/static/"),
	)

	if cfg.Health != nil {
		cfg.Health.RegisterOpsRoutes(engine)
	}

	if cfg.Pages != nil {
		cfg.Pages.RegisterPageRoutes(engine)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	api := engine.Group("/api")
	api.Use(middleware.Timeout(timeout))

	if cfg.Quotes != nil {
		cfg.Quotes.RegisterQuoteRoutes(api)
	}

	if cfg.Speech != nil {
		cfg.Speech.RegisterSpeechRoutes(api)
	}

	if cfg.Settings != nil {
		protected := api.Group("")
		protected.Use(middleware.RequireAuth(cfg.Auth, cfg.Settings.Reject))

		cfg.Settings.RegisterSettingsRoutes(api, protected)
	}
}
