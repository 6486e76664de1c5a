package middleware

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-reader/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-reader/internal/platform/config"
	"github.com/jsamuelsen/quote-reader/internal/platform/logging"
)

const (
	// ContextKeyClaims is the gin context key for the caller's claims.
	ContextKeyClaims = "claims"

	defaultSubjectHeader = "X-User-ID"
	defaultScopesHeader  = "X-User-Scopes"
)

// Claims is the caller identity forwarded by the gateway in headers.
type Claims struct {
	Subject string
	Scopes  []string
}

// HasScope checks if the caller was granted scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// ExtractClaims reads the identity headers named in cfg.
func ExtractClaims(c *gin.Context, cfg *config.AuthConfig) *Claims {
	subjectHeader := defaultSubjectHeader
	scopesHeader := defaultScopesHeader

	if cfg != nil {
		if cfg.SubjectHeader != "" {
			subjectHeader = cfg.SubjectHeader
		}

		if cfg.ScopesHeader != "" {
			scopesHeader = cfg.ScopesHeader
		}
	}

	return &Claims{
		Subject: strings.TrimSpace(c.GetHeader(subjectHeader)),
		// OAuth2 scope format: space separated.
		Scopes: strings.Fields(c.GetHeader(scopesHeader)),
	}
}

// GetClaims returns the claims stored by RequireAuth, or nil.
func GetClaims(c *gin.Context) *Claims {
	if claims, exists := c.Get(ContextKeyClaims); exists {
		if cl, ok := claims.(*Claims); ok {
			return cl
		}
	}

	return nil
}

// Rejecter writes the response for a request RequireAuth turns away and
// aborts the chain. code is dto.ErrorCodeUnauthorized or dto.ErrorCodeForbidden.
type Rejecter func(c *gin.Context, code, message string)

// RequireAuth guards settings changes. When cfg.Enabled is false it passes
// every request through. Otherwise a missing subject is rejected as
// unauthorized and a missing cfg.SettingsScope (when configured) as
// forbidden. A nil reject writes the standard error envelope (401/403).
func RequireAuth(cfg *config.AuthConfig, reject Rejecter) gin.HandlerFunc {
	if reject == nil {
		reject = dto.AbortWithErrorCode
	}

	return func(c *gin.Context) {
		if cfg == nil || !cfg.Enabled {
			c.Next()
			return
		}

		claims := ExtractClaims(c, cfg)
		if claims.Subject == "" {
			logging.FromContext(c.Request.Context()).Warn("settings change without identity")
			reject(c, dto.ErrorCodeUnauthorized, "authentication required")

			return
		}

		if cfg.SettingsScope != "" && !claims.HasScope(cfg.SettingsScope) {
			reject(c, dto.ErrorCodeForbidden,
				"insufficient permissions: scope "+cfg.SettingsScope+" required")

			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Request = c.Request.WithContext(
			logging.With(c.Request.Context(), slog.String("user_id", claims.Subject)),
		)

		c.Next()
	}
}
