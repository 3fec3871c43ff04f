package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tenant context keys
const (
	TenantIDKey = "tenant_id"
)

// ErrTenantSuspended is returned by validators when the tenant exists but
// is not in an active state.
var ErrTenantSuspended = errors.New("tenant is suspended")

// ErrTenantNotFound is returned by validators when the tenant does not exist.
var ErrTenantNotFound = errors.New("tenant not found")

// TenantValidator validates that a tenant is allowed to access the system.
type TenantValidator interface {
	ValidateTenant(ctx context.Context, tenantID uuid.UUID) error
}

// TenantConfig holds configuration for tenant middleware
type TenantConfig struct {
	// Validator is optional; when set, every request checks tenant status
	Validator TenantValidator
	// SkipPaths are paths that don't require a tenant
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require a tenant
	SkipPathPrefixes []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultTenantConfig returns default tenant middleware configuration
func DefaultTenantConfig() TenantConfig {
	return TenantConfig{
		Validator: nil,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/api/v1/health",
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		SkipPathPrefixes: []string{},
		Logger:           nil,
	}
}

// TenantMiddleware creates tenant resolution middleware with default config
func TenantMiddleware() gin.HandlerFunc {
	return TenantMiddlewareWithConfig(DefaultTenantConfig())
}

// TenantMiddlewareWithConfig creates tenant resolution middleware.
//
// The tenant is taken exclusively from the authenticated JWT claims set by
// JWTAuthMiddleware. Tenant identifiers in headers, query parameters or
// request bodies are never trusted: the session decides the tenant.
func TenantMiddlewareWithConfig(cfg TenantConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		tenantIDStr := GetJWTTenantID(c)
		if tenantIDStr == "" {
			abortTenantError(c, http.StatusUnauthorized, "ERR_UNAUTHORIZED", "Tenant could not be resolved from session")
			return
		}

		tenantID, err := uuid.Parse(tenantIDStr)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("Malformed tenant ID in token claims",
					zap.String("tenant_id", tenantIDStr),
					zap.Error(err))
			}
			abortTenantError(c, http.StatusUnauthorized, "ERR_TOKEN_INVALID", "Invalid tenant in session")
			return
		}

		if cfg.Validator != nil {
			if err := cfg.Validator.ValidateTenant(c.Request.Context(), tenantID); err != nil {
				switch {
				case errors.Is(err, ErrTenantSuspended):
					abortTenantError(c, http.StatusForbidden, "ERR_TENANT_SUSPENDED", "Tenant account is suspended")
				case errors.Is(err, ErrTenantNotFound):
					abortTenantError(c, http.StatusForbidden, "ERR_FORBIDDEN", "Tenant account is not available")
				default:
					if cfg.Logger != nil {
						cfg.Logger.Error("Tenant validation failed",
							zap.String("tenant_id", tenantIDStr),
							zap.Error(err))
					}
					abortTenantError(c, http.StatusInternalServerError, "ERR_INTERNAL", "Failed to validate tenant")
				}
				return
			}
		}

		c.Set(TenantIDKey, tenantID)
		c.Next()
	}
}

func abortTenantError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// GetTenantID retrieves the tenant ID from gin.Context
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(TenantIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

// MustGetTenantID retrieves the tenant ID or panics. Only for handlers that
// are guaranteed to run behind TenantMiddleware.
func MustGetTenantID(c *gin.Context) uuid.UUID {
	id, ok := GetTenantID(c)
	if !ok {
		panic("tenant ID not found in context - is TenantMiddleware registered?")
	}
	return id
}
