package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/docvault/backend/internal/infrastructure/auth"
	"github.com/docvault/backend/internal/infrastructure/logger"
)

// Context keys populated by the JWT middleware.
const (
	JWTClaimsKey     = "jwt_claims"
	JWTIdentityIDKey = "jwt_identity_id"
	JWTTenantIDKey   = "jwt_tenant_id"
	JWTEmailKey      = "jwt_email"
	JWTRoleKey       = "jwt_role"
	AuthHeaderKey    = "Authorization"
	BearerPrefix     = "Bearer "
)

// JWTMiddlewareConfig configures the JWT authentication middleware.
type JWTMiddlewareConfig struct {
	// JWTService validates tokens; required.
	JWTService *auth.JWTService
	// TokenBlacklist, when set, rejects revoked tokens.
	TokenBlacklist auth.TokenBlacklist
	// SkipPaths lists exact paths that bypass authentication.
	SkipPaths []string
	// SkipPathPrefixes lists path prefixes that bypass authentication.
	SkipPathPrefixes []string
	// OnError replaces the default 401 response when set.
	OnError func(c *gin.Context, err error)
	Logger  *zap.Logger
}

// DefaultJWTConfig skips the health endpoints and the unauthenticated
// auth endpoints.
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/api/v1/health",
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
	}
}

func (cfg JWTMiddlewareConfig) skips(path string) bool {
	for _, p := range cfg.SkipPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// JWTAuthMiddleware creates JWT authentication middleware with defaults.
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig authenticates requests with a Bearer access
// token. On success the claims land in the gin context and the tenant and
// identity IDs are threaded into the request context for the logger.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.skips(c.Request.URL.Path) {
			c.Next()
			return
		}

		tokenString, reason := bearerToken(c)
		if reason != "" {
			rejectUnauthenticated(c, cfg, auth.ErrInvalidToken, reason)
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			rejectUnauthenticated(c, cfg, err, "Token validation failed")
			return
		}

		if reason := checkRevocation(c, cfg, claims); reason != "" {
			rejectUnauthenticated(c, cfg, auth.ErrTokenBlacklisted, reason)
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTIdentityIDKey, claims.IdentityID)
		c.Set(JWTTenantIDKey, claims.TenantID)
		c.Set(JWTEmailKey, claims.Email)
		c.Set(JWTRoleKey, claims.Role)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithIdentityID(ctx, log, claims.IdentityID)
		ctx, _ = logger.WithTenantID(ctx, log, claims.TenantID)
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("JWT authentication successful",
				zap.String("identity_id", claims.IdentityID),
				zap.String("tenant_id", claims.TenantID),
			)
		}

		c.Next()
	}
}

// bearerToken pulls the token out of the Authorization header. The second
// return value names the failure, or is empty on success.
func bearerToken(c *gin.Context) (string, string) {
	header := c.GetHeader(AuthHeaderKey)
	switch {
	case header == "":
		return "", "Missing authorization header"
	case !strings.HasPrefix(header, BearerPrefix):
		return "", "Invalid authorization header format"
	}
	token := strings.TrimPrefix(header, BearerPrefix)
	if token == "" {
		return "", "Missing token"
	}
	return token, ""
}

// checkRevocation consults the blacklist for both the token JTI and a
// per-identity global invalidation. Lookup failures fail open so an
// unavailable blacklist store does not take down authentication.
func checkRevocation(c *gin.Context, cfg JWTMiddlewareConfig, claims *auth.Claims) string {
	if cfg.TokenBlacklist == nil {
		return ""
	}
	ctx := c.Request.Context()

	if claims.ID != "" {
		blacklisted, err := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
		switch {
		case err != nil:
			if cfg.Logger != nil {
				cfg.Logger.Error("Failed to check token blacklist",
					zap.String("jti", claims.ID),
					zap.Error(err))
			}
		case blacklisted:
			return "Token has been revoked"
		}
	}

	if claims.IdentityID != "" {
		invalidated, err := cfg.TokenBlacklist.IsIdentityTokenInvalidated(ctx, claims.IdentityID, claims.IssuedAt.Time)
		switch {
		case err != nil:
			if cfg.Logger != nil {
				cfg.Logger.Error("Failed to check identity token invalidation",
					zap.String("identity_id", claims.IdentityID),
					zap.Error(err))
			}
		case invalidated:
			return "Session has been invalidated"
		}
	}
	return ""
}

// authFailure maps validation errors to the wire-level code and message.
var authFailures = map[error]struct {
	code    string
	message string
}{
	auth.ErrExpiredToken:     {"ERR_TOKEN_EXPIRED", "Token has expired"},
	auth.ErrInvalidToken:     {"ERR_TOKEN_INVALID", "Invalid token"},
	auth.ErrInvalidTokenType: {"ERR_TOKEN_INVALID", "Invalid token type"},
	auth.ErrTokenNotYetValid: {"ERR_TOKEN_INVALID", "Token is not yet valid"},
	auth.ErrTokenBlacklisted: {"ERR_TOKEN_INVALID", "Token has been revoked"},
}

func rejectUnauthenticated(c *gin.Context, cfg JWTMiddlewareConfig, err error, reason string) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", reason),
			zap.String("path", c.Request.URL.Path),
		)
	}

	code, message := "ERR_UNAUTHORIZED", "Authentication required"
	if failure, ok := authFailures[err]; ok {
		code, message = failure.code, failure.message
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// GetJWTClaims returns the validated claims, or nil before authentication.
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(JWTClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

func contextString(c *gin.Context, key string) string {
	if v, exists := c.Get(key); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetJWTIdentityID returns the authenticated identity ID, or "".
func GetJWTIdentityID(c *gin.Context) string {
	return contextString(c, JWTIdentityIDKey)
}

// GetJWTTenantID returns the authenticated tenant ID, or "".
func GetJWTTenantID(c *gin.Context) string {
	return contextString(c, JWTTenantIDKey)
}

// GetJWTRole returns the authenticated role, or "".
func GetJWTRole(c *gin.Context) string {
	return contextString(c, JWTRoleKey)
}
