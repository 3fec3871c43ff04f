package handler

import (
	"errors"
	"net/http"

	identityapp "github.com/docvault/backend/internal/application/identity"
	"github.com/docvault/backend/internal/application/onboarding"
	"github.com/docvault/backend/internal/infrastructure/config"
	"github.com/docvault/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const refreshTokenCookie = "docvault_refresh_token"

// AuthHandler handles registration and session HTTP requests
type AuthHandler struct {
	BaseHandler
	saga     *onboarding.Saga
	sessions *identityapp.SessionService
	cookies  config.CookieConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(saga *onboarding.Saga, sessions *identityapp.SessionService, cookies config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		saga:     saga,
		sessions: sessions,
		cookies:  cookies,
	}
}

// Register godoc
// @Summary      Register a new tenant
// @Description  Provision a new tenant account from the registration form. On success the tenant is fully set up and ready for the first login.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration form"
// @Param        X-Idempotency-Key header string false "Idempotency key for safe retries"
// @Success      201 {object} dto.Response{data=RegisterResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			middleware.HandleValidationError(c, err)
			return
		}
		h.BadRequest(c, "Invalid request body")
		return
	}

	credentials := make([]onboarding.CredentialInput, len(req.Credentials))
	for i, cred := range req.Credentials {
		credentials[i] = onboarding.CredentialInput{
			PlatformType: cred.PlatformType,
			Username:     cred.Username,
			Password:     cred.Password,
		}
	}

	result, err := h.saga.Register(c.Request.Context(), onboarding.RegistrationInput{
		Email:          req.Email,
		Password:       req.Password,
		ContactName:    req.ContactName,
		CompanyName:    req.CompanyName,
		TaxID:          req.TaxID,
		Address:        req.Address,
		Phone:          req.Phone,
		PostalCode:     req.PostalCode,
		City:           req.City,
		Credentials:    credentials,
		MarketingOptIn: req.MarketingOptIn,
		IdempotencyKey: c.GetHeader("X-Idempotency-Key"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, RegisterResponse{
		IdentityID:  result.IdentityID,
		TenantID:    result.TenantID,
		Email:       result.Profile.Email,
		ContactName: result.Profile.ContactName,
		CompanyName: result.CompanyName,
		Quota: TrialQuotaResponse{
			StorageMB:      result.Quota.StorageMB,
			TokenAllowance: result.Quota.TokenAllowance,
			MaxProjects:    result.Quota.MaxProjects,
			MaxDocuments:   result.Quota.MaxDocuments,
		},
	})
}

// Login godoc
// @Summary      User login
// @Description  Authenticate with email and password, returning a token pair and the resolved session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} dto.Response{data=LoginResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.sessions.Login(c.Request.Context(), identityapp.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)

	h.Success(c, LoginResponse{
		Token: TokenResponse{
			AccessToken:           result.AccessToken,
			RefreshToken:          result.RefreshToken,
			AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
			TokenType:             result.TokenType,
		},
		Session: SessionResponse{
			IdentityID:  result.Session.IdentityID,
			TenantID:    result.Session.TenantID,
			Email:       result.Session.Email,
			ContactName: result.Session.ContactName,
			Role:        result.Session.Role,
			CompanyName: result.Session.CompanyName,
		},
	})
}

// RefreshToken godoc
// @Summary      Refresh access token
// @Description  Get a new token pair using the refresh token from the request body or cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest false "Refresh token"
// @Success      200 {object} dto.Response{data=RefreshTokenResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Browser clients carry the refresh token in an HTTP-only cookie
		if cookie, cookieErr := c.Cookie(refreshTokenCookie); cookieErr == nil && cookie != "" {
			req.RefreshToken = cookie
		} else {
			h.BadRequest(c, "Missing refresh token")
			return
		}
	}

	pair, err := h.sessions.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.Unauthorized(c, "Refresh token is invalid or expired")
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)

	h.Success(c, RefreshTokenResponse{
		Token: TokenResponse{
			AccessToken:           pair.AccessToken,
			RefreshToken:          pair.RefreshToken,
			AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
			TokenType:             pair.TokenType,
		},
	})
}

// Logout godoc
// @Summary      User logout
// @Description  Logout and revoke the current session's tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response{data=LogoutResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.sessions.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}

	h.clearRefreshCookie(c)

	h.Success(c, LogoutResponse{
		Message: "Logged out successfully",
	})
}

// GetSession godoc
// @Summary      Get current session
// @Description  Resolve the authenticated tenant context for the current token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response{data=SessionResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/session [get]
func (h *AuthHandler) GetSession(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	session, err := h.sessions.Resolve(c.Request.Context(), claims)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, SessionResponse{
		IdentityID:  session.IdentityID,
		TenantID:    session.TenantID,
		Email:       session.Email,
		ContactName: session.ContactName,
		Role:        session.Role,
		CompanyName: session.CompanyName,
	})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	if h.cookies.Domain == "" {
		return
	}
	c.SetSameSite(parseSameSite(h.cookies.SameSite))
	c.SetCookie(refreshTokenCookie, token, 0, h.cookies.Path, h.cookies.Domain, h.cookies.Secure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	if h.cookies.Domain == "" {
		return
	}
	c.SetSameSite(parseSameSite(h.cookies.SameSite))
	c.SetCookie(refreshTokenCookie, "", -1, h.cookies.Path, h.cookies.Domain, h.cookies.Secure, true)
}

func parseSameSite(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
