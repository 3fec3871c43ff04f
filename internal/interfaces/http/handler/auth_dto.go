package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================
// Auth Request DTOs
// =====================

// CredentialRequest is one CAE platform login pair supplied at registration
type CredentialRequest struct {
	PlatformType string `json:"platform_type" binding:"required,min=2,max=50"`
	Username     string `json:"username" binding:"required,min=1,max=100"`
	Password     string `json:"password" binding:"required,min=1,max=128"`
}

// RegisterRequest represents the request body for tenant registration
type RegisterRequest struct {
	Email          string              `json:"email" binding:"required,email,max=255"`
	Password       string              `json:"password" binding:"required,min=8,max=128"`
	ContactName    string              `json:"contact_name" binding:"required,min=1,max=100"`
	CompanyName    string              `json:"company_name" binding:"required,min=1,max=200"`
	TaxID          string              `json:"tax_id" binding:"required,taxid"`
	Address        string              `json:"address" binding:"omitempty,max=255"`
	Phone          string              `json:"phone" binding:"omitempty,max=30"`
	PostalCode     string              `json:"postal_code" binding:"omitempty,max=10"`
	City           string              `json:"city" binding:"omitempty,max=100"`
	Credentials    []CredentialRequest `json:"credentials" binding:"omitempty,dive"`
	MarketingOptIn bool                `json:"marketing_opt_in"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// =====================
// Auth Response DTOs
// =====================

// TokenResponse represents the token data in auth responses
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// TrialQuotaResponse represents the trial quota granted at registration
type TrialQuotaResponse struct {
	StorageMB      int64           `json:"storage_mb"`
	TokenAllowance decimal.Decimal `json:"token_allowance"`
	MaxProjects    int             `json:"max_projects"`
	MaxDocuments   int             `json:"max_documents"`
}

// RegisterResponse represents the response body for successful registration
type RegisterResponse struct {
	IdentityID  uuid.UUID          `json:"identity_id"`
	TenantID    uuid.UUID          `json:"tenant_id"`
	Email       string             `json:"email"`
	ContactName string             `json:"contact_name"`
	CompanyName string             `json:"company_name"`
	Quota       TrialQuotaResponse `json:"quota"`
}

// SessionResponse represents the resolved session in auth responses
type SessionResponse struct {
	IdentityID  uuid.UUID `json:"identity_id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Email       string    `json:"email"`
	ContactName string    `json:"contact_name"`
	Role        string    `json:"role"`
	CompanyName string    `json:"company_name,omitempty"`
}

// LoginResponse represents the response body for successful login
type LoginResponse struct {
	Token   TokenResponse   `json:"token"`
	Session SessionResponse `json:"session"`
}

// RefreshTokenResponse represents the response body for successful token refresh
type RefreshTokenResponse struct {
	Token TokenResponse `json:"token"`
}

// LogoutResponse represents the response body for logout
type LogoutResponse struct {
	Message string `json:"message"`
}
