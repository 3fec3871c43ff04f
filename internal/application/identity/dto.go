package identity

import (
	"time"

	"github.com/google/uuid"
)

// LoginInput carries the credentials from the login form
type LoginInput struct {
	Email    string
	Password string
	IP       string
}

// SessionView is the resolved authenticated context for one request
type SessionView struct {
	IdentityID  uuid.UUID `json:"identity_id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Email       string    `json:"email"`
	ContactName string    `json:"contact_name"`
	Role        string    `json:"role"`
	CompanyName string    `json:"company_name,omitempty"`
}

// LoginResult bundles the issued tokens with the session view
type LoginResult struct {
	AccessToken           string      `json:"access_token"`
	RefreshToken          string      `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time   `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time   `json:"refresh_token_expires_at"`
	TokenType             string      `json:"token_type"`
	Session               SessionView `json:"session"`
}
