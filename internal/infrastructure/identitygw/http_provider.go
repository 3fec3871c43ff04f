package identitygw

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/docvault/backend/internal/domain/identity"
	"github.com/docvault/backend/internal/domain/shared"
	"github.com/docvault/backend/internal/infrastructure/config"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type identityResponse struct {
	IdentityID string `json:"identity_id"`
	Error      string `json:"error,omitempty"`
}

// HTTPProvider talks to the hosted authentication service over its REST
// API. The service owns the credential store; this client only exchanges
// email and password for an opaque identity id. Note there is no delete
// endpoint upstream, which is why the provider port has no delete either.
type HTTPProvider struct {
	client *resty.Client
	logger *zap.Logger
}

// NewHTTPProvider creates a provider against the configured auth service
func NewHTTPProvider(cfg config.IdentityConfig, logger *zap.Logger) *HTTPProvider {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	// only retry on transport errors; a 4xx answer is final
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() >= http.StatusInternalServerError
	})

	return &HTTPProvider{client: client, logger: logger}
}

// SignUp creates a new authentication principal upstream
func (p *HTTPProvider) SignUp(ctx context.Context, email, password string) (uuid.UUID, error) {
	var result identityResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(signUpRequest{Email: email, Password: password}).
		SetResult(&result).
		SetError(&result).
		Post("/v1/identities")
	if err != nil {
		p.logger.Error("identity service sign-up call failed", zap.Error(err))
		return uuid.Nil, fmt.Errorf("identity service unreachable: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusCreated, http.StatusOK:
		return parseIdentityID(result.IdentityID)
	case http.StatusConflict:
		return uuid.Nil, shared.ErrAlreadyExists
	default:
		p.logger.Error("identity service rejected sign-up",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("upstream_error", result.Error))
		return uuid.Nil, fmt.Errorf("identity service sign-up failed with status %d", resp.StatusCode())
	}
}

// SignIn exchanges credentials for the identity id
func (p *HTTPProvider) SignIn(ctx context.Context, email, password string) (uuid.UUID, error) {
	var result identityResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(signInRequest{Email: email, Password: password}).
		SetResult(&result).
		SetError(&result).
		Post("/v1/sessions")
	if err != nil {
		p.logger.Error("identity service sign-in call failed", zap.Error(err))
		return uuid.Nil, fmt.Errorf("identity service unreachable: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated:
		return parseIdentityID(result.IdentityID)
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return uuid.Nil, shared.ErrUnauthorized
	default:
		p.logger.Error("identity service rejected sign-in",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("upstream_error", result.Error))
		return uuid.Nil, fmt.Errorf("identity service sign-in failed with status %d", resp.StatusCode())
	}
}

// SignOut invalidates the upstream session. Best effort: local token
// revocation is what actually ends the session.
func (p *HTTPProvider) SignOut(ctx context.Context, identityID uuid.UUID) error {
	resp, err := p.client.R().
		SetContext(ctx).
		Delete("/v1/sessions/" + identityID.String())
	if err != nil {
		return fmt.Errorf("identity service unreachable: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest && resp.StatusCode() != http.StatusNotFound {
		return fmt.Errorf("identity service sign-out failed with status %d", resp.StatusCode())
	}
	return nil
}

var _ identity.IdentityProvider = (*HTTPProvider)(nil)

func parseIdentityID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("identity service returned malformed identity id %q", raw)
	}
	return id, nil
}
