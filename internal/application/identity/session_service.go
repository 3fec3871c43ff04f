package identity

import (
	"context"
	"strings"
	"time"

	"github.com/docvault/backend/internal/domain/billing"
	"github.com/docvault/backend/internal/domain/identity"
	"github.com/docvault/backend/internal/domain/shared"
	"github.com/docvault/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionService authenticates portal users and resolves request sessions.
// The portal is strictly client-facing: identities whose profile carries a
// back-office role are denied here even with valid credentials.
type SessionService struct {
	provider      identity.IdentityProvider
	profiles      identity.UserProfileRepository
	tenants       identity.TenantRepository
	clientRecords billing.ClientRecordRepository
	jwtService    *auth.JWTService
	blacklist     auth.TokenBlacklist
	logger        *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(
	provider identity.IdentityProvider,
	profiles identity.UserProfileRepository,
	tenants identity.TenantRepository,
	clientRecords billing.ClientRecordRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		provider:      provider,
		profiles:      profiles,
		tenants:       tenants,
		clientRecords: clientRecords,
		jwtService:    jwtService,
		blacklist:     blacklist,
		logger:        logger,
	}
}

// Login authenticates against the identity provider and issues tokens
func (s *SessionService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	identityID, err := s.provider.SignIn(ctx, email, in.Password)
	if err != nil {
		s.logger.Warn("sign-in rejected by identity provider",
			zap.String("email", email),
			zap.String("ip", in.IP))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	view, profile, err := s.resolveProfile(ctx, identityID, uuid.Nil)
	if err != nil {
		return nil, err
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID:   profile.TenantID,
		IdentityID: identityID,
		Email:      profile.Email,
		Role:       string(profile.Role),
	})
	if err != nil {
		s.logger.Error("failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	s.logger.Info("portal login",
		zap.String("identity_id", identityID.String()),
		zap.String("tenant_id", profile.TenantID.String()))

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		Session:               *view,
	}, nil
}

// Resolve turns validated token claims into a session view, re-checking the
// profile and tenant on every call so deactivation takes effect before the
// token expires.
func (s *SessionService) Resolve(ctx context.Context, claims *auth.Claims) (*SessionView, error) {
	identityID, err := claims.GetIdentityUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	view, _, err := s.resolveProfile(ctx, identityID, tenantID)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Refresh exchanges a refresh token for a fresh pair
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if err := s.checkRevocation(ctx, claims); err != nil {
		return nil, err
	}

	return s.jwtService.RefreshTokenPair(refreshToken)
}

// Logout revokes the presented token and ends the provider-side session
func (s *SessionService) Logout(ctx context.Context, claims *auth.Claims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 0 {
		ttl = 0
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("failed to blacklist token on logout", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to end session")
	}

	if identityID, err := claims.GetIdentityUUID(); err == nil {
		if err := s.provider.SignOut(ctx, identityID); err != nil {
			s.logger.Warn("provider sign-out failed, token already revoked locally",
				zap.String("identity_id", identityID.String()),
				zap.Error(err))
		}
	}

	return nil
}

// CheckRevoked reports whether the presented token has been revoked
func (s *SessionService) CheckRevoked(ctx context.Context, claims *auth.Claims) error {
	return s.checkRevocation(ctx, claims)
}

func (s *SessionService) checkRevocation(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Error("token blacklist check failed", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to verify session")
	}
	if revoked {
		return auth.ErrTokenBlacklisted
	}

	invalidated, err := s.blacklist.IsIdentityTokenInvalidated(ctx, claims.IdentityID, claims.IssuedAt.Time)
	if err != nil {
		s.logger.Error("identity invalidation check failed", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to verify session")
	}
	if invalidated {
		return auth.ErrTokenBlacklisted
	}
	return nil
}

// resolveProfile loads and gates the profile. When expectedTenant is not
// nil it must match the profile's tenant; a mismatch means the claims no
// longer reflect reality and access is denied.
func (s *SessionService) resolveProfile(ctx context.Context, identityID, expectedTenant uuid.UUID) (*SessionView, *identity.UserProfile, error) {
	profile, err := s.profiles.FindByID(ctx, identityID)
	if err != nil {
		s.logger.Warn("no portal profile for identity",
			zap.String("identity_id", identityID.String()))
		return nil, nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !profile.Active {
		return nil, nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}
	if !profile.Role.IsClientFacing() {
		s.logger.Warn("non-client role denied portal access",
			zap.String("identity_id", identityID.String()),
			zap.String("role", string(profile.Role)))
		return nil, nil, shared.ErrAccessDenied
	}
	if expectedTenant != uuid.Nil && profile.TenantID != expectedTenant {
		return nil, nil, shared.ErrAccessDenied
	}

	tenant, err := s.tenants.FindByID(ctx, profile.TenantID)
	if err != nil {
		s.logger.Error("profile references missing tenant",
			zap.String("identity_id", identityID.String()),
			zap.String("tenant_id", profile.TenantID.String()))
		return nil, nil, shared.ErrUnauthorized
	}
	if tenant.Status == identity.TenantStatusSuspended {
		return nil, nil, shared.ErrTenantSuspended
	}

	view := &SessionView{
		IdentityID:  identityID,
		TenantID:    profile.TenantID,
		Email:       profile.Email,
		ContactName: profile.ContactName,
		Role:        string(profile.Role),
		CompanyName: s.companyName(ctx, identityID),
	}
	return view, profile, nil
}

// companyName reads the denormalized billing record, empty on failure
func (s *SessionService) companyName(ctx context.Context, identityID uuid.UUID) string {
	record, err := s.clientRecords.FindByUserID(ctx, identityID)
	if err != nil {
		return ""
	}
	return record.CompanyName
}
