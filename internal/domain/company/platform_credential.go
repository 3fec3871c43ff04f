package company

import (
	"strings"
	"time"

	"github.com/docvault/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PlatformType identifies a CAE platform a tenant submits documents to
type PlatformType string

const (
	PlatformTypeECLM    PlatformType = "eclm"
	PlatformTypeGestdoc PlatformType = "gestdoc"
	PlatformTypeOther   PlatformType = "other"
)

// PlatformCredential is a third-party CAE platform login pair stored per
// tenant. Each write is mirrored into a legacy-shaped row (LegacyCredential)
// because the older integration path still reads the old table.
type PlatformCredential struct {
	shared.TenantAggregateRoot
	PlatformType PlatformType
	Username     string
	Password     string
	Active       bool
}

// NewPlatformCredential creates a new credential scoped to a tenant
func NewPlatformCredential(tenantID uuid.UUID, platformType PlatformType, username, password string) (*PlatformCredential, error) {
	if platformType == "" {
		platformType = PlatformTypeOther
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, shared.NewDomainError("INVALID_CREDENTIAL", "Credential username cannot be empty")
	}
	if password == "" {
		return nil, shared.NewDomainError("INVALID_CREDENTIAL", "Credential password cannot be empty")
	}

	return &PlatformCredential{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PlatformType:        platformType,
		Username:            username,
		Password:            password,
		Active:              true,
	}, nil
}

// Deactivate marks the credential unusable without deleting it
func (c *PlatformCredential) Deactivate() {
	c.Active = false
	c.Touch()
	c.IncrementVersion()
}

// ToLegacy builds the legacy-shaped mirror row for the old integration path
func (c *PlatformCredential) ToLegacy() *LegacyCredential {
	return &LegacyCredential{
		ID:           c.ID,
		TenantID:     c.TenantID,
		Platform:     string(c.PlatformType),
		Login:        c.Username,
		Secret:       c.Password,
		Enabled:      c.Active,
		RegisteredAt: c.CreatedAt,
	}
}

// LegacyCredential mirrors PlatformCredential into the shape the pre-rewrite
// integration expects. It shares the credential's id so the two stay paired.
type LegacyCredential struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Platform     string
	Login        string
	Secret       string
	Enabled      bool
	RegisteredAt time.Time
}
