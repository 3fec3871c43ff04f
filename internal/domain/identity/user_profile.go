package identity

import (
	"regexp"
	"strings"

	"github.com/docvault/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role represents the role of a user profile
type Role string

const (
	RoleClient     Role = "Client"
	RoleClientDemo Role = "ClientDemo"
	RoleAdmin      Role = "Admin"
)

// IsClientFacing reports whether the role may use client-facing endpoints.
func (r Role) IsClientFacing() bool {
	return r == RoleClient || r == RoleClientDemo
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserProfile is the tenant-side record of an authentication identity.
// Its ID equals the external identity id (1:1 by construction). The role is
// always RoleClient at creation; it is never derived from request input.
type UserProfile struct {
	shared.TenantAggregateRoot
	ContactName string
	Email       string
	Role        Role
	Active      bool
}

// NewUserProfile creates a new client profile bound to an identity id.
// There is deliberately no role parameter.
func NewUserProfile(identityID, tenantID uuid.UUID, email, contactName string) (*UserProfile, error) {
	if identityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_IDENTITY", "Identity id cannot be empty")
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if len(contactName) > 200 {
		return nil, shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 200 characters")
	}

	profile := &UserProfile{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ContactName:         strings.TrimSpace(contactName),
		Email:               strings.ToLower(strings.TrimSpace(email)),
		Role:                RoleClient,
		Active:              true,
	}
	profile.ID = identityID

	profile.AddDomainEvent(NewUserProfileCreatedEvent(profile))

	return profile, nil
}

// Deactivate marks the profile inactive
func (p *UserProfile) Deactivate() error {
	if !p.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Profile is already inactive")
	}
	p.Active = false
	p.Touch()
	p.IncrementVersion()
	return nil
}

// ValidateEmail validates an email address format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return nil
}
