package identity

import (
	"context"

	"github.com/google/uuid"
)

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	// FindByID finds a tenant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// FindByName finds a tenant by its display name (case-insensitive)
	FindByName(ctx context.Context, name string) (*Tenant, error)

	// Save creates or updates a tenant
	Save(ctx context.Context, tenant *Tenant) error

	// Delete deletes a tenant. Used only by saga compensation.
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserProfileRepository defines the interface for user profile persistence
type UserProfileRepository interface {
	// FindByID finds a profile by its identity id
	FindByID(ctx context.Context, id uuid.UUID) (*UserProfile, error)

	// FindByEmail finds a profile by email (case-insensitive)
	FindByEmail(ctx context.Context, email string) (*UserProfile, error)

	// ExistsByEmail checks whether a profile with the given email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save creates or updates a profile
	Save(ctx context.Context, profile *UserProfile) error

	// Delete deletes a profile. Used only by saga compensation.
	Delete(ctx context.Context, id uuid.UUID) error
}
