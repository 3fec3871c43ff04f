package company

import (
	"context"

	"github.com/google/uuid"
)

// CompanyRepository defines the interface for company persistence.
// Existence checks are case-insensitive because the global uniqueness
// invariant for name and tax id ignores case.
type CompanyRepository interface {
	// FindByID finds a company by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)

	// FindByTenant finds the companies belonging to a tenant
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]Company, error)

	// ExistsByName checks globally (across all tenants) for a company name
	ExistsByName(ctx context.Context, name string) (bool, error)

	// ExistsByTaxID checks globally (across all tenants) for a tax id
	ExistsByTaxID(ctx context.Context, taxID string) (bool, error)

	// Save creates or updates a company
	Save(ctx context.Context, company *Company) error

	// Delete deletes a company. Used only by saga compensation.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CredentialRepository defines the interface for platform credential
// persistence. Save must write the primary row and its legacy mirror
// together; Delete must remove both.
type CredentialRepository interface {
	// FindByTenant finds the credentials belonging to a tenant
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]PlatformCredential, error)

	// Save persists a credential and its legacy mirror
	Save(ctx context.Context, credential *PlatformCredential) error

	// Delete deletes a credential and its legacy mirror
	Delete(ctx context.Context, id uuid.UUID) error
}
