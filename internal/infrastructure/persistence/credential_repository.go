package persistence

import (
	"context"

	"github.com/docvault/backend/internal/domain/company"
	"github.com/docvault/backend/internal/infrastructure/persistence/models"
	"github.com/docvault/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCredentialRepository implements CredentialRepository using GORM.
// Every write touches two tables: the primary platform_credentials row and
// its mirror in cae_accounts, which the pre-rewrite integration still reads.
// The two are written in one transaction so they cannot drift.
type GormCredentialRepository struct {
	db *gorm.DB
}

// NewGormCredentialRepository creates a new GormCredentialRepository
func NewGormCredentialRepository(db *gorm.DB) *GormCredentialRepository {
	return &GormCredentialRepository{db: db}
}

var _ company.CredentialRepository = (*GormCredentialRepository)(nil)

// FindByTenant finds the credentials belonging to a tenant
func (r *GormCredentialRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]company.PlatformCredential, error) {
	var credentialModels []models.PlatformCredentialModel
	err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Order("created_at ASC").
		Find(&credentialModels).Error
	if err != nil {
		return nil, err
	}

	credentials := make([]company.PlatformCredential, len(credentialModels))
	for i, model := range credentialModels {
		credentials[i] = *model.ToDomain()
	}
	return credentials, nil
}

// Save persists a credential and its legacy mirror atomically
func (r *GormCredentialRepository) Save(ctx context.Context, credential *company.PlatformCredential) error {
	model := models.PlatformCredentialModelFromDomain(credential)
	legacy := models.LegacyCredentialModelFromDomain(credential.ToLegacy())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		return tx.Save(legacy).Error
	})
}

// Delete deletes a credential and its legacy mirror atomically
func (r *GormCredentialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PlatformCredentialModel{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.LegacyCredentialModel{}, "id = ?", id).Error
	})
}
