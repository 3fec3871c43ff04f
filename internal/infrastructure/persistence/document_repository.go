package persistence

import (
	"context"

	"github.com/docvault/backend/internal/domain/workspace"
	"github.com/docvault/backend/internal/infrastructure/persistence/models"
	"github.com/docvault/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDocumentRepository implements DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

var _ workspace.DocumentRepository = (*GormDocumentRepository)(nil)

// FindByTenant finds the documents belonging to a tenant
func (r *GormDocumentRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]workspace.Document, error) {
	var documentModels []models.DocumentModel
	err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Order("created_at ASC").
		Find(&documentModels).Error
	if err != nil {
		return nil, err
	}

	documents := make([]workspace.Document, len(documentModels))
	for i, model := range documentModels {
		documents[i] = *model.ToDomain()
	}
	return documents, nil
}

// FindByProject finds the documents of one project within a tenant. Both
// conditions are applied so a foreign project id yields an empty result
// rather than leaking rows.
func (r *GormDocumentRepository) FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]workspace.Document, error) {
	var documentModels []models.DocumentModel
	err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&documentModels).Error
	if err != nil {
		return nil, err
	}

	documents := make([]workspace.Document, len(documentModels))
	for i, model := range documentModels {
		documents[i] = *model.ToDomain()
	}
	return documents, nil
}

// Save creates or updates a document row
func (r *GormDocumentRepository) Save(ctx context.Context, document *workspace.Document) error {
	model := models.DocumentModelFromDomain(document)
	return r.db.WithContext(ctx).Save(model).Error
}
