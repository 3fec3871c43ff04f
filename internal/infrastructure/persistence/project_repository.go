package persistence

import (
	"context"
	"errors"

	"github.com/docvault/backend/internal/domain/shared"
	"github.com/docvault/backend/internal/domain/workspace"
	"github.com/docvault/backend/internal/infrastructure/persistence/models"
	"github.com/docvault/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProjectRepository implements ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

var _ workspace.ProjectRepository = (*GormProjectRepository)(nil)

// FindByID finds a project by its ID. The caller is responsible for the
// tenant ownership check; not-found and wrong-tenant must stay
// indistinguishable to the client.
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*workspace.Project, error) {
	var model models.ProjectModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTenant finds the projects belonging to a tenant
func (r *GormProjectRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]workspace.Project, error) {
	var projectModels []models.ProjectModel
	err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Order("created_at ASC").
		Find(&projectModels).Error
	if err != nil {
		return nil, err
	}

	projects := make([]workspace.Project, len(projectModels))
	for i, model := range projectModels {
		projects[i] = *model.ToDomain()
	}
	return projects, nil
}

// Save creates or updates a project
func (r *GormProjectRepository) Save(ctx context.Context, project *workspace.Project) error {
	model := models.ProjectModelFromDomain(project)
	return r.db.WithContext(ctx).Save(model).Error
}
