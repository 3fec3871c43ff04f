package workspace

import (
	"context"

	"github.com/google/uuid"
)

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	// FindByID finds a project by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)

	// FindByTenant finds the projects belonging to a tenant
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]Project, error)

	// Save creates or updates a project
	Save(ctx context.Context, project *Project) error
}

// DocumentRepository defines the interface for document metadata persistence
type DocumentRepository interface {
	// FindByTenant finds the documents belonging to a tenant
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]Document, error)

	// FindByProject finds the documents of one project within a tenant
	FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]Document, error)

	// Save creates or updates a document row
	Save(ctx context.Context, document *Document) error
}
