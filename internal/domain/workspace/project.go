package workspace

import (
	"strings"

	"github.com/docvault/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProjectStatus represents the lifecycle state of a project
type ProjectStatus string

const (
	ProjectStatusOpen     ProjectStatus = "open"
	ProjectStatusArchived ProjectStatus = "archived"
)

// Project groups a tenant's documents for one engagement or site
type Project struct {
	shared.TenantAggregateRoot
	Name   string
	Status ProjectStatus
}

// NewProject creates a new open project scoped to a tenant
func NewProject(tenantID uuid.UUID, name string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PROJECT_NAME", "Project name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_PROJECT_NAME", "Project name cannot exceed 200 characters")
	}

	return &Project{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Status:              ProjectStatusOpen,
	}, nil
}

// Rename changes the project name
func (p *Project) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_PROJECT_NAME", "Project name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_PROJECT_NAME", "Project name cannot exceed 200 characters")
	}

	p.Name = name
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Archive closes the project
func (p *Project) Archive() error {
	if p.Status == ProjectStatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Project is already archived")
	}
	p.Status = ProjectStatusArchived
	p.Touch()
	p.IncrementVersion()
	return nil
}
