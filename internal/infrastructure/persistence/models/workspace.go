package models

import (
	"github.com/docvault/backend/internal/domain/workspace"
	"github.com/google/uuid"
)

// ProjectModel is the persistence model for projects
type ProjectModel struct {
	TenantAggregateModel
	Name   string `gorm:"size:200;not null"`
	Status string `gorm:"size:20;not null;default:'open'"`
}

// TableName specifies the table name for ProjectModel
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts ProjectModel to domain Project
func (m *ProjectModel) ToDomain() *workspace.Project {
	project := &workspace.Project{
		Name:   m.Name,
		Status: workspace.ProjectStatus(m.Status),
	}
	m.PopulateTenantAggregateRoot(&project.TenantAggregateRoot)
	return project
}

// ProjectModelFromDomain converts domain Project to ProjectModel
func ProjectModelFromDomain(p *workspace.Project) *ProjectModel {
	model := &ProjectModel{
		Name:   p.Name,
		Status: string(p.Status),
	}
	model.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return model
}

// DocumentModel is the persistence model for document metadata. The
// migration adds a composite index on tenant_id and project_id for the
// per-project listing.
type DocumentModel struct {
	TenantAggregateModel
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"size:255;not null"`
	SizeBytes int64     `gorm:"not null"`
	Status    string    `gorm:"size:20;not null;default:'uploaded'"`
}

// TableName specifies the table name for DocumentModel
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts DocumentModel to domain Document
func (m *DocumentModel) ToDomain() *workspace.Document {
	document := &workspace.Document{
		ProjectID: m.ProjectID,
		Name:      m.Name,
		SizeBytes: m.SizeBytes,
		Status:    workspace.DocumentStatus(m.Status),
	}
	m.PopulateTenantAggregateRoot(&document.TenantAggregateRoot)
	return document
}

// DocumentModelFromDomain converts domain Document to DocumentModel
func DocumentModelFromDomain(d *workspace.Document) *DocumentModel {
	model := &DocumentModel{
		ProjectID: d.ProjectID,
		Name:      d.Name,
		SizeBytes: d.SizeBytes,
		Status:    string(d.Status),
	}
	model.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	return model
}
