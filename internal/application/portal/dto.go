package portal

import (
	"time"

	"github.com/docvault/backend/internal/domain/billing"
	"github.com/docvault/backend/internal/domain/company"
	"github.com/docvault/backend/internal/domain/workspace"
	"github.com/google/uuid"
)

// CompanyView is the portal projection of a company
type CompanyView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectView is the portal projection of a project
type ProjectView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentView is the portal projection of a document row
type DocumentView struct {
	ID         uuid.UUID `json:"id"`
	ProjectID  uuid.UUID `json:"project_id"`
	Name       string    `json:"name"`
	SizeBytes  int64     `json:"size_bytes"`
	Status     string    `json:"status"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// StatsView summarizes a tenant's usage, recomputed from the scoped
// collections on every read
type StatsView struct {
	CompanyCount     int   `json:"company_count"`
	ProjectCount     int   `json:"project_count"`
	DocumentCount    int   `json:"document_count"`
	StorageBytesUsed int64 `json:"storage_bytes_used"`
	StorageQuotaMB   int64 `json:"storage_quota_mb"`
	TokenBalance     string `json:"token_balance"`
}

// ClientDataContext is the assembled portal dashboard payload
type ClientDataContext struct {
	TenantID  uuid.UUID      `json:"tenant_id"`
	Companies []CompanyView  `json:"companies"`
	Projects  []ProjectView  `json:"projects"`
	Documents []DocumentView `json:"documents"`
	Stats     StatsView      `json:"stats"`
}

func toCompanyView(c company.Company) CompanyView {
	return CompanyView{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Address:   c.Address,
		City:      c.City,
		CreatedAt: c.CreatedAt,
	}
}

func toProjectView(p workspace.Project) ProjectView {
	return ProjectView{
		ID:        p.ID,
		Name:      p.Name,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toDocumentView(d workspace.Document) DocumentView {
	return DocumentView{
		ID:         d.ID,
		ProjectID:  d.ProjectID,
		Name:       d.Name,
		SizeBytes:  d.SizeBytes,
		Status:     string(d.Status),
		UploadedAt: d.CreatedAt,
	}
}

func applyRecord(stats *StatsView, record *billing.ClientRecord) {
	if record == nil {
		return
	}
	stats.StorageQuotaMB = record.StorageQuotaMB
	stats.TokenBalance = record.TokenBalance.StringFixed(2)
}
