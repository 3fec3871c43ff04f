package workspace

import (
	"strings"

	"github.com/docvault/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentStatus represents the review state of a document
type DocumentStatus string

const (
	DocumentStatusUploaded DocumentStatus = "uploaded"
	DocumentStatusApproved DocumentStatus = "approved"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// Document is the metadata row for an uploaded file. The file contents live
// in object storage managed by the upload pipeline; this subsystem only
// reads these rows for dashboards and quota stats.
type Document struct {
	shared.TenantAggregateRoot
	ProjectID uuid.UUID
	Name      string
	SizeBytes int64
	Status    DocumentStatus
}

// NewDocument creates a new document row scoped to a tenant and project
func NewDocument(tenantID, projectID uuid.UUID, name string, sizeBytes int64) (*Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NAME", "Document name cannot be empty")
	}
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project id cannot be empty")
	}
	if sizeBytes < 0 {
		return nil, shared.NewDomainError("INVALID_SIZE", "Document size cannot be negative")
	}

	return &Document{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		Name:                name,
		SizeBytes:           sizeBytes,
		Status:              DocumentStatusUploaded,
	}, nil
}
