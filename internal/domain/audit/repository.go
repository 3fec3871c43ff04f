package audit

import (
	"context"

	"github.com/google/uuid"
)

// Recorder is the append-only sink for audit events. There is deliberately
// no update or delete operation.
type Recorder interface {
	// Record appends an audit event
	Record(ctx context.Context, event *AuditEvent) error

	// FindByTenant returns a tenant's events, newest first
	FindByTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]AuditEvent, error)
}
