package persistence

import (
	"context"

	"github.com/docvault/backend/internal/domain/audit"
	"github.com/docvault/backend/internal/infrastructure/persistence/models"
	"github.com/docvault/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultAuditLimit = 100

// GormAuditRecorder implements audit.Recorder using GORM
type GormAuditRecorder struct {
	db *gorm.DB
}

// NewGormAuditRecorder creates a new GormAuditRecorder
func NewGormAuditRecorder(db *gorm.DB) *GormAuditRecorder {
	return &GormAuditRecorder{db: db}
}

var _ audit.Recorder = (*GormAuditRecorder)(nil)

// Record appends an audit event
func (r *GormAuditRecorder) Record(ctx context.Context, event *audit.AuditEvent) error {
	model := models.AuditEventModelFromDomain(event)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByTenant returns a tenant's events, newest first
func (r *GormAuditRecorder) FindByTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]audit.AuditEvent, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	var eventModels []models.AuditEventModel
	err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&eventModels).Error
	if err != nil {
		return nil, err
	}

	events := make([]audit.AuditEvent, len(eventModels))
	for i, model := range eventModels {
		events[i] = *model.ToDomain()
	}
	return events, nil
}
