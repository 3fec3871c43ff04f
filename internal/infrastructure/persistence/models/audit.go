package models

import (
	"github.com/docvault/backend/internal/domain/audit"
	"github.com/google/uuid"
)

// AuditEventModel is the persistence model for audit events. Rows are
// append-only and queried newest first per tenant; the migration adds a
// composite index on tenant_id and created_at for that.
type AuditEventModel struct {
	BaseModel
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ActorID    uuid.UUID  `gorm:"type:uuid;not null"`
	Action     string     `gorm:"size:100;not null"`
	EntityType string     `gorm:"size:50"`
	EntityID   *uuid.UUID `gorm:"type:uuid"`
	Detail     string     `gorm:"size:1000"`
}

// TableName specifies the table name for AuditEventModel
func (AuditEventModel) TableName() string {
	return "audit_events"
}

// ToDomain converts AuditEventModel to domain AuditEvent
func (m *AuditEventModel) ToDomain() *audit.AuditEvent {
	return &audit.AuditEvent{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		ActorID:    m.ActorID,
		Action:     m.Action,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Detail:     m.Detail,
	}
}

// AuditEventModelFromDomain converts domain AuditEvent to AuditEventModel
func AuditEventModelFromDomain(e *audit.AuditEvent) *AuditEventModel {
	model := &AuditEventModel{
		TenantID:   e.TenantID,
		ActorID:    e.ActorID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Detail:     e.Detail,
	}
	model.FromDomainBaseEntity(e.BaseEntity)
	return model
}
