package audit

import (
	"strings"

	"github.com/docvault/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SystemActorID is the well-known actor recorded when the real actor cannot
// be resolved to a valid identity (e.g., events emitted before the identity
// step of registration has completed).
var SystemActorID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// Action names for events emitted by this subsystem
const (
	ActionTenantRegistered     = "tenant.registered"
	ActionRegistrationReverted = "tenant.registration_reverted"
	ActionProjectRenamed       = "project.renamed"
)

// AuditEvent is an append-only record of a business action. Events are
// immutable once written and always carry a tenant id and an actor id.
type AuditEvent struct {
	shared.BaseEntity
	TenantID   uuid.UUID
	ActorID    uuid.UUID
	Action     string
	EntityType string
	EntityID   *uuid.UUID
	Detail     string
}

// NewAuditEvent creates a new audit event. The actor is taken verbatim when
// it is a well-formed non-nil UUID and replaced by SystemActorID otherwise.
func NewAuditEvent(tenantID uuid.UUID, actor string, action string) (*AuditEvent, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Audit events require a tenant id")
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return nil, shared.NewDomainError("INVALID_ACTION", "Audit action cannot be empty")
	}

	actorID := SystemActorID
	if parsed, err := uuid.Parse(actor); err == nil && parsed != uuid.Nil {
		actorID = parsed
	}

	return &AuditEvent{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		ActorID:    actorID,
		Action:     action,
	}, nil
}

// WithEntity attaches the acted-upon entity reference
func (e *AuditEvent) WithEntity(entityType string, entityID uuid.UUID) *AuditEvent {
	e.EntityType = entityType
	e.EntityID = &entityID
	return e
}

// WithDetail attaches free-form detail text
func (e *AuditEvent) WithDetail(detail string) *AuditEvent {
	e.Detail = detail
	return e
}
