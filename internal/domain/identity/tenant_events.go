package identity

import (
	"github.com/docvault/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeTenant      = "Tenant"
	AggregateTypeUserProfile = "UserProfile"
)

// Event type constants
const (
	EventTypeTenantCreated       = "TenantCreated"
	EventTypeTenantStatusChanged = "TenantStatusChanged"
	EventTypeUserProfileCreated  = "UserProfileCreated"
)

// TenantCreatedEvent is published when a new tenant is created
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	Name   string       `json:"name"`
	Status TenantStatus `json:"status"`
}

// NewTenantCreatedEvent creates a new TenantCreatedEvent
func NewTenantCreatedEvent(tenant *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantCreated, AggregateTypeTenant, tenant.ID, tenant.ID),
		Name:            tenant.Name,
		Status:          tenant.Status,
	}
}

// TenantStatusChangedEvent is published when a tenant's status changes
type TenantStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus TenantStatus `json:"old_status"`
	NewStatus TenantStatus `json:"new_status"`
}

// NewTenantStatusChangedEvent creates a new TenantStatusChangedEvent
func NewTenantStatusChangedEvent(tenant *Tenant, oldStatus, newStatus TenantStatus) *TenantStatusChangedEvent {
	return &TenantStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantStatusChanged, AggregateTypeTenant, tenant.ID, tenant.ID),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// UserProfileCreatedEvent is published when a new user profile is created
type UserProfileCreatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// NewUserProfileCreatedEvent creates a new UserProfileCreatedEvent
func NewUserProfileCreatedEvent(profile *UserProfile) *UserProfileCreatedEvent {
	return &UserProfileCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserProfileCreated, AggregateTypeUserProfile, profile.ID, profile.TenantID),
		Email:           profile.Email,
		Role:            profile.Role,
	}
}
