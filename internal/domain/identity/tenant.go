package identity

import (
	"strings"

	"github.com/docvault/backend/internal/domain/shared"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended" // Suspended due to payment/violation issues
)

// Tenant is the isolation boundary of the system. Every business record
// except the tenant itself carries this aggregate's id. A tenant is created
// exactly once per registration and mutated only through status changes;
// deletion happens only as registration-saga compensation.
type Tenant struct {
	shared.BaseAggregateRoot
	Name   string
	Status TenantStatus
}

// NewTenant creates a new active tenant
func NewTenant(name string) (*Tenant, error) {
	if err := validateTenantName(name); err != nil {
		return nil, err
	}

	t := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Status:            TenantStatusActive,
	}
	t.AddDomainEvent(NewTenantCreatedEvent(t))
	return t, nil
}

// Suspend suspends the tenant (e.g., after a failed payment)
func (t *Tenant) Suspend() error {
	if t.Status == TenantStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Tenant is already suspended")
	}
	t.transition(TenantStatusSuspended)
	return nil
}

// Activate re-activates a suspended tenant
func (t *Tenant) Activate() error {
	if t.Status == TenantStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Tenant is already active")
	}
	t.transition(TenantStatusActive)
	return nil
}

func (t *Tenant) transition(to TenantStatus) {
	from := t.Status
	t.Status = to
	t.Touch()
	t.IncrementVersion()
	t.AddDomainEvent(NewTenantStatusChangedEvent(t, from, to))
}

// IsActive returns true if the tenant is active
func (t *Tenant) IsActive() bool { return t.Status == TenantStatusActive }

// IsSuspended returns true if the tenant is suspended
func (t *Tenant) IsSuspended() bool { return t.Status == TenantStatusSuspended }

func validateTenantName(name string) error {
	switch trimmed := strings.TrimSpace(name); {
	case trimmed == "":
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	case len(trimmed) > 200:
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot exceed 200 characters")
	}
	return nil
}
