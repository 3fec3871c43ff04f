package billing

import (
	"time"

	"github.com/docvault/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SubscriptionStatus represents the state of a subscription.
// Transitions: trial -> active (checkout completion) or trial -> cancelled;
// active -> cancelled. No other transition is legal.
type SubscriptionStatus string

const (
	SubscriptionStatusTrial     SubscriptionStatus = "trial"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// TrialDays is the fixed trial period granted at registration
const TrialDays = 30

// Subscription tracks a tenant's billing state
type Subscription struct {
	shared.TenantAggregateRoot
	Status      SubscriptionStatus
	TrialEndsAt time.Time
	ActivatedAt *time.Time
	CancelledAt *time.Time
}

// NewTrialSubscription creates a trial subscription for a new tenant
func NewTrialSubscription(tenantID uuid.UUID) *Subscription {
	return &Subscription{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              SubscriptionStatusTrial,
		TrialEndsAt:         time.Now().AddDate(0, 0, TrialDays),
	}
}

// Activate transitions trial -> active. Called only from the checkout
// completion flow; there is no HTTP surface for it in this subsystem.
func (s *Subscription) Activate() error {
	if s.Status != SubscriptionStatusTrial {
		return shared.NewDomainError("INVALID_STATE", "Only a trial subscription can be activated")
	}
	now := time.Now()
	s.Status = SubscriptionStatusActive
	s.ActivatedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()
	return nil
}

// Cancel transitions trial or active -> cancelled
func (s *Subscription) Cancel() error {
	if s.Status == SubscriptionStatusCancelled {
		return shared.NewDomainError("ALREADY_CANCELLED", "Subscription is already cancelled")
	}
	now := time.Now()
	s.Status = SubscriptionStatusCancelled
	s.CancelledAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()
	return nil
}

// IsTrial returns true while the subscription is in its trial state
func (s *Subscription) IsTrial() bool {
	return s.Status == SubscriptionStatusTrial
}

// IsTrialExpired returns true if the trial window has passed
func (s *Subscription) IsTrialExpired() bool {
	return s.Status == SubscriptionStatusTrial && time.Now().After(s.TrialEndsAt)
}
