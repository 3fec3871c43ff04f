package billing

import (
	"context"

	"github.com/google/uuid"
)

// ClientRecordRepository defines the interface for client record persistence
type ClientRecordRepository interface {
	// FindByUserID finds the record keyed to an identity id
	FindByUserID(ctx context.Context, userID uuid.UUID) (*ClientRecord, error)

	// Save creates or updates a client record
	Save(ctx context.Context, record *ClientRecord) error

	// Delete deletes a client record. Used only by saga compensation.
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubscriptionRepository defines the interface for subscription persistence
type SubscriptionRepository interface {
	// FindByTenant finds a tenant's subscription
	FindByTenant(ctx context.Context, tenantID uuid.UUID) (*Subscription, error)

	// Save creates or updates a subscription
	Save(ctx context.Context, subscription *Subscription) error

	// Delete deletes a subscription. Used only by saga compensation.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReceiptRepository defines the interface for receipt persistence.
// Receipts are append-only: there is no update or delete, only creation.
type ReceiptRepository interface {
	// FindByTenant finds a tenant's receipts, newest first
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]Receipt, error)

	// Create appends a new receipt
	Create(ctx context.Context, receipt *Receipt) error
}
