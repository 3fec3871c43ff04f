package billing

import (
	"github.com/docvault/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptStatus represents the payment status of a receipt
type ReceiptStatus string

const (
	ReceiptStatusPending ReceiptStatus = "pending"
	ReceiptStatusPaid    ReceiptStatus = "paid"
	ReceiptStatusVoid    ReceiptStatus = "void"
)

// Receipt is an append-only billing row. Registration creates one zero-amount
// pending stub; later receipts come from billing flows outside this
// subsystem. Receipts are never updated in place here.
type Receipt struct {
	shared.TenantAggregateRoot
	Amount  decimal.Decimal
	Status  ReceiptStatus
	Concept string
}

// NewRegistrationStub creates the zero-amount receipt written at onboarding
func NewRegistrationStub(tenantID uuid.UUID) *Receipt {
	return &Receipt{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Amount:              decimal.Zero,
		Status:              ReceiptStatusPending,
		Concept:             "Account registration",
	}
}

// IsStub reports whether this is the zero-amount registration row
func (r *Receipt) IsStub() bool {
	return r.Amount.IsZero() && r.Concept == "Account registration"
}
