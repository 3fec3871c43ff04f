package billing

import (
	"strings"

	"github.com/docvault/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientRecord is the billing-facing shadow of a tenant's identity and
// company: a read-optimized denormalization keyed 1:1 to the identity id.
// Billing flows read it without joining tenants and companies.
type ClientRecord struct {
	shared.TenantAggregateRoot
	UserID         uuid.UUID
	CompanyName    string
	StorageQuotaMB int64
	TokenBalance   decimal.Decimal
}

// NewClientRecord creates a billing record for a freshly provisioned tenant
func NewClientRecord(tenantID, userID uuid.UUID, companyName string, quota TrialQuota) (*ClientRecord, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User id cannot be empty")
	}
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}

	return &ClientRecord{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		CompanyName:         companyName,
		StorageQuotaMB:      quota.StorageMB,
		TokenBalance:        quota.TokenAllowance,
	}, nil
}

// DebitTokens consumes tokens from the balance
func (r *ClientRecord) DebitTokens(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Debit amount cannot be negative")
	}
	if r.TokenBalance.LessThan(amount) {
		return shared.NewDomainError("INSUFFICIENT_TOKENS", "Token balance is insufficient")
	}
	r.TokenBalance = r.TokenBalance.Sub(amount)
	r.Touch()
	r.IncrementVersion()
	return nil
}

// CreditTokens adds tokens to the balance
func (r *ClientRecord) CreditTokens(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit amount cannot be negative")
	}
	r.TokenBalance = r.TokenBalance.Add(amount)
	r.Touch()
	r.IncrementVersion()
	return nil
}
