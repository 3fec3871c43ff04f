package models

import (
	"time"

	"github.com/docvault/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientRecordModel is the persistence model for billing client records.
// The unique index on user_id enforces the 1:1 pairing with an identity.
type ClientRecordModel struct {
	TenantAggregateModel
	UserID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	CompanyName    string          `gorm:"size:200;not null"`
	StorageQuotaMB int64           `gorm:"column:storage_quota_mb;not null"`
	TokenBalance   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName specifies the table name for ClientRecordModel
func (ClientRecordModel) TableName() string {
	return "client_records"
}

// ToDomain converts ClientRecordModel to domain ClientRecord
func (m *ClientRecordModel) ToDomain() *billing.ClientRecord {
	record := &billing.ClientRecord{
		UserID:         m.UserID,
		CompanyName:    m.CompanyName,
		StorageQuotaMB: m.StorageQuotaMB,
		TokenBalance:   m.TokenBalance,
	}
	m.PopulateTenantAggregateRoot(&record.TenantAggregateRoot)
	return record
}

// ClientRecordModelFromDomain converts domain ClientRecord to ClientRecordModel
func ClientRecordModelFromDomain(r *billing.ClientRecord) *ClientRecordModel {
	model := &ClientRecordModel{
		UserID:         r.UserID,
		CompanyName:    r.CompanyName,
		StorageQuotaMB: r.StorageQuotaMB,
		TokenBalance:   r.TokenBalance,
	}
	model.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	return model
}

// SubscriptionModel is the persistence model for subscriptions. One row per
// tenant, enforced by the unique index on tenant_id.
type SubscriptionModel struct {
	AggregateModel
	TenantID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Status      string     `gorm:"size:20;not null"`
	TrialEndsAt time.Time  `gorm:"not null"`
	ActivatedAt *time.Time `gorm:""`
	CancelledAt *time.Time `gorm:""`
}

// TableName specifies the table name for SubscriptionModel
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// ToDomain converts SubscriptionModel to domain Subscription
func (m *SubscriptionModel) ToDomain() *billing.Subscription {
	sub := &billing.Subscription{
		Status:      billing.SubscriptionStatus(m.Status),
		TrialEndsAt: m.TrialEndsAt,
		ActivatedAt: m.ActivatedAt,
		CancelledAt: m.CancelledAt,
	}
	m.PopulateAggregateRoot(&sub.BaseAggregateRoot)
	sub.TenantID = m.TenantID
	return sub
}

// SubscriptionModelFromDomain converts domain Subscription to SubscriptionModel
func SubscriptionModelFromDomain(s *billing.Subscription) *SubscriptionModel {
	model := &SubscriptionModel{
		TenantID:    s.TenantID,
		Status:      string(s.Status),
		TrialEndsAt: s.TrialEndsAt,
		ActivatedAt: s.ActivatedAt,
		CancelledAt: s.CancelledAt,
	}
	model.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return model
}

// ReceiptModel is the persistence model for receipts. Rows are append-only;
// there is no version column because receipts are never updated.
type ReceiptModel struct {
	BaseModel
	TenantID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status   string          `gorm:"size:20;not null"`
	Concept  string          `gorm:"size:200"`
}

// TableName specifies the table name for ReceiptModel
func (ReceiptModel) TableName() string {
	return "receipts"
}

// ToDomain converts ReceiptModel to domain Receipt
func (m *ReceiptModel) ToDomain() *billing.Receipt {
	receipt := &billing.Receipt{
		Amount:  m.Amount,
		Status:  billing.ReceiptStatus(m.Status),
		Concept: m.Concept,
	}
	receipt.BaseEntity = m.BaseModel.ToDomain()
	receipt.Version = 1
	receipt.TenantID = m.TenantID
	return receipt
}

// ReceiptModelFromDomain converts domain Receipt to ReceiptModel
func ReceiptModelFromDomain(r *billing.Receipt) *ReceiptModel {
	model := &ReceiptModel{
		TenantID: r.TenantID,
		Amount:   r.Amount,
		Status:   string(r.Status),
		Concept:  r.Concept,
	}
	model.FromDomainBaseEntity(r.BaseEntity)
	return model
}
