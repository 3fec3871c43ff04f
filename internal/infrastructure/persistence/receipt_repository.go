package persistence

import (
	"context"

	"github.com/docvault/backend/internal/domain/billing"
	"github.com/docvault/backend/internal/infrastructure/persistence/models"
	"github.com/docvault/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReceiptRepository implements ReceiptRepository using GORM. Receipts
// are append-only, so the repository exposes no update or delete.
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

var _ billing.ReceiptRepository = (*GormReceiptRepository)(nil)

// FindByTenant finds a tenant's receipts, newest first
func (r *GormReceiptRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]billing.Receipt, error) {
	var receiptModels []models.ReceiptModel
	err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Order("created_at DESC").
		Find(&receiptModels).Error
	if err != nil {
		return nil, err
	}

	receipts := make([]billing.Receipt, len(receiptModels))
	for i, model := range receiptModels {
		receipts[i] = *model.ToDomain()
	}
	return receipts, nil
}

// Create appends a new receipt
func (r *GormReceiptRepository) Create(ctx context.Context, receipt *billing.Receipt) error {
	model := models.ReceiptModelFromDomain(receipt)
	return r.db.WithContext(ctx).Create(model).Error
}
