package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/docvault/backend/internal/domain/billing"
	"github.com/docvault/backend/internal/domain/identity"
	"github.com/docvault/backend/internal/infrastructure/persistence/models"
)

// GormTenantMetricsProvider feeds tenant population gauges from the database.
// Counts aggregate across all tenants; the periodic collector runs with a
// background context, so the automatic tenant filter stays inactive.
type GormTenantMetricsProvider struct {
	db *gorm.DB
}

// NewGormTenantMetricsProvider creates a new metrics provider
func NewGormTenantMetricsProvider(db *gorm.DB) *GormTenantMetricsProvider {
	return &GormTenantMetricsProvider{db: db}
}

// CountActiveTenants returns the number of tenants in active status
func (p *GormTenantMetricsProvider) CountActiveTenants(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Model(&models.TenantModel{}).
		Where("status = ?", string(identity.TenantStatusActive)).
		Count(&count).Error
	return count, err
}

// CountTrialSubscriptions returns the number of subscriptions still in trial
func (p *GormTenantMetricsProvider) CountTrialSubscriptions(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Model(&models.SubscriptionModel{}).
		Where("status = ?", string(billing.SubscriptionStatusTrial)).
		Count(&count).Error
	return count, err
}
