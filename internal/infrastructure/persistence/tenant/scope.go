// Package tenant provides multi-tenant database scoping for GORM.
//
// Repositories apply TenantScope explicitly on every tenant-bound read; the
// callback in this package is a second guard that injects the tenant filter
// from the request context when a query against a tenant-scoped table
// carries no tenant condition of its own.
package tenant

import (
	"context"
	"errors"

	"github.com/docvault/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrTenantIDRequired marks an operation that needed a tenant but
	// found none in scope.
	ErrTenantIDRequired = errors.New("tenant_id is required but not found in context")
	// ErrInvalidTenantID marks a tenant id that is not a UUID.
	ErrInvalidTenantID = errors.New("invalid tenant_id format")
)

// TenantScope restricts a query to one tenant's rows.
func TenantScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return TenantScopeString(tenantID.String())
}

// TenantScopeString is TenantScope for an already-stringified id.
func TenantScopeString(tenantID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// TenantDB wraps a GORM handle so every query it hands out carries the
// tenant filter of the calling context. With required set, operations
// without a tenant fail instead of running unscoped.
type TenantDB struct {
	db       *gorm.DB
	required bool
}

func NewTenantDB(db *gorm.DB, required bool) *TenantDB {
	return &TenantDB{db: db, required: required}
}

// WithContext returns a handle filtered to the tenant recorded in ctx
// by the tenant middleware. A missing tenant yields either an unscoped
// handle or, when required, one that errors on any operation.
func (t *TenantDB) WithContext(ctx context.Context) *gorm.DB {
	db := t.db.WithContext(ctx)

	tenantID := logger.GetTenantID(ctx)
	if tenantID == "" {
		if t.required {
			_ = db.AddError(ErrTenantIDRequired)
		}
		return db
	}

	if _, err := uuid.Parse(tenantID); err != nil {
		_ = db.AddError(ErrInvalidTenantID)
		return db
	}

	return db.Scopes(TenantScopeString(tenantID))
}

// WithTenant returns a handle filtered to an explicit tenant id.
func (t *TenantDB) WithTenant(tenantID uuid.UUID) *gorm.DB {
	if tenantID == uuid.Nil {
		if t.required {
			db := t.db
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return t.db
	}
	return t.db.Scopes(TenantScope(tenantID))
}

// Transaction runs fn inside a transaction whose handle carries the
// context's tenant filter.
func (t *TenantDB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tenantID := logger.GetTenantID(ctx)
	if tenantID == "" && t.required {
		return ErrTenantIDRequired
	}

	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tenantID != "" {
			tx = tx.Scopes(TenantScopeString(tenantID))
		}
		return fn(tx)
	})
}

// Unscoped returns the raw handle. Only system-level operations and
// migrations should touch it.
func (t *TenantDB) Unscoped() *gorm.DB {
	return t.db
}
