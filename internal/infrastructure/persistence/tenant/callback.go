package tenant

import (
	"strings"

	"github.com/docvault/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScopedTables lists the tables that carry a tenant_id column. The callback
// only touches queries against these; the tenants table and other global
// tables are left alone.
var ScopedTables = map[string]struct{}{
	"user_profiles":        {},
	"companies":            {},
	"platform_credentials": {},
	"cae_accounts":         {},
	"client_records":       {},
	"subscriptions":        {},
	"receipts":             {},
	"projects":             {},
	"documents":            {},
	"audit_events":         {},
}

// TenantCallback provides GORM callback hooks that inject a tenant_id filter
// from the request context into queries that lack one
type TenantCallback struct {
	tenantColumn string
	tables       map[string]struct{}
}

// NewTenantCallback creates a new tenant callback handler for the given
// tenant-scoped tables
func NewTenantCallback(tenantColumn string, tables map[string]struct{}) *TenantCallback {
	if tenantColumn == "" {
		tenantColumn = "tenant_id"
	}
	if tables == nil {
		tables = ScopedTables
	}
	return &TenantCallback{
		tenantColumn: tenantColumn,
		tables:       tables,
	}
}

// RegisterCallbacks registers tenant callbacks with GORM
func (tc *TenantCallback) RegisterCallbacks(db *gorm.DB) {
	_ = db.Callback().Query().Before("gorm:query").Register("tenant:before_query", tc.addTenantFilter)
	_ = db.Callback().Update().Before("gorm:update").Register("tenant:before_update", tc.addTenantFilter)
	_ = db.Callback().Delete().Before("gorm:delete").Register("tenant:before_delete", tc.addTenantFilter)
	_ = db.Callback().Row().Before("gorm:row").Register("tenant:before_row", tc.addTenantFilter)

	// Create is not hooked: tenant_id is set by the aggregate constructors,
	// and registration writes rows before any tenant context exists.
}

// addTenantFilter adds tenant filtering to the query when the target table
// is tenant-scoped, the context carries a tenant and no tenant condition is
// present yet
func (tc *TenantCallback) addTenantFilter(db *gorm.DB) {
	if db.Statement.Context == nil {
		return
	}

	if db.Statement.Unscoped {
		return
	}

	if !tc.isScopedTable(db) {
		return
	}

	if tc.hasTenantCondition(db) {
		return
	}

	tenantID := logger.GetTenantID(db.Statement.Context)
	if tenantID == "" {
		return
	}

	if _, err := uuid.Parse(tenantID); err != nil {
		_ = db.AddError(ErrInvalidTenantID)
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: tc.tenantColumn},
				Value:  tenantID,
			},
		},
	})
}

// isScopedTable reports whether the statement targets a tenant-scoped table
func (tc *TenantCallback) isScopedTable(db *gorm.DB) bool {
	table := db.Statement.Table
	if table == "" && db.Statement.Schema != nil {
		table = db.Statement.Schema.Table
	}
	if table == "" {
		return false
	}
	_, ok := tc.tables[table]
	return ok
}

// hasTenantCondition checks if tenant_id condition is already present
func (tc *TenantCallback) hasTenantCondition(db *gorm.DB) bool {
	if whereClause, ok := db.Statement.Clauses["WHERE"]; ok {
		if where, ok := whereClause.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if tc.exprContainsTenant(expr) {
					return true
				}
			}
		}
	}

	// Also check the built SQL if available
	sql := db.Statement.SQL.String()
	if sql != "" && strings.Contains(sql, tc.tenantColumn) {
		return true
	}

	return false
}

// exprContainsTenant checks if an expression contains the tenant column
func (tc *TenantCallback) exprContainsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.tenantColumn
		}
		if col, ok := e.Column.(string); ok {
			return strings.Contains(col, tc.tenantColumn)
		}
	case clause.Expr:
		return strings.Contains(e.SQL, tc.tenantColumn)
	case clause.IN:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.tenantColumn
		}
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsTenant(cond) {
				return true
			}
		}
	case clause.OrConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsTenant(cond) {
				return true
			}
		}
	}
	return false
}

// EnableAutoTenantFilter registers the context-driven tenant guard on a GORM
// DB instance using the default scoped table set
func EnableAutoTenantFilter(db *gorm.DB) {
	tc := NewTenantCallback("tenant_id", nil)
	tc.RegisterCallbacks(db)
}

// DisableAutoTenantFilter removes the tenant callbacks. Mainly for tests.
func DisableAutoTenantFilter(db *gorm.DB) {
	_ = db.Callback().Query().Remove("tenant:before_query")
	_ = db.Callback().Update().Remove("tenant:before_update")
	_ = db.Callback().Delete().Remove("tenant:before_delete")
	_ = db.Callback().Row().Remove("tenant:before_row")
}
