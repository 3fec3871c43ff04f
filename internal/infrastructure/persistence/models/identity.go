package models

import (
	"github.com/docvault/backend/internal/domain/identity"
)

// TenantModel is the persistence model for tenants. It is the only
// aggregate table without a tenant_id column: the tenant is the boundary
// itself. The unique index on the lowered name backs the case-insensitive
// name invariant.
type TenantModel struct {
	AggregateModel
	Name   string `gorm:"size:100;not null;uniqueIndex:idx_tenants_name_lower,expression:LOWER(name)"`
	Status string `gorm:"size:20;not null;default:'active'"`
}

// TableName specifies the table name for TenantModel
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts TenantModel to domain Tenant
func (m *TenantModel) ToDomain() *identity.Tenant {
	tenant := &identity.Tenant{
		Name:   m.Name,
		Status: identity.TenantStatus(m.Status),
	}
	m.PopulateAggregateRoot(&tenant.BaseAggregateRoot)
	return tenant
}

// TenantModelFromDomain converts domain Tenant to TenantModel
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	model := &TenantModel{
		Name:   t.Name,
		Status: string(t.Status),
	}
	model.FromDomainAggregateRoot(t.BaseAggregateRoot)
	return model
}

// UserProfileModel is the persistence model for user profiles. The primary
// key equals the external identity id, so there is no separate identity
// reference column.
type UserProfileModel struct {
	TenantAggregateModel
	ContactName string `gorm:"size:200"`
	Email       string `gorm:"size:255;not null;uniqueIndex:idx_user_profiles_email_lower,expression:LOWER(email)"`
	Role        string `gorm:"size:20;not null;default:'Client'"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName specifies the table name for UserProfileModel
func (UserProfileModel) TableName() string {
	return "user_profiles"
}

// ToDomain converts UserProfileModel to domain UserProfile
func (m *UserProfileModel) ToDomain() *identity.UserProfile {
	profile := &identity.UserProfile{
		ContactName: m.ContactName,
		Email:       m.Email,
		Role:        identity.Role(m.Role),
		Active:      m.Active,
	}
	m.PopulateTenantAggregateRoot(&profile.TenantAggregateRoot)
	return profile
}

// UserProfileModelFromDomain converts domain UserProfile to UserProfileModel
func UserProfileModelFromDomain(p *identity.UserProfile) *UserProfileModel {
	model := &UserProfileModel{
		ContactName: p.ContactName,
		Email:       p.Email,
		Role:        string(p.Role),
		Active:      p.Active,
	}
	model.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return model
}
