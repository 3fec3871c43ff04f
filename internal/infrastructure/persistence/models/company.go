package models

import (
	"time"

	"github.com/docvault/backend/internal/domain/company"
	"github.com/google/uuid"
)

// CompanyModel is the persistence model for companies. Name and tax id carry
// unique indexes on their lowered value: uniqueness is global across tenants
// and case-insensitive, and the database is the authoritative guard for it.
type CompanyModel struct {
	TenantAggregateModel
	Name       string `gorm:"size:200;not null;uniqueIndex:idx_companies_name_lower,expression:LOWER(name)"`
	TaxID      string `gorm:"column:tax_id;size:50;not null;uniqueIndex:idx_companies_tax_id_lower,expression:LOWER(tax_id)"`
	Address    string `gorm:"size:500"`
	Phone      string `gorm:"size:50"`
	PostalCode string `gorm:"size:20"`
	City       string `gorm:"size:100"`
}

// TableName specifies the table name for CompanyModel
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts CompanyModel to domain Company
func (m *CompanyModel) ToDomain() *company.Company {
	c := &company.Company{
		Name:       m.Name,
		TaxID:      m.TaxID,
		Address:    m.Address,
		Phone:      m.Phone,
		PostalCode: m.PostalCode,
		City:       m.City,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// CompanyModelFromDomain converts domain Company to CompanyModel
func CompanyModelFromDomain(c *company.Company) *CompanyModel {
	model := &CompanyModel{
		Name:       c.Name,
		TaxID:      c.TaxID,
		Address:    c.Address,
		Phone:      c.Phone,
		PostalCode: c.PostalCode,
		City:       c.City,
	}
	model.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return model
}

// PlatformCredentialModel is the persistence model for CAE platform
// credentials.
type PlatformCredentialModel struct {
	TenantAggregateModel
	PlatformType string `gorm:"size:20;not null"`
	Username     string `gorm:"size:200;not null"`
	Password     string `gorm:"size:500;not null"`
	Active       bool   `gorm:"not null;default:true"`
}

// TableName specifies the table name for PlatformCredentialModel
func (PlatformCredentialModel) TableName() string {
	return "platform_credentials"
}

// ToDomain converts PlatformCredentialModel to domain PlatformCredential
func (m *PlatformCredentialModel) ToDomain() *company.PlatformCredential {
	cred := &company.PlatformCredential{
		PlatformType: company.PlatformType(m.PlatformType),
		Username:     m.Username,
		Password:     m.Password,
		Active:       m.Active,
	}
	m.PopulateTenantAggregateRoot(&cred.TenantAggregateRoot)
	return cred
}

// PlatformCredentialModelFromDomain converts domain PlatformCredential to PlatformCredentialModel
func PlatformCredentialModelFromDomain(c *company.PlatformCredential) *PlatformCredentialModel {
	model := &PlatformCredentialModel{
		PlatformType: string(c.PlatformType),
		Username:     c.Username,
		Password:     c.Password,
		Active:       c.Active,
	}
	model.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return model
}

// LegacyCredentialModel mirrors platform credentials into the table the
// pre-rewrite integration still reads. It shares the credential's id, has no
// version column and keeps the old column names.
type LegacyCredentialModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Platform     string    `gorm:"size:20;not null"`
	Login        string    `gorm:"size:200;not null"`
	Secret       string    `gorm:"size:500;not null"`
	Enabled      bool      `gorm:"not null;default:true"`
	RegisteredAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for LegacyCredentialModel
func (LegacyCredentialModel) TableName() string {
	return "cae_accounts"
}

// ToDomain converts LegacyCredentialModel to domain LegacyCredential
func (m *LegacyCredentialModel) ToDomain() *company.LegacyCredential {
	return &company.LegacyCredential{
		ID:           m.ID,
		TenantID:     m.TenantID,
		Platform:     m.Platform,
		Login:        m.Login,
		Secret:       m.Secret,
		Enabled:      m.Enabled,
		RegisteredAt: m.RegisteredAt,
	}
}

// LegacyCredentialModelFromDomain converts domain LegacyCredential to LegacyCredentialModel
func LegacyCredentialModelFromDomain(l *company.LegacyCredential) *LegacyCredentialModel {
	return &LegacyCredentialModel{
		ID:           l.ID,
		TenantID:     l.TenantID,
		Platform:     l.Platform,
		Login:        l.Login,
		Secret:       l.Secret,
		Enabled:      l.Enabled,
		RegisteredAt: l.RegisteredAt,
	}
}
