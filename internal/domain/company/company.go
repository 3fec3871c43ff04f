package company

import (
	"strings"

	"github.com/docvault/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Company represents the legal entity behind a tenant. Name and tax id are
// globally unique across all tenants; this is the only cross-tenant
// invariant in the system, and the database unique indexes on the lowered
// columns are the authoritative guard (the registration validator is only a
// user-friendly pre-check).
type Company struct {
	shared.TenantAggregateRoot
	Name       string
	TaxID      string
	Address    string
	Phone      string
	PostalCode string
	City       string
}

// NewCompany creates a new company scoped to a tenant
func NewCompany(tenantID uuid.UUID, name, taxID string) (*Company, error) {
	if err := validateCompanyName(name); err != nil {
		return nil, err
	}
	if err := validateTaxID(taxID); err != nil {
		return nil, err
	}

	company := &Company{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		TaxID:               strings.ToUpper(strings.TrimSpace(taxID)),
	}

	company.AddDomainEvent(NewCompanyCreatedEvent(company))

	return company, nil
}

// SetAddress sets the company's postal address fields
func (c *Company) SetAddress(address, phone, postalCode, city string) error {
	if len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if len(postalCode) > 20 {
		return shared.NewDomainError("INVALID_POSTAL_CODE", "Postal code cannot exceed 20 characters")
	}
	if len(city) > 100 {
		return shared.NewDomainError("INVALID_CITY", "City cannot exceed 100 characters")
	}

	c.Address = strings.TrimSpace(address)
	c.Phone = strings.TrimSpace(phone)
	c.PostalCode = strings.TrimSpace(postalCode)
	c.City = strings.TrimSpace(city)
	c.Touch()
	c.IncrementVersion()

	return nil
}

func validateCompanyName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot exceed 200 characters")
	}
	return nil
}

func validateTaxID(taxID string) error {
	taxID = strings.TrimSpace(taxID)
	if taxID == "" {
		return shared.NewDomainError("INVALID_TAX_ID", "Tax id cannot be empty")
	}
	if len(taxID) > 50 {
		return shared.NewDomainError("INVALID_TAX_ID", "Tax id cannot exceed 50 characters")
	}
	return nil
}
