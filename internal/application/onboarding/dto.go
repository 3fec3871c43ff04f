package onboarding

import (
	"strings"

	"github.com/docvault/backend/internal/domain/billing"
	"github.com/docvault/backend/internal/domain/company"
	"github.com/docvault/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// CredentialInput is one CAE platform login pair supplied at registration
type CredentialInput struct {
	PlatformType string
	Username     string
	Password     string
}

// RegistrationInput carries the fields collected by the registration form
type RegistrationInput struct {
	Email          string
	Password       string
	ContactName    string
	CompanyName    string
	TaxID          string
	Address        string
	Phone          string
	PostalCode     string
	City           string
	Credentials    []CredentialInput
	MarketingOptIn bool
	IdempotencyKey string
}

// normalize trims the identifying fields once, up front, so every later
// comparison and insert sees the same spelling.
func (in *RegistrationInput) normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.TaxID = strings.ToUpper(strings.TrimSpace(in.TaxID))
	in.ContactName = strings.TrimSpace(in.ContactName)
}

// AuthenticatedTenantContext is the success result of registration: the new
// tenant resolved and ready for the first authenticated session.
type AuthenticatedTenantContext struct {
	IdentityID  uuid.UUID
	TenantID    uuid.UUID
	Profile     *identity.UserProfile
	CompanyName string
	Quota       billing.TrialQuota
}

// toCredentials converts the raw inputs into domain credentials
func toCredentials(tenantID uuid.UUID, inputs []CredentialInput) ([]*company.PlatformCredential, error) {
	credentials := make([]*company.PlatformCredential, 0, len(inputs))
	for _, in := range inputs {
		cred, err := company.NewPlatformCredential(tenantID, company.PlatformType(in.PlatformType), in.Username, in.Password)
		if err != nil {
			return nil, err
		}
		credentials = append(credentials, cred)
	}
	return credentials, nil
}
