package onboarding

import (
	"context"

	"github.com/docvault/backend/internal/domain/company"
	"github.com/docvault/backend/internal/domain/identity"
	"golang.org/x/text/cases"
)

// UniquenessValidator pre-checks that the registration's company name, tax
// id and email are unclaimed. Checks run in form order (name, tax id, email)
// and stop at the first conflict. This is a fast, user-friendly pre-check
// only: it is not safe under concurrent duplicate submissions, and the
// database unique indexes remain the authoritative guard.
type UniquenessValidator struct {
	companyRepo company.CompanyRepository
	profileRepo identity.UserProfileRepository
	folder      cases.Caser
}

// NewUniquenessValidator creates a new validator
func NewUniquenessValidator(companyRepo company.CompanyRepository, profileRepo identity.UserProfileRepository) *UniquenessValidator {
	return &UniquenessValidator{
		companyRepo: companyRepo,
		profileRepo: profileRepo,
		folder:      cases.Fold(),
	}
}

// Validate returns a *RejectedError naming the first conflicting field, or
// nil when all three identifiers are free.
func (v *UniquenessValidator) Validate(ctx context.Context, in RegistrationInput) error {
	name := v.folder.String(in.CompanyName)
	exists, err := v.companyRepo.ExistsByName(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return NewRejectedError(FieldCompanyName, "is already registered")
	}

	taxID := v.folder.String(in.TaxID)
	exists, err = v.companyRepo.ExistsByTaxID(ctx, taxID)
	if err != nil {
		return err
	}
	if exists {
		return NewRejectedError(FieldTaxID, "is already registered")
	}

	email := v.folder.String(in.Email)
	exists, err = v.profileRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return NewRejectedError(FieldEmail, "is already in use")
	}

	return nil
}
