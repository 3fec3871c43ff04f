package onboarding

import "fmt"

// Conflicting-field names used in RejectedError. They match the order the
// registration form presents them.
const (
	FieldCompanyName = "company_name"
	FieldTaxID       = "tax_id"
	FieldEmail       = "email"
)

// RejectedError is a user-fixable validation rejection. Nothing has been
// created when it is returned from the validation gate; when a storage
// uniqueness constraint fires mid-saga the partial state has already been
// compensated before it is returned.
type RejectedError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *RejectedError) Error() string {
	return fmt.Sprintf("registration rejected: %s %s", e.Field, e.Reason)
}

// NewRejectedError creates a rejection for the given conflicting field
func NewRejectedError(field, reason string) *RejectedError {
	return &RejectedError{Field: field, Reason: reason}
}

// SystemError is an infrastructure failure mid-saga. RolledBack reports
// whether reverse compensation was attempted; CompensationErrs carries any
// individual compensation failures (a partial rollback is surfaced, never
// swallowed).
type SystemError struct {
	Step             string
	RolledBack       bool
	CompensationErrs []string
	Err              error
}

// Error implements the error interface
func (e *SystemError) Error() string {
	if len(e.CompensationErrs) > 0 {
		return fmt.Sprintf("registration failed at step %s (rollback attempted, %d compensation warnings): %v",
			e.Step, len(e.CompensationErrs), e.Err)
	}
	if e.RolledBack {
		return fmt.Sprintf("registration failed at step %s (rolled back): %v", e.Step, e.Err)
	}
	return fmt.Sprintf("registration failed at step %s: %v", e.Step, e.Err)
}

// Unwrap exposes the underlying step error
func (e *SystemError) Unwrap() error {
	return e.Err
}

// PartialCompensation reports whether rollback itself partially failed
func (e *SystemError) PartialCompensation() bool {
	return len(e.CompensationErrs) > 0
}
