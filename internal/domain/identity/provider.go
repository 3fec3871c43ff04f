package identity

import (
	"context"

	"github.com/google/uuid"
)

// IdentityProvider is the port to the upstream authentication service.
//
// The provider owns the authentication principal (email + credential hash);
// this subsystem only ever sees the opaque identity id. Note the deliberate
// absence of a delete operation: the upstream service does not expose one,
// so a rolled-back registration can leave an orphaned identity behind. The
// registration saga records that gap instead of pretending it can undo it.
type IdentityProvider interface {
	// SignUp creates a new authentication principal and returns its id.
	// A duplicate email must be reported as shared.ErrAlreadyExists.
	SignUp(ctx context.Context, email, password string) (uuid.UUID, error)

	// SignIn authenticates the principal and returns its id.
	SignIn(ctx context.Context, email, password string) (uuid.UUID, error)

	// SignOut invalidates the provider-side session, if any.
	SignOut(ctx context.Context, identityID uuid.UUID) error
}
