package identitygw

import (
	"context"
	"strings"
	"sync"

	"github.com/docvault/backend/internal/domain/identity"
	"github.com/docvault/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// LocalProvider is an in-process identity provider for development and
// tests. Credentials live in memory with bcrypt-hashed passwords. Like the
// hosted service it mirrors, the provider exposes no delete: once signed
// up, a principal stays.
type LocalProvider struct {
	mu       sync.RWMutex
	accounts map[string]localAccount // keyed by lowercased email
}

type localAccount struct {
	id   uuid.UUID
	hash []byte
}

// NewLocalProvider creates an empty local provider
func NewLocalProvider() *LocalProvider {
	return &LocalProvider{accounts: make(map[string]localAccount)}
}

// SignUp registers a principal, rejecting duplicate emails
func (p *LocalProvider) SignUp(_ context.Context, email, password string) (uuid.UUID, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return uuid.Nil, shared.ErrInvalidInput
	}
	if len(password) < 8 {
		return uuid.Nil, shared.NewDomainError("WEAK_PASSWORD", "Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.accounts[email]; exists {
		return uuid.Nil, shared.ErrAlreadyExists
	}

	id := uuid.New()
	p.accounts[email] = localAccount{id: id, hash: hash}
	return id, nil
}

// SignIn verifies the password and returns the identity id
func (p *LocalProvider) SignIn(_ context.Context, email, password string) (uuid.UUID, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	p.mu.RLock()
	account, exists := p.accounts[email]
	p.mu.RUnlock()

	if !exists {
		return uuid.Nil, shared.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(account.hash, []byte(password)); err != nil {
		return uuid.Nil, shared.ErrUnauthorized
	}
	return account.id, nil
}

// SignOut is a no-op for the local provider
func (p *LocalProvider) SignOut(context.Context, uuid.UUID) error {
	return nil
}

var _ identity.IdentityProvider = (*LocalProvider)(nil)
