package persistence

import (
	"context"
	"testing"

	"github.com/docvault/backend/internal/domain/identity"
	"github.com/docvault/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUserProfileRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserProfileRepository(db)
	ctx := context.Background()

	identityID := uuid.New()
	tenantID := uuid.New()

	profile, err := identity.NewUserProfile(identityID, tenantID, "ana@acme.es", "Ana Garcia")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, profile))

	t.Run("primary key equals the identity id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, identityID)
		require.NoError(t, err)
		assert.Equal(t, identityID, found.ID)
		assert.Equal(t, tenantID, found.TenantID)
		assert.Equal(t, identity.RoleClient, found.Role)
		assert.True(t, found.Active)
	})

	t.Run("finds by email ignoring case", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "ANA@acme.ES")
		require.NoError(t, err)
		assert.Equal(t, identityID, found.ID)
	})

	t.Run("exists by email", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "ana@ACME.es")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "nadie@acme.es")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate email is rejected by the database", func(t *testing.T) {
		dup, err := identity.NewUserProfile(uuid.New(), uuid.New(), "Ana@Acme.es", "Otra Ana")
		require.NoError(t, err)

		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("delete removes the profile", func(t *testing.T) {
		victim, err := identity.NewUserProfile(uuid.New(), tenantID, "baja@acme.es", "Baja")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, victim))

		require.NoError(t, repo.Delete(ctx, victim.ID))

		_, err = repo.FindByID(ctx, victim.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
