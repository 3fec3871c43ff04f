package persistence

import (
	"context"
	"testing"

	"github.com/docvault/backend/internal/domain/company"
	"github.com/docvault/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCompanyRepository_Exists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCompanyRepository(db)
	ctx := context.Background()

	seed, err := company.NewCompany(uuid.New(), "Gestoria Lopez SL", "B12345678")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, seed))

	t.Run("name check ignores case", func(t *testing.T) {
		exists, err := repo.ExistsByName(ctx, "GESTORIA lopez sl")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("tax id check ignores case", func(t *testing.T) {
		exists, err := repo.ExistsByTaxID(ctx, "b12345678")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("unknown name does not exist", func(t *testing.T) {
		exists, err := repo.ExistsByName(ctx, "Otra Empresa SA")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormCompanyRepository_Save_DuplicateName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCompanyRepository(db)
	ctx := context.Background()

	first, err := company.NewCompany(uuid.New(), "Unica SL", "A00000001")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	// Same name under a different tenant: the unique index is global.
	second, err := company.NewCompany(uuid.New(), "unica sl", "A00000002")
	require.NoError(t, err)

	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestGormCompanyRepository_FindByTenant_IsolatesTenants(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCompanyRepository(db)
	ctx := context.Background()

	tenantA := uuid.New()
	tenantB := uuid.New()

	mine, err := company.NewCompany(tenantA, "Empresa Mia SL", "B11111111")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, mine))

	other, err := company.NewCompany(tenantB, "Empresa Ajena SL", "B22222222")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, other))

	companies, err := repo.FindByTenant(ctx, tenantA)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, mine.ID, companies[0].ID)

	companies, err = repo.FindByTenant(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, companies)
}

func TestGormCompanyRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCompanyRepository(db)
	ctx := context.Background()

	c, err := company.NewCompany(uuid.New(), "Temporal SL", "C33333333")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, c))

	require.NoError(t, repo.Delete(ctx, c.ID))

	exists, err := repo.ExistsByName(ctx, "Temporal SL")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, repo.Delete(ctx, c.ID), shared.ErrNotFound)
}
