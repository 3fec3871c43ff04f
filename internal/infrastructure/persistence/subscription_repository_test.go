package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/docvault/backend/internal/domain/billing"
	"github.com/docvault/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockSubscriptionRepository creates a GormSubscriptionRepository with a mocked SQL connection
func newMockSubscriptionRepository(t *testing.T) (*GormSubscriptionRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormSubscriptionRepository(gormDB), mock, mockDB
}

func TestGormSubscriptionRepository_FindByTenant(t *testing.T) {
	t.Run("finds existing subscription", func(t *testing.T) {
		repo, mock, mockDB := newMockSubscriptionRepository(t)
		defer mockDB.Close()

		subscriptionID := uuid.New()
		tenantID := uuid.New()
		trialEnd := time.Now().AddDate(0, 0, 30)

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "status", "trial_ends_at", "version"}).
			AddRow(subscriptionID, tenantID, "trial", trialEnd, 1)

		mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE tenant_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, 1).
			WillReturnRows(rows)

		subscription, err := repo.FindByTenant(context.Background(), tenantID)

		require.NoError(t, err)
		assert.Equal(t, subscriptionID, subscription.ID)
		assert.Equal(t, tenantID, subscription.TenantID)
		assert.Equal(t, billing.SubscriptionStatusTrial, subscription.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to not found", func(t *testing.T) {
		repo, mock, mockDB := newMockSubscriptionRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE tenant_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByTenant(context.Background(), tenantID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSubscriptionRepository_SQLite(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSubscriptionRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	subscription := billing.NewTrialSubscription(tenantID)
	require.NoError(t, repo.Save(ctx, subscription))

	t.Run("one subscription per tenant", func(t *testing.T) {
		second := billing.NewTrialSubscription(tenantID)
		assert.ErrorIs(t, repo.Save(ctx, second), shared.ErrAlreadyExists)
	})

	t.Run("delete removes the subscription", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, subscription.ID))

		_, err := repo.FindByTenant(ctx, tenantID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
