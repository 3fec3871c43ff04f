package persistence

import (
	"testing"

	"github.com/docvault/backend/internal/infrastructure/config"
	"github.com/docvault/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with the full schema.
// TranslateError is on so unique violations surface as gorm.ErrDuplicatedKey
// exactly like the postgres setup in production.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(models.AllModels()...)
	require.NoError(t, err)

	return db
}

func TestNewDatabase_ConnectionFailure(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     1, // nothing listens here
		User:     "docvault",
		Password: "docvault",
		DBName:   "docvault_test",
		SSLMode:  "disable",
	}

	db, err := NewDatabase(cfg)

	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestDatabase_WithTenant_PanicsOnEmptyID(t *testing.T) {
	d := &Database{DB: setupTestDB(t)}

	assert.Panics(t, func() {
		d.WithTenant("")
	})
}

func TestDatabase_WithTenant_ScopesQueries(t *testing.T) {
	d := &Database{DB: setupTestDB(t)}

	scoped := d.WithTenant("7a3c1f4e-0000-0000-0000-000000000001")
	assert.NotNil(t, scoped)

	var count int64
	err := scoped.Model(&models.ProjectModel{}).Count(&count).Error
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
