package persistence

import (
	"context"
	"errors"

	"github.com/docvault/backend/internal/domain/billing"
	"github.com/docvault/backend/internal/domain/shared"
	"github.com/docvault/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientRecordRepository implements ClientRecordRepository using GORM
type GormClientRecordRepository struct {
	db *gorm.DB
}

// NewGormClientRecordRepository creates a new GormClientRecordRepository
func NewGormClientRecordRepository(db *gorm.DB) *GormClientRecordRepository {
	return &GormClientRecordRepository{db: db}
}

var _ billing.ClientRecordRepository = (*GormClientRecordRepository)(nil)

// FindByUserID finds the record keyed to an identity id
func (r *GormClientRecordRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*billing.ClientRecord, error) {
	var model models.ClientRecordModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a client record
func (r *GormClientRecordRepository) Save(ctx context.Context, record *billing.ClientRecord) error {
	model := models.ClientRecordModelFromDomain(record)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete deletes a client record. Only the registration saga calls this.
func (r *GormClientRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ClientRecordModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
