package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/destination"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
)

// GormPartHistoryRepository implements PartHistoryRepository using GORM
type GormPartHistoryRepository struct {
	db *gorm.DB
}

// NewGormPartHistoryRepository creates a new GormPartHistoryRepository
func NewGormPartHistoryRepository(db *gorm.DB) *GormPartHistoryRepository {
	return &GormPartHistoryRepository{db: db}
}

// Save creates or updates a history row
func (r *GormPartHistoryRepository) Save(ctx context.Context, h *destination.PartHistory) error {
	return r.db.WithContext(ctx).Save(h).Error
}

// FindLatestUnsynced returns the newest unsynced row for a part, or
// shared.ErrNotFound
func (r *GormPartHistoryRepository) FindLatestUnsynced(ctx context.Context, destinationPartID uuid.UUID) (*destination.PartHistory, error) {
	var history destination.PartHistory
	if err := r.db.WithContext(ctx).
		Where("destination_part_id = ? AND synced = ?", destinationPartID, false).
		Order("created_at DESC").
		First(&history).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &history, nil
}

// FindForPart lists history for a part, newest first
func (r *GormPartHistoryRepository) FindForPart(ctx context.Context, destinationPartID uuid.UUID, limit int) ([]destination.PartHistory, error) {
	query := r.db.WithContext(ctx).
		Where("destination_part_id = ?", destinationPartID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var histories []destination.PartHistory
	if err := query.Find(&histories).Error; err != nil {
		return nil, err
	}
	return histories, nil
}
