package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/sources"
)

// GormDistributorItemDataRepository implements DistributorItemDataRepository using GORM
type GormDistributorItemDataRepository struct {
	db *gorm.DB
}

// NewGormDistributorItemDataRepository creates a new GormDistributorItemDataRepository
func NewGormDistributorItemDataRepository(db *gorm.DB) *GormDistributorItemDataRepository {
	return &GormDistributorItemDataRepository{db: db}
}

// UpsertBatch inserts or refreshes rows keyed by (provider, external id)
func (r *GormDistributorItemDataRepository) UpsertBatch(ctx context.Context, rows []sources.DistributorItemData) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_id"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"descriptions",
			"files",
			"updated_at",
		}),
	}).CreateInBatches(rows, 100).Error
}

// FindByExternalID finds the payload for one item
func (r *GormDistributorItemDataRepository) FindByExternalID(ctx context.Context, providerID uuid.UUID, externalID string) (*sources.DistributorItemData, error) {
	var data sources.DistributorItemData
	if err := r.db.WithContext(ctx).
		Where("provider_id = ? AND external_id = ?", providerID, externalID).
		First(&data).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &data, nil
}
