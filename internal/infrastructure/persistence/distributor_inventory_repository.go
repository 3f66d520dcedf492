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

// GormDistributorInventoryRepository implements DistributorInventoryRepository using GORM
type GormDistributorInventoryRepository struct {
	db *gorm.DB
}

// NewGormDistributorInventoryRepository creates a new GormDistributorInventoryRepository
func NewGormDistributorInventoryRepository(db *gorm.DB) *GormDistributorInventoryRepository {
	return &GormDistributorInventoryRepository{db: db}
}

// UpsertBatch inserts or refreshes rows keyed by (provider, external id)
func (r *GormDistributorInventoryRepository) UpsertBatch(ctx context.Context, rows []sources.DistributorInventory) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_id"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"warehouse_stock",
			"updated_at",
		}),
	}).CreateInBatches(rows, 100).Error
}

// FindByExternalID finds the stock row for one item
func (r *GormDistributorInventoryRepository) FindByExternalID(ctx context.Context, providerID uuid.UUID, externalID string) (*sources.DistributorInventory, error) {
	var inventory sources.DistributorInventory
	if err := r.db.WithContext(ctx).
		Where("provider_id = ? AND external_id = ?", providerID, externalID).
		First(&inventory).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inventory, nil
}
