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

// GormDistributorItemRepository implements DistributorItemRepository using GORM
type GormDistributorItemRepository struct {
	db *gorm.DB
}

// NewGormDistributorItemRepository creates a new GormDistributorItemRepository
func NewGormDistributorItemRepository(db *gorm.DB) *GormDistributorItemRepository {
	return &GormDistributorItemRepository{db: db}
}

// UpsertBatch inserts or refreshes rows keyed by (provider, external id)
func (r *GormDistributorItemRepository) UpsertBatch(ctx context.Context, rows []sources.DistributorItem) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_id"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"part_number",
			"mfr_part_number",
			"product_name",
			"category",
			"subcategory",
			"brand_ext_id",
			"brand_name",
			"barcode",
			"active",
			"dimensions",
			"attributes",
			"updated_at",
		}),
	}).CreateInBatches(rows, 100).Error
}

// FindByBrandExtID lists items for one distributor brand id
func (r *GormDistributorItemRepository) FindByBrandExtID(ctx context.Context, providerID uuid.UUID, brandExtID string) ([]sources.DistributorItem, error) {
	var items []sources.DistributorItem
	if err := r.db.WithContext(ctx).
		Where("provider_id = ? AND brand_ext_id = ?", providerID, brandExtID).
		Order("part_number ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByPartNumber finds an item by manufacturer part number
func (r *GormDistributorItemRepository) FindByPartNumber(ctx context.Context, providerID uuid.UUID, partNumber string) (*sources.DistributorItem, error) {
	var item sources.DistributorItem
	if err := r.db.WithContext(ctx).
		Where("provider_id = ? AND part_number = ?", providerID, partNumber).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}
