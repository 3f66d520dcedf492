package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/sources"
)

// GormFeedPartRepository implements FeedPartRepository using GORM
type GormFeedPartRepository struct {
	db *gorm.DB
}

// NewGormFeedPartRepository creates a new GormFeedPartRepository
func NewGormFeedPartRepository(db *gorm.DB) *GormFeedPartRepository {
	return &GormFeedPartRepository{db: db}
}

// UpsertBatch inserts or refreshes rows keyed by (provider, sku)
func (r *GormFeedPartRepository) UpsertBatch(ctx context.Context, rows []sources.FeedPart) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_id"}, {Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"brand_code",
			"part_number",
			"title",
			"upc",
			"category",
			"subcategory",
			"life_cycle_status",
			"inventory",
			"price_map",
			"price_retail",
			"price_jobber",
			"weight",
			"length",
			"width",
			"height",
			"description",
			"image_url",
			"attributes",
			"updated_at",
		}),
	}).CreateInBatches(rows, 100).Error
}

// FindByBrandCode lists rows for one brand code on a provider
func (r *GormFeedPartRepository) FindByBrandCode(ctx context.Context, providerID uuid.UUID, brandCode string) ([]sources.FeedPart, error) {
	var parts []sources.FeedPart
	if err := r.db.WithContext(ctx).
		Where("provider_id = ? AND brand_code = ?", providerID, brandCode).
		Order("sku ASC").
		Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}
