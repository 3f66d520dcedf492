package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/sources"
)

// GormFeedFitmentRepository implements FeedFitmentRepository using GORM
type GormFeedFitmentRepository struct {
	db *gorm.DB
}

// NewGormFeedFitmentRepository creates a new GormFeedFitmentRepository
func NewGormFeedFitmentRepository(db *gorm.DB) *GormFeedFitmentRepository {
	return &GormFeedFitmentRepository{db: db}
}

// UpsertBatch inserts rows, ignoring duplicates of the natural key.
// Fitment rows carry no mutable payload, so re-delivered rows are
// skipped rather than refreshed.
func (r *GormFeedFitmentRepository) UpsertBatch(ctx context.Context, rows []sources.FeedFitment) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider_id"}, {Name: "sku"}, {Name: "brand_code"},
			{Name: "year"}, {Name: "make"}, {Name: "model"},
		},
		DoNothing: true,
	}).CreateInBatches(rows, 100).Error
}

// FindBySKU lists fitments for one SKU on a provider
func (r *GormFeedFitmentRepository) FindBySKU(ctx context.Context, providerID uuid.UUID, sku string) ([]sources.FeedFitment, error) {
	var fitments []sources.FeedFitment
	if err := r.db.WithContext(ctx).
		Where("provider_id = ? AND sku = ?", providerID, sku).
		Order("year ASC, make ASC, model ASC").
		Find(&fitments).Error; err != nil {
		return nil, err
	}
	return fitments, nil
}
