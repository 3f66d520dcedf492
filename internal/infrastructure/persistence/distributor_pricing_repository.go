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

// GormDistributorPricingRepository implements DistributorPricingRepository using GORM
type GormDistributorPricingRepository struct {
	db *gorm.DB
}

// NewGormDistributorPricingRepository creates a new GormDistributorPricingRepository
func NewGormDistributorPricingRepository(db *gorm.DB) *GormDistributorPricingRepository {
	return &GormDistributorPricingRepository{db: db}
}

// UpsertBatch inserts or refreshes rows keyed by (provider, external id)
func (r *GormDistributorPricingRepository) UpsertBatch(ctx context.Context, rows []sources.DistributorPricing) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_id"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"pricelists",
			"updated_at",
		}),
	}).CreateInBatches(rows, 100).Error
}

// FindByExternalID finds the pricelists for one item
func (r *GormDistributorPricingRepository) FindByExternalID(ctx context.Context, providerID uuid.UUID, externalID string) (*sources.DistributorPricing, error) {
	var pricing sources.DistributorPricing
	if err := r.db.WithContext(ctx).
		Where("provider_id = ? AND external_id = ?", providerID, externalID).
		First(&pricing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pricing, nil
}
