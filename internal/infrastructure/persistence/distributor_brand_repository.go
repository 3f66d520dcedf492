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

// GormDistributorBrandRepository implements DistributorBrandRepository using GORM
type GormDistributorBrandRepository struct {
	db *gorm.DB
}

// NewGormDistributorBrandRepository creates a new GormDistributorBrandRepository
func NewGormDistributorBrandRepository(db *gorm.DB) *GormDistributorBrandRepository {
	return &GormDistributorBrandRepository{db: db}
}

// UpsertBatch inserts or refreshes rows keyed by (provider, external id)
func (r *GormDistributorBrandRepository) UpsertBatch(ctx context.Context, rows []sources.DistributorBrand) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_id"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name",
			"aaia_brand_id",
			"logo_url",
			"updated_at",
		}),
	}).CreateInBatches(rows, 100).Error
}

// FindByName finds a directory row by brand name
func (r *GormDistributorBrandRepository) FindByName(ctx context.Context, providerID uuid.UUID, name string) (*sources.DistributorBrand, error) {
	var brand sources.DistributorBrand
	if err := r.db.WithContext(ctx).
		Where("provider_id = ? AND name = ?", providerID, name).
		First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &brand, nil
}
