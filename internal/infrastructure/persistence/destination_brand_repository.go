package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/destination"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
)

// GormDestinationBrandRepository implements DestinationBrandRepository using GORM
type GormDestinationBrandRepository struct {
	db *gorm.DB
}

// NewGormDestinationBrandRepository creates a new GormDestinationBrandRepository
func NewGormDestinationBrandRepository(db *gorm.DB) *GormDestinationBrandRepository {
	return &GormDestinationBrandRepository{db: db}
}

// Save creates or updates a mapping
func (r *GormDestinationBrandRepository) Save(ctx context.Context, b *destination.DestinationBrand) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// FindByBrand finds the mapping for a brand on a destination
func (r *GormDestinationBrandRepository) FindByBrand(ctx context.Context, destinationID, brandID uuid.UUID) (*destination.DestinationBrand, error) {
	var mapping destination.DestinationBrand
	if err := r.db.WithContext(ctx).
		Where("destination_id = ? AND brand_id = ?", destinationID, brandID).
		First(&mapping).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &mapping, nil
}

// FindForDestination lists all brand mappings for a destination
func (r *GormDestinationBrandRepository) FindForDestination(ctx context.Context, destinationID uuid.UUID) ([]destination.DestinationBrand, error) {
	var mappings []destination.DestinationBrand
	if err := r.db.WithContext(ctx).
		Where("destination_id = ?", destinationID).
		Find(&mappings).Error; err != nil {
		return nil, err
	}
	return mappings, nil
}
