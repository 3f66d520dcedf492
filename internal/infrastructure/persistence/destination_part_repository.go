package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/destination"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
)

// GormDestinationPartRepository implements DestinationPartRepository using GORM
type GormDestinationPartRepository struct {
	db *gorm.DB
}

// NewGormDestinationPartRepository creates a new GormDestinationPartRepository
func NewGormDestinationPartRepository(db *gorm.DB) *GormDestinationPartRepository {
	return &GormDestinationPartRepository{db: db}
}

// Save creates or updates a destination part
func (r *GormDestinationPartRepository) Save(ctx context.Context, p *destination.DestinationPart) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// FindBySKU finds the snapshot for a SKU on a destination
func (r *GormDestinationPartRepository) FindBySKU(ctx context.Context, destinationID uuid.UUID, sku string) (*destination.DestinationPart, error) {
	var part destination.DestinationPart
	if err := r.db.WithContext(ctx).
		Where("destination_id = ? AND sku = ?", destinationID, sku).
		First(&part).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &part, nil
}

// FindForDestination lists all snapshots for a destination
func (r *GormDestinationPartRepository) FindForDestination(ctx context.Context, destinationID uuid.UUID) ([]destination.DestinationPart, error) {
	var parts []destination.DestinationPart
	if err := r.db.WithContext(ctx).
		Where("destination_id = ?", destinationID).
		Order("sku ASC").
		Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

// FindForBrand lists snapshots for one brand on a destination
func (r *GormDestinationPartRepository) FindForBrand(ctx context.Context, destinationID, brandID uuid.UUID) ([]destination.DestinationPart, error) {
	var parts []destination.DestinationPart
	if err := r.db.WithContext(ctx).
		Where("destination_id = ? AND brand_id = ?", destinationID, brandID).
		Order("sku ASC").
		Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

// DeleteByExternalIDs removes snapshots whose storefront product ids
// were purged remotely
func (r *GormDestinationPartRepository) DeleteByExternalIDs(ctx context.Context, destinationID uuid.UUID, externalIDs []int64) error {
	if len(externalIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("destination_id = ? AND external_id IN ?", destinationID, externalIDs).
		Delete(&destination.DestinationPart{}).Error
}
