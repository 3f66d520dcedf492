package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/provider"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
)

// GormBrandProviderRepository implements BrandProviderRepository using GORM
type GormBrandProviderRepository struct {
	db *gorm.DB
}

// NewGormBrandProviderRepository creates a new GormBrandProviderRepository
func NewGormBrandProviderRepository(db *gorm.DB) *GormBrandProviderRepository {
	return &GormBrandProviderRepository{db: db}
}

// Save creates or updates a link
func (r *GormBrandProviderRepository) Save(ctx context.Context, link *provider.BrandProvider) error {
	return r.db.WithContext(ctx).Save(link).Error
}

// FindForBrand lists all links for a brand
func (r *GormBrandProviderRepository) FindForBrand(ctx context.Context, brandID uuid.UUID) ([]provider.BrandProvider, error) {
	var links []provider.BrandProvider
	if err := r.db.WithContext(ctx).
		Where("brand_id = ?", brandID).
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// FindRef returns the provider-side brand reference for a brand and
// provider pair
func (r *GormBrandProviderRepository) FindRef(ctx context.Context, brandID, providerID uuid.UUID) (*provider.BrandProvider, error) {
	var link provider.BrandProvider
	if err := r.db.WithContext(ctx).
		Where("brand_id = ? AND provider_id = ?", brandID, providerID).
		First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}
