package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/catalog"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/provider"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
)

// GormProviderRepository implements ProviderRepository using GORM
type GormProviderRepository struct {
	db *gorm.DB
}

// NewGormProviderRepository creates a new GormProviderRepository
func NewGormProviderRepository(db *gorm.DB) *GormProviderRepository {
	return &GormProviderRepository{db: db}
}

// Save creates or updates a provider
func (r *GormProviderRepository) Save(ctx context.Context, p *provider.Provider) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// FindByID finds a provider by its ID
func (r *GormProviderRepository) FindByID(ctx context.Context, id uuid.UUID) (*provider.Provider, error) {
	var p provider.Provider
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByName finds a provider by its unique name
func (r *GormProviderRepository) FindByName(ctx context.Context, name string) (*provider.Provider, error) {
	var p provider.Provider
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindActiveForBrand lists a brand's active providers for a role,
// ordered by ascending priority
func (r *GormProviderRepository) FindActiveForBrand(ctx context.Context, brandID uuid.UUID, role catalog.SourceRole) ([]provider.Provider, error) {
	var providers []provider.Provider
	if err := r.db.WithContext(ctx).
		Joins("JOIN brand_providers ON brand_providers.provider_id = providers.id").
		Where("brand_providers.brand_id = ?", brandID).
		Where("brand_providers.active = ?", true).
		Where("providers.role = ?", role).
		Where("providers.active = ?", true).
		Order("providers.priority ASC").
		Find(&providers).Error; err != nil {
		return nil, err
	}
	return providers, nil
}
