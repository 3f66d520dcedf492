package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/destination"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
)

// GormDestinationRepository implements DestinationRepository using GORM
type GormDestinationRepository struct {
	db *gorm.DB
}

// NewGormDestinationRepository creates a new GormDestinationRepository
func NewGormDestinationRepository(db *gorm.DB) *GormDestinationRepository {
	return &GormDestinationRepository{db: db}
}

// Save creates or updates a destination
func (r *GormDestinationRepository) Save(ctx context.Context, d *destination.Destination) error {
	return r.db.WithContext(ctx).Save(d).Error
}

// FindByID finds a destination by its ID
func (r *GormDestinationRepository) FindByID(ctx context.Context, id uuid.UUID) (*destination.Destination, error) {
	var d destination.Destination
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindByName finds a destination by its unique name
func (r *GormDestinationRepository) FindByName(ctx context.Context, name string) (*destination.Destination, error) {
	var d destination.Destination
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindAllActive lists active destinations
func (r *GormDestinationRepository) FindAllActive(ctx context.Context) ([]destination.Destination, error) {
	var destinations []destination.Destination
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&destinations).Error; err != nil {
		return nil, err
	}
	return destinations, nil
}
