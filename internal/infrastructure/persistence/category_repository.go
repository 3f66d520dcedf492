package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/destination"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// Save creates or updates a cached category
func (r *GormCategoryRepository) Save(ctx context.Context, c *destination.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// FindByKey looks a category up by its natural key
func (r *GormCategoryRepository) FindByKey(ctx context.Context, destinationID uuid.UUID, name string, parentID, treeID int64) (*destination.Category, error) {
	var category destination.Category
	if err := r.db.WithContext(ctx).
		Where("destination_id = ? AND name = ? AND parent_id = ? AND tree_id = ?",
			destinationID, name, parentID, treeID).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Delete removes a cached category
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&destination.Category{}, "id = ?", id).Error
}

// FindForDestination lists all cached categories for a destination
func (r *GormCategoryRepository) FindForDestination(ctx context.Context, destinationID uuid.UUID) ([]destination.Category, error) {
	var categories []destination.Category
	if err := r.db.WithContext(ctx).
		Where("destination_id = ?", destinationID).
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
