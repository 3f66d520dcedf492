package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/destination"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
)

// GormExecutionRunRepository implements ExecutionRunRepository using GORM
type GormExecutionRunRepository struct {
	db *gorm.DB
}

// NewGormExecutionRunRepository creates a new GormExecutionRunRepository
func NewGormExecutionRunRepository(db *gorm.DB) *GormExecutionRunRepository {
	return &GormExecutionRunRepository{db: db}
}

// Save creates or updates a run
func (r *GormExecutionRunRepository) Save(ctx context.Context, run *destination.ExecutionRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// FindByID finds a run by its ID
func (r *GormExecutionRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*destination.ExecutionRun, error) {
	var run destination.ExecutionRun
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// FindRecent lists the most recent runs for a destination
func (r *GormExecutionRunRepository) FindRecent(ctx context.Context, destinationID uuid.UUID, limit int) ([]destination.ExecutionRun, error) {
	query := r.db.WithContext(ctx).
		Where("destination_id = ?", destinationID).
		Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var runs []destination.ExecutionRun
	if err := query.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
