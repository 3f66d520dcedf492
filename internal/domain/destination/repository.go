package destination

import (
	"context"

	"github.com/google/uuid"
)

// DestinationRepository defines the interface for destination persistence
type DestinationRepository interface {
	// Save creates or updates a destination
	Save(ctx context.Context, d *Destination) error

	// FindByID finds a destination by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Destination, error)

	// FindByName finds a destination by its unique name
	FindByName(ctx context.Context, name string) (*Destination, error)

	// FindAllActive lists active destinations
	FindAllActive(ctx context.Context) ([]Destination, error)
}

// DestinationPartRepository defines the interface for synced part snapshots
type DestinationPartRepository interface {
	// Save creates or updates a destination part
	Save(ctx context.Context, p *DestinationPart) error

	// FindBySKU finds the snapshot for a SKU on a destination
	FindBySKU(ctx context.Context, destinationID uuid.UUID, sku string) (*DestinationPart, error)

	// FindForDestination lists all snapshots for a destination
	FindForDestination(ctx context.Context, destinationID uuid.UUID) ([]DestinationPart, error)

	// FindForBrand lists snapshots for one brand on a destination
	FindForBrand(ctx context.Context, destinationID, brandID uuid.UUID) ([]DestinationPart, error)

	// DeleteByExternalIDs removes snapshots whose storefront product ids
	// were purged remotely
	DeleteByExternalIDs(ctx context.Context, destinationID uuid.UUID, externalIDs []int64) error
}

// PartHistoryRepository defines the interface for change history rows
type PartHistoryRepository interface {
	// Save creates or updates a history row
	Save(ctx context.Context, h *PartHistory) error

	// FindLatestUnsynced returns the newest unsynced row for a part, or
	// shared.ErrNotFound
	FindLatestUnsynced(ctx context.Context, destinationPartID uuid.UUID) (*PartHistory, error)

	// FindForPart lists history for a part, newest first
	FindForPart(ctx context.Context, destinationPartID uuid.UUID, limit int) ([]PartHistory, error)
}

// ExecutionRunRepository defines the interface for run persistence
type ExecutionRunRepository interface {
	// Save creates or updates a run
	Save(ctx context.Context, run *ExecutionRun) error

	// FindByID finds a run by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ExecutionRun, error)

	// FindRecent lists the most recent runs for a destination
	FindRecent(ctx context.Context, destinationID uuid.UUID, limit int) ([]ExecutionRun, error)
}

// CategoryRepository defines the interface for the category cache
type CategoryRepository interface {
	// Save creates or updates a cached category
	Save(ctx context.Context, c *Category) error

	// FindByKey looks a category up by its natural key
	FindByKey(ctx context.Context, destinationID uuid.UUID, name string, parentID, treeID int64) (*Category, error)

	// FindForDestination lists all cached categories for a destination
	FindForDestination(ctx context.Context, destinationID uuid.UUID) ([]Category, error)

	// Delete removes a cached category
	Delete(ctx context.Context, id uuid.UUID) error
}

// DestinationBrandRepository defines the interface for brand mappings
type DestinationBrandRepository interface {
	// Save creates or updates a mapping
	Save(ctx context.Context, b *DestinationBrand) error

	// FindByBrand finds the mapping for a brand on a destination
	FindByBrand(ctx context.Context, destinationID, brandID uuid.UUID) (*DestinationBrand, error)

	// FindForDestination lists all brand mappings for a destination
	FindForDestination(ctx context.Context, destinationID uuid.UUID) ([]DestinationBrand, error)
}
