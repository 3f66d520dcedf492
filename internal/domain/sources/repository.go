package sources

import (
	"context"

	"github.com/google/uuid"
)

// FeedPartRepository defines the interface for raw feed product rows
type FeedPartRepository interface {
	// UpsertBatch inserts or refreshes rows keyed by (provider, sku)
	UpsertBatch(ctx context.Context, rows []FeedPart) error

	// FindByBrandCode lists rows for one brand code on a provider
	FindByBrandCode(ctx context.Context, providerID uuid.UUID, brandCode string) ([]FeedPart, error)
}

// FeedFitmentRepository defines the interface for raw fitment rows
type FeedFitmentRepository interface {
	// UpsertBatch inserts rows, ignoring duplicates of the natural key
	UpsertBatch(ctx context.Context, rows []FeedFitment) error

	// FindBySKU lists fitments for one SKU on a provider
	FindBySKU(ctx context.Context, providerID uuid.UUID, sku string) ([]FeedFitment, error)
}

// DistributorItemRepository defines the interface for distributor items
type DistributorItemRepository interface {
	// UpsertBatch inserts or refreshes rows keyed by (provider, external id)
	UpsertBatch(ctx context.Context, rows []DistributorItem) error

	// FindByBrandExtID lists items for one distributor brand id
	FindByBrandExtID(ctx context.Context, providerID uuid.UUID, brandExtID string) ([]DistributorItem, error)

	// FindByPartNumber finds an item by manufacturer part number
	FindByPartNumber(ctx context.Context, providerID uuid.UUID, partNumber string) (*DistributorItem, error)
}

// DistributorItemDataRepository defines the interface for item media payloads
type DistributorItemDataRepository interface {
	// UpsertBatch inserts or refreshes rows keyed by (provider, external id)
	UpsertBatch(ctx context.Context, rows []DistributorItemData) error

	// FindByExternalID finds the payload for one item
	FindByExternalID(ctx context.Context, providerID uuid.UUID, externalID string) (*DistributorItemData, error)
}

// DistributorPricingRepository defines the interface for item pricelists
type DistributorPricingRepository interface {
	// UpsertBatch inserts or refreshes rows keyed by (provider, external id)
	UpsertBatch(ctx context.Context, rows []DistributorPricing) error

	// FindByExternalID finds the pricelists for one item
	FindByExternalID(ctx context.Context, providerID uuid.UUID, externalID string) (*DistributorPricing, error)
}

// DistributorInventoryRepository defines the interface for item stock
type DistributorInventoryRepository interface {
	// UpsertBatch inserts or refreshes rows keyed by (provider, external id)
	UpsertBatch(ctx context.Context, rows []DistributorInventory) error

	// FindByExternalID finds the stock row for one item
	FindByExternalID(ctx context.Context, providerID uuid.UUID, externalID string) (*DistributorInventory, error)
}

// DistributorBrandRepository defines the interface for the brand directory
type DistributorBrandRepository interface {
	// UpsertBatch inserts or refreshes rows keyed by (provider, external id)
	UpsertBatch(ctx context.Context, rows []DistributorBrand) error

	// FindByName finds a directory row by brand name
	FindByName(ctx context.Context, providerID uuid.UUID, name string) (*DistributorBrand, error)
}
