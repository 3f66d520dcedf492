package provider

import (
	"context"

	"github.com/google/uuid"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/catalog"
)

// BrandRepository defines the interface for brand persistence
type BrandRepository interface {
	// Save creates or updates a brand
	Save(ctx context.Context, brand *Brand) error

	// FindByID finds a brand by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Brand, error)

	// FindByName finds a brand by its exact name
	FindByName(ctx context.Context, name string) (*Brand, error)

	// FindAllActive lists active brands ordered by name
	FindAllActive(ctx context.Context) ([]Brand, error)
}

// ProviderRepository defines the interface for provider persistence
type ProviderRepository interface {
	// Save creates or updates a provider
	Save(ctx context.Context, p *Provider) error

	// FindByID finds a provider by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Provider, error)

	// FindByName finds a provider by its unique name
	FindByName(ctx context.Context, name string) (*Provider, error)

	// FindActiveForBrand lists a brand's active providers for a role,
	// ordered by ascending priority
	FindActiveForBrand(ctx context.Context, brandID uuid.UUID, role catalog.SourceRole) ([]Provider, error)
}

// BrandProviderRepository defines the interface for brand/provider links
type BrandProviderRepository interface {
	// Save creates or updates a link
	Save(ctx context.Context, link *BrandProvider) error

	// FindForBrand lists all links for a brand
	FindForBrand(ctx context.Context, brandID uuid.UUID) ([]BrandProvider, error)

	// FindRef returns the provider-side brand reference for a brand and
	// provider pair
	FindRef(ctx context.Context, brandID, providerID uuid.UUID) (*BrandProvider, error)
}
