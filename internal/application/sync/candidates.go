package sync

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/catalog"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/provider"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/sources"
)

// CandidateBuilder assembles the merged sync candidates for a brand:
// normalize the catalog provider's rows, normalize the distributor
// provider's rows, merge per SKU.
type CandidateBuilder struct {
	providers    provider.ProviderRepository
	links        provider.BrandProviderRepository
	feedParts    sources.FeedPartRepository
	feedFitments sources.FeedFitmentRepository
	items        sources.DistributorItemRepository
	itemData     sources.DistributorItemDataRepository
	pricing      sources.DistributorPricingRepository
	inventory    sources.DistributorInventoryRepository

	feedNorm *FeedNormalizer
	distNorm *DistributorNormalizer
	logger   *zap.Logger
}

// NewCandidateBuilder creates a candidate builder.
func NewCandidateBuilder(
	providers provider.ProviderRepository,
	links provider.BrandProviderRepository,
	feedParts sources.FeedPartRepository,
	feedFitments sources.FeedFitmentRepository,
	items sources.DistributorItemRepository,
	itemData sources.DistributorItemDataRepository,
	pricing sources.DistributorPricingRepository,
	inventory sources.DistributorInventoryRepository,
	logger *zap.Logger,
) *CandidateBuilder {
	return &CandidateBuilder{
		providers:    providers,
		links:        links,
		feedParts:    feedParts,
		feedFitments: feedFitments,
		items:        items,
		itemData:     itemData,
		pricing:      pricing,
		inventory:    inventory,
		feedNorm:     NewFeedNormalizer(logger),
		distNorm:     NewDistributorNormalizer(logger),
		logger:       logger.Named("candidates"),
	}
}

// Build returns the merged candidates for a brand, ordered by SKU.
// The catalog provider is the base: a SKU the catalog side does not
// carry is never pushed, however much the distributor knows about it.
// When a brand has several active providers for a role the lowest
// priority value wins.
func (b *CandidateBuilder) Build(ctx context.Context, brand *provider.Brand) ([]catalog.Part, error) {
	catalogParts, err := b.partsForRole(ctx, brand, catalog.RoleCatalog)
	if err != nil {
		return nil, err
	}

	distributorParts, err := b.partsForRole(ctx, brand, catalog.RoleDistributor)
	if err != nil {
		if !errors.Is(err, shared.ErrNoActiveProvider) {
			return nil, err
		}
		// A catalog-only brand is fine; candidates pass through
		// unmerged.
		distributorParts = nil
	}

	skus := make([]string, 0, len(catalogParts))
	for sku := range catalogParts {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	candidates := make([]catalog.Part, 0, len(skus))
	for _, sku := range skus {
		var distPart *catalog.Part
		if dp, ok := distributorParts[sku]; ok {
			distPart = &dp
		}
		candidates = append(candidates, catalog.Merge(catalogParts[sku], distPart))
	}

	b.logger.Info("built sync candidates",
		zap.String("brand", brand.Name),
		zap.Int("catalog_parts", len(catalogParts)),
		zap.Int("distributor_parts", len(distributorParts)),
	)
	return candidates, nil
}

// partsForRole picks the brand's provider for a role and normalizes
// its rows into parts keyed by SKU.
func (b *CandidateBuilder) partsForRole(ctx context.Context, brand *provider.Brand, role catalog.SourceRole) (map[string]catalog.Part, error) {
	candidates, err := b.providers.FindActiveForBrand(ctx, brand.ID, role)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, shared.ErrNoActiveProvider
	}
	chosen := candidates[0]

	link, err := b.links.FindRef(ctx, brand.ID, chosen.ID)
	if err != nil {
		return nil, fmt.Errorf("brand %s has no reference on provider %s: %w", brand.Name, chosen.Name, err)
	}

	switch chosen.Kind {
	case provider.KindFeed:
		return b.feedPartsFor(ctx, chosen, link.ProviderBrandRef)
	case provider.KindPartsAPI:
		return b.distributorPartsFor(ctx, chosen, link.ProviderBrandRef)
	default:
		return nil, shared.NewDomainError("INVALID_PROVIDER", "unknown provider kind "+string(chosen.Kind))
	}
}

func (b *CandidateBuilder) feedPartsFor(ctx context.Context, p provider.Provider, brandCode string) (map[string]catalog.Part, error) {
	rows, err := b.feedParts.FindByBrandCode(ctx, p.ID, brandCode)
	if err != nil {
		return nil, err
	}

	parts := make(map[string]catalog.Part, len(rows))
	for _, row := range rows {
		fitments, err := b.feedFitments.FindBySKU(ctx, p.ID, row.SKU)
		if err != nil {
			return nil, err
		}
		parts[row.SKU] = b.feedNorm.Normalize(row, fitments)
	}
	return parts, nil
}

func (b *CandidateBuilder) distributorPartsFor(ctx context.Context, p provider.Provider, brandExtID string) (map[string]catalog.Part, error) {
	items, err := b.items.FindByBrandExtID(ctx, p.ID, brandExtID)
	if err != nil {
		return nil, err
	}

	parts := make(map[string]catalog.Part, len(items))
	skipped := 0
	for _, item := range items {
		data, err := b.findItemData(ctx, p, item.ExternalID)
		if err != nil {
			return nil, err
		}
		pricing, err := b.findPricing(ctx, p, item.ExternalID)
		if err != nil {
			return nil, err
		}
		inventory, err := b.findInventory(ctx, p, item.ExternalID)
		if err != nil {
			return nil, err
		}

		part, err := b.distNorm.Normalize(item, data, pricing, inventory)
		if err != nil {
			var incomplete *ErrIncompleteItem
			if errors.As(err, &incomplete) {
				b.logger.Warn("skipping incomplete distributor item",
					zap.String("external_id", incomplete.ExternalID),
					zap.String("missing", incomplete.Missing),
				)
				skipped++
				continue
			}
			return nil, err
		}
		parts[part.SKU] = part
	}

	if skipped > 0 {
		b.logger.Info("skipped incomplete distributor items", zap.Int("count", skipped))
	}
	return parts, nil
}

func (b *CandidateBuilder) findItemData(ctx context.Context, p provider.Provider, externalID string) (*sources.DistributorItemData, error) {
	data, err := b.itemData.FindByExternalID(ctx, p.ID, externalID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return data, err
}

func (b *CandidateBuilder) findPricing(ctx context.Context, p provider.Provider, externalID string) (*sources.DistributorPricing, error) {
	pricing, err := b.pricing.FindByExternalID(ctx, p.ID, externalID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return pricing, err
}

func (b *CandidateBuilder) findInventory(ctx context.Context, p provider.Provider, externalID string) (*sources.DistributorInventory, error) {
	inventory, err := b.inventory.FindByExternalID(ctx, p.ID, externalID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return inventory, err
}
