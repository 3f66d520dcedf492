package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/destination"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/provider"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
	"github.com/Aiducco/aftermarketmonkey-be/internal/integration/storefront"
)

const pullPageLimit = 250

// StorefrontLister is the read-only slice of the storefront client the
// pull service consumes.
type StorefrontLister interface {
	ListProducts(ctx context.Context, page, limit int) ([]storefront.Product, storefront.Meta, error)
	ListBrands(ctx context.Context, page, limit int) ([]storefront.Brand, storefront.Meta, error)
}

// StorefrontPullService seeds local state from an existing storefront:
// brand id mappings and product snapshots for catalogs that were pushed
// before this engine took over. Pulled snapshots carry no source data,
// so the next sync treats every field as changed and rewrites the
// product from the merged candidate.
type StorefrontPullService struct {
	api        StorefrontLister
	brands     provider.BrandRepository
	destParts  destination.DestinationPartRepository
	destBrands destination.DestinationBrandRepository
	logger     *zap.Logger
}

// NewStorefrontPullService creates a storefront pull service.
func NewStorefrontPullService(
	api StorefrontLister,
	brands provider.BrandRepository,
	destParts destination.DestinationPartRepository,
	destBrands destination.DestinationBrandRepository,
	logger *zap.Logger,
) *StorefrontPullService {
	return &StorefrontPullService{
		api:        api,
		brands:     brands,
		destParts:  destParts,
		destBrands: destBrands,
		logger:     logger.Named("storefront-pull"),
	}
}

// PullBrands walks the storefront brand list and records mappings for
// every brand that exists locally under the same name. Unknown brands
// are logged and left alone.
func (s *StorefrontPullService) PullBrands(ctx context.Context, dest *destination.Destination) (int, error) {
	mapped := 0
	unknown := 0
	for page := 1; ; page++ {
		brands, meta, err := s.api.ListBrands(ctx, page, pullPageLimit)
		if err != nil {
			return mapped, err
		}

		for _, b := range brands {
			local, err := s.brands.FindByName(ctx, strings.ToUpper(b.Name))
			if errors.Is(err, shared.ErrNotFound) {
				local, err = s.brands.FindByName(ctx, b.Name)
			}
			if errors.Is(err, shared.ErrNotFound) {
				unknown++
				s.logger.Warn("storefront brand has no local match", zap.String("name", b.Name))
				continue
			}
			if err != nil {
				return mapped, err
			}

			if err := s.saveBrandMapping(ctx, dest, local.ID, b); err != nil {
				return mapped, err
			}
			mapped++
		}

		if page >= meta.Pagination.TotalPages {
			break
		}
	}

	s.logger.Info("pulled storefront brands",
		zap.String("destination", dest.Name),
		zap.Int("mapped", mapped),
		zap.Int("unknown", unknown),
	)
	return mapped, nil
}

// PullProducts walks the storefront product list and upserts a snapshot
// row per SKU, capturing the external id and the product as the
// storefront holds it.
func (s *StorefrontPullService) PullProducts(ctx context.Context, dest *destination.Destination) (int, error) {
	brandByExternal, err := s.brandIndex(ctx, dest)
	if err != nil {
		return 0, err
	}

	pulled := 0
	skippedNoSKU := 0
	for page := 1; ; page++ {
		products, meta, err := s.api.ListProducts(ctx, page, pullPageLimit)
		if err != nil {
			return pulled, err
		}

		for _, product := range products {
			if product.SKU == "" {
				skippedNoSKU++
				continue
			}
			if err := s.saveSnapshot(ctx, dest, brandByExternal, product); err != nil {
				return pulled, err
			}
			pulled++
		}

		if page >= meta.Pagination.TotalPages {
			break
		}
	}

	s.logger.Info("pulled storefront products",
		zap.String("destination", dest.Name),
		zap.Int("pulled", pulled),
		zap.Int("skipped_no_sku", skippedNoSKU),
	)
	return pulled, nil
}

func (s *StorefrontPullService) saveBrandMapping(ctx context.Context, dest *destination.Destination, brandID uuid.UUID, b storefront.Brand) error {
	mapping, err := s.destBrands.FindByBrand(ctx, dest.ID, brandID)
	if errors.Is(err, shared.ErrNotFound) {
		mapping = &destination.DestinationBrand{
			BaseEntity:    shared.NewBaseEntity(),
			DestinationID: dest.ID,
			BrandID:       brandID,
		}
	} else if err != nil {
		return err
	}
	mapping.ExternalID = b.ID
	mapping.Name = b.Name
	return s.destBrands.Save(ctx, mapping)
}

func (s *StorefrontPullService) saveSnapshot(ctx context.Context, dest *destination.Destination, brandByExternal map[int64]uuid.UUID, product storefront.Product) error {
	snapshot, err := s.destParts.FindBySKU(ctx, dest.ID, product.SKU)
	if errors.Is(err, shared.ErrNotFound) {
		snapshot = &destination.DestinationPart{
			BaseEntity:    shared.NewBaseEntity(),
			DestinationID: dest.ID,
			SKU:           product.SKU,
		}
	} else if err != nil {
		return err
	}

	if brandID, ok := brandByExternal[product.BrandID]; ok {
		snapshot.BrandID = brandID
	}
	snapshot.ExternalID = product.ID
	snapshot.DestinationData = productEcho(product)
	return s.destParts.Save(ctx, snapshot)
}

// brandIndex maps storefront brand ids back to local brand ids.
func (s *StorefrontPullService) brandIndex(ctx context.Context, dest *destination.Destination) (map[int64]uuid.UUID, error) {
	mappings, err := s.destBrands.FindForDestination(ctx, dest.ID)
	if err != nil {
		return nil, err
	}
	index := make(map[int64]uuid.UUID, len(mappings))
	for _, m := range mappings {
		index[m.ExternalID] = m.BrandID
	}
	return index, nil
}

func productEcho(product storefront.Product) map[string]any {
	raw, err := json.Marshal(product)
	if err != nil {
		return nil
	}
	var echo map[string]any
	if err := json.Unmarshal(raw, &echo); err != nil {
		return nil
	}
	return echo
}
