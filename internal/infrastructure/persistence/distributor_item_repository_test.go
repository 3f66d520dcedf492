package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/sources"
)

func distributorItemRow(providerID uuid.UUID, externalID, partNumber string, active bool) sources.DistributorItem {
	return sources.DistributorItem{
		BaseEntity:  shared.NewBaseEntity(),
		ProviderID:  providerID,
		ExternalID:  externalID,
		PartNumber:  partNumber,
		ProductName: "Brake Pad",
		BrandExtID:  "18",
		Active:      active,
		Dimensions: []sources.BoxDimension{
			{BoxNumber: 1, Length: 10, Width: 5, Height: 3, Weight: 2.5},
		},
	}
}

func TestGormDistributorItemRepository_UpsertBatch(t *testing.T) {
	db := newTestDB(t, &sources.DistributorItem{})
	repo := NewGormDistributorItemRepository(db)
	ctx := context.Background()

	providerID := uuid.New()

	require.NoError(t, repo.UpsertBatch(ctx, []sources.DistributorItem{
		distributorItemRow(providerID, "1001", "HB100", true),
		distributorItemRow(providerID, "1002", "HB200", true),
	}))

	t.Run("round-trips box dimensions", func(t *testing.T) {
		item, err := repo.FindByPartNumber(ctx, providerID, "HB100")
		require.NoError(t, err)
		require.Len(t, item.Dimensions, 1)
		assert.Equal(t, 2.5, item.Dimensions[0].Weight)
	})

	t.Run("refreshes by external id", func(t *testing.T) {
		require.NoError(t, repo.UpsertBatch(ctx, []sources.DistributorItem{
			distributorItemRow(providerID, "1001", "HB100", false),
		}))

		items, err := repo.FindByBrandExtID(ctx, providerID, "18")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.False(t, items[0].Active)
	})

	t.Run("returns ErrNotFound for unknown part number", func(t *testing.T) {
		_, err := repo.FindByPartNumber(ctx, providerID, "MISSING")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormDistributorPricingRepository_UpsertBatch(t *testing.T) {
	db := newTestDB(t, &sources.DistributorPricing{})
	repo := NewGormDistributorPricingRepository(db)
	ctx := context.Background()

	providerID := uuid.New()

	pricing := sources.DistributorPricing{
		BaseEntity: shared.NewBaseEntity(),
		ProviderID: providerID,
		ExternalID: "1001",
		Pricelists: []sources.Pricelist{
			{Name: "MAP", Price: decimal.RequireFromString("44.99")},
			{Name: "Retail", Price: decimal.RequireFromString("59.99")},
		},
	}
	require.NoError(t, repo.UpsertBatch(ctx, []sources.DistributorPricing{pricing}))

	t.Run("round-trips pricelists", func(t *testing.T) {
		got, err := repo.FindByExternalID(ctx, providerID, "1001")
		require.NoError(t, err)

		mapPrice, ok := got.PricelistByName("MAP")
		require.True(t, ok)
		assert.True(t, mapPrice.Price.Equal(decimal.RequireFromString("44.99")))
	})

	t.Run("refresh replaces the pricelists", func(t *testing.T) {
		pricing.Pricelists = []sources.Pricelist{
			{Name: "MAP", Price: decimal.RequireFromString("42.00")},
		}
		pricing.BaseEntity = shared.NewBaseEntity()
		require.NoError(t, repo.UpsertBatch(ctx, []sources.DistributorPricing{pricing}))

		got, err := repo.FindByExternalID(ctx, providerID, "1001")
		require.NoError(t, err)
		require.Len(t, got.Pricelists, 1)
	})
}

func TestGormDistributorInventoryRepository_UpsertBatch(t *testing.T) {
	db := newTestDB(t, &sources.DistributorInventory{})
	repo := NewGormDistributorInventoryRepository(db)
	ctx := context.Background()

	providerID := uuid.New()

	inventory := sources.DistributorInventory{
		BaseEntity: shared.NewBaseEntity(),
		ProviderID: providerID,
		ExternalID: "1001",
		WarehouseStock: map[string]int{
			"59": 3, "01": 4, "manufacturer": 10,
		},
	}
	require.NoError(t, repo.UpsertBatch(ctx, []sources.DistributorInventory{inventory}))

	t.Run("sums stock across warehouses", func(t *testing.T) {
		got, err := repo.FindByExternalID(ctx, providerID, "1001")
		require.NoError(t, err)
		assert.Equal(t, 17, got.Total())
	})
}

func TestGormDistributorBrandRepository_UpsertBatch(t *testing.T) {
	db := newTestDB(t, &sources.DistributorBrand{})
	repo := NewGormDistributorBrandRepository(db)
	ctx := context.Background()

	providerID := uuid.New()

	require.NoError(t, repo.UpsertBatch(ctx, []sources.DistributorBrand{{
		BaseEntity: shared.NewBaseEntity(),
		ProviderID: providerID,
		ExternalID: "18",
		Name:       "Hawk Performance",
	}}))

	t.Run("finds the directory row by name", func(t *testing.T) {
		brand, err := repo.FindByName(ctx, providerID, "Hawk Performance")
		require.NoError(t, err)
		assert.Equal(t, "18", brand.ExternalID)
	})

	t.Run("returns ErrNotFound for unknown brand", func(t *testing.T) {
		_, err := repo.FindByName(ctx, providerID, "nobody")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
