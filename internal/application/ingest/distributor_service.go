package ingest

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/provider"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/sources"
	"github.com/Aiducco/aftermarketmonkey-be/internal/integration/partsapi"
)

// PartsAPI is the slice of the distributor client the ingestion
// services consume. Paginated calls return the next page number, zero
// when exhausted.
type PartsAPI interface {
	GetItems(ctx context.Context, brandID string, page int) ([]partsapi.Item, int, error)
	GetItemData(ctx context.Context, brandID string, page int) ([]partsapi.ItemData, int, error)
	GetPricing(ctx context.Context, brandID string, page int) ([]partsapi.Pricing, int, error)
	GetInventory(ctx context.Context, brandID string, page int) ([]partsapi.Inventory, int, error)
	GetItemUpdates(ctx context.Context, minutes, page int) ([]partsapi.Item, int, error)
	GetInventoryUpdates(ctx context.Context, minutes, page int) ([]partsapi.Inventory, int, error)
	GetBrands(ctx context.Context) ([]partsapi.Brand, error)
}

// OpenPartsAPIFunc opens a distributor client for a provider's
// credentials.
type OpenPartsAPIFunc func(creds provider.Credentials) PartsAPI

// OpenPartsAPI is the production OpenPartsAPIFunc.
func OpenPartsAPI(logger *zap.Logger) OpenPartsAPIFunc {
	return func(creds provider.Credentials) PartsAPI {
		return partsapi.NewClient(partsapi.Config{
			BaseURL:      creds.BaseURL,
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
		}, logger)
	}
}

// DistributorService ingests the distributor's paginated listings page
// by page, upserting each page before fetching the next so a failure
// partway through keeps what already landed.
type DistributorService struct {
	links     provider.BrandProviderRepository
	items     sources.DistributorItemRepository
	itemData  sources.DistributorItemDataRepository
	pricing   sources.DistributorPricingRepository
	inventory sources.DistributorInventoryRepository
	brands    sources.DistributorBrandRepository
	open      OpenPartsAPIFunc
	logger    *zap.Logger
}

// NewDistributorService creates a distributor ingestion service.
func NewDistributorService(
	links provider.BrandProviderRepository,
	items sources.DistributorItemRepository,
	itemData sources.DistributorItemDataRepository,
	pricing sources.DistributorPricingRepository,
	inventory sources.DistributorInventoryRepository,
	brands sources.DistributorBrandRepository,
	open OpenPartsAPIFunc,
	logger *zap.Logger,
) *DistributorService {
	return &DistributorService{
		links:     links,
		items:     items,
		itemData:  itemData,
		pricing:   pricing,
		inventory: inventory,
		brands:    brands,
		open:      open,
		logger:    logger.Named("distributor-ingest"),
	}
}

// IngestItems pulls all item pages for a brand.
func (s *DistributorService) IngestItems(ctx context.Context, p *provider.Provider, brand *provider.Brand) (int, error) {
	link, err := s.links.FindRef(ctx, brand.ID, p.ID)
	if err != nil {
		return 0, err
	}
	api := s.open(p.Credentials)

	total := 0
	for page := 1; page != 0; {
		items, next, err := api.GetItems(ctx, link.ProviderBrandRef, page)
		if err != nil {
			return total, err
		}
		rows := make([]sources.DistributorItem, 0, len(items))
		for _, item := range items {
			rows = append(rows, itemRow(p, item))
		}
		if err := s.items.UpsertBatch(ctx, rows); err != nil {
			return total, err
		}
		total += len(rows)
		page = next
	}

	s.logger.Info("ingested distributor items",
		zap.String("brand", brand.Name),
		zap.Int("rows", total),
	)
	return total, nil
}

// IngestItemData pulls all media and description pages for a brand.
func (s *DistributorService) IngestItemData(ctx context.Context, p *provider.Provider, brand *provider.Brand) (int, error) {
	link, err := s.links.FindRef(ctx, brand.ID, p.ID)
	if err != nil {
		return 0, err
	}
	api := s.open(p.Credentials)

	total := 0
	for page := 1; page != 0; {
		data, next, err := api.GetItemData(ctx, link.ProviderBrandRef, page)
		if err != nil {
			return total, err
		}
		rows := make([]sources.DistributorItemData, 0, len(data))
		for _, d := range data {
			rows = append(rows, itemDataRow(p, d))
		}
		if err := s.itemData.UpsertBatch(ctx, rows); err != nil {
			return total, err
		}
		total += len(rows)
		page = next
	}

	s.logger.Info("ingested distributor item data",
		zap.String("brand", brand.Name),
		zap.Int("rows", total),
	)
	return total, nil
}

// IngestPricing pulls all pricing pages for a brand.
func (s *DistributorService) IngestPricing(ctx context.Context, p *provider.Provider, brand *provider.Brand) (int, error) {
	link, err := s.links.FindRef(ctx, brand.ID, p.ID)
	if err != nil {
		return 0, err
	}
	api := s.open(p.Credentials)

	total := 0
	for page := 1; page != 0; {
		pricing, next, err := api.GetPricing(ctx, link.ProviderBrandRef, page)
		if err != nil {
			return total, err
		}
		rows := make([]sources.DistributorPricing, 0, len(pricing))
		for _, pr := range pricing {
			rows = append(rows, pricingRow(p, pr))
		}
		if err := s.pricing.UpsertBatch(ctx, rows); err != nil {
			return total, err
		}
		total += len(rows)
		page = next
	}

	s.logger.Info("ingested distributor pricing",
		zap.String("brand", brand.Name),
		zap.Int("rows", total),
	)
	return total, nil
}

// IngestInventory pulls all stock pages for a brand.
func (s *DistributorService) IngestInventory(ctx context.Context, p *provider.Provider, brand *provider.Brand) (int, error) {
	link, err := s.links.FindRef(ctx, brand.ID, p.ID)
	if err != nil {
		return 0, err
	}
	api := s.open(p.Credentials)

	total := 0
	for page := 1; page != 0; {
		inventory, next, err := api.GetInventory(ctx, link.ProviderBrandRef, page)
		if err != nil {
			return total, err
		}
		rows := make([]sources.DistributorInventory, 0, len(inventory))
		for _, inv := range inventory {
			rows = append(rows, inventoryRow(p, inv))
		}
		if err := s.inventory.UpsertBatch(ctx, rows); err != nil {
			return total, err
		}
		total += len(rows)
		page = next
	}

	s.logger.Info("ingested distributor inventory",
		zap.String("brand", brand.Name),
		zap.Int("rows", total),
	)
	return total, nil
}

// IngestItemUpdates pulls items changed in the trailing window, across
// all of the provider's brands. A cheap top-up between full pulls.
func (s *DistributorService) IngestItemUpdates(ctx context.Context, p *provider.Provider, minutes int) (int, error) {
	api := s.open(p.Credentials)

	total := 0
	for page := 1; page != 0; {
		items, next, err := api.GetItemUpdates(ctx, minutes, page)
		if err != nil {
			return total, err
		}
		rows := make([]sources.DistributorItem, 0, len(items))
		for _, item := range items {
			rows = append(rows, itemRow(p, item))
		}
		if err := s.items.UpsertBatch(ctx, rows); err != nil {
			return total, err
		}
		total += len(rows)
		page = next
	}

	s.logger.Info("ingested distributor item updates",
		zap.Int("window_minutes", minutes),
		zap.Int("rows", total),
	)
	return total, nil
}

// IngestInventoryUpdates pulls stock rows changed in the trailing
// window.
func (s *DistributorService) IngestInventoryUpdates(ctx context.Context, p *provider.Provider, minutes int) (int, error) {
	api := s.open(p.Credentials)

	total := 0
	for page := 1; page != 0; {
		inventory, next, err := api.GetInventoryUpdates(ctx, minutes, page)
		if err != nil {
			return total, err
		}
		rows := make([]sources.DistributorInventory, 0, len(inventory))
		for _, inv := range inventory {
			rows = append(rows, inventoryRow(p, inv))
		}
		if err := s.inventory.UpsertBatch(ctx, rows); err != nil {
			return total, err
		}
		total += len(rows)
		page = next
	}

	s.logger.Info("ingested distributor inventory updates",
		zap.Int("window_minutes", minutes),
		zap.Int("rows", total),
	)
	return total, nil
}

// IngestBrands refreshes the distributor's brand directory.
func (s *DistributorService) IngestBrands(ctx context.Context, p *provider.Provider) (int, error) {
	api := s.open(p.Credentials)

	brands, err := api.GetBrands(ctx)
	if err != nil {
		return 0, err
	}
	rows := make([]sources.DistributorBrand, 0, len(brands))
	for _, b := range brands {
		rows = append(rows, sources.DistributorBrand{
			BaseEntity:  shared.NewBaseEntity(),
			ProviderID:  p.ID,
			ExternalID:  b.ID,
			Name:        b.Attributes.Name,
			AAIABrandID: b.Attributes.AAIABrandID,
			LogoURL:     b.Attributes.Logo,
		})
	}
	if err := s.brands.UpsertBatch(ctx, rows); err != nil {
		return 0, err
	}

	s.logger.Info("ingested distributor brand directory", zap.Int("rows", len(rows)))
	return len(rows), nil
}

func itemRow(p *provider.Provider, item partsapi.Item) sources.DistributorItem {
	dims := make([]sources.BoxDimension, 0, len(item.Attributes.Dimensions))
	for _, d := range item.Attributes.Dimensions {
		dims = append(dims, sources.BoxDimension{
			BoxNumber: d.BoxNumber,
			Length:    d.Length,
			Width:     d.Width,
			Height:    d.Height,
			Weight:    d.Weight,
		})
	}
	return sources.DistributorItem{
		BaseEntity:    shared.NewBaseEntity(),
		ProviderID:    p.ID,
		ExternalID:    item.ID,
		PartNumber:    item.Attributes.PartNumber,
		MfrPartNumber: item.Attributes.MfrPartNumber,
		ProductName:   item.Attributes.ProductName,
		Category:      item.Attributes.Category,
		Subcategory:   item.Attributes.Subcategory,
		BrandExtID:    strconv.FormatInt(item.Attributes.BrandID, 10),
		BrandName:     item.Attributes.Brand,
		Barcode:       item.Attributes.Barcode,
		Active:        item.Attributes.Active,
		Dimensions:    dims,
	}
}

func itemDataRow(p *provider.Provider, data partsapi.ItemData) sources.DistributorItemData {
	descs := make([]sources.ItemDescription, 0, len(data.Attributes.Descriptions))
	for _, d := range data.Attributes.Descriptions {
		descs = append(descs, sources.ItemDescription{
			Type:        d.Type,
			Description: d.Description,
		})
	}
	files := make([]sources.ItemFile, 0, len(data.Attributes.Files))
	for _, f := range data.Attributes.Files {
		links := make([]sources.FileLink, 0, len(f.Links))
		for _, l := range f.Links {
			links = append(links, sources.FileLink{URL: l.URL, Height: l.Height, Width: l.Width})
		}
		files = append(files, sources.ItemFile{
			Type:          f.Type,
			FileExtension: f.FileExtension,
			MediaContent:  f.MediaContent,
			Links:         links,
		})
	}
	return sources.DistributorItemData{
		BaseEntity:   shared.NewBaseEntity(),
		ProviderID:   p.ID,
		ExternalID:   data.ID,
		Descriptions: descs,
		Files:        files,
	}
}

func pricingRow(p *provider.Provider, pricing partsapi.Pricing) sources.DistributorPricing {
	lists := make([]sources.Pricelist, 0, len(pricing.Attributes.Pricelists))
	for _, pl := range pricing.Attributes.Pricelists {
		lists = append(lists, sources.Pricelist{
			Name:  pl.Name,
			Price: decimal.NewFromFloat(pl.Price),
		})
	}
	return sources.DistributorPricing{
		BaseEntity: shared.NewBaseEntity(),
		ProviderID: p.ID,
		ExternalID: pricing.ID,
		Pricelists: lists,
	}
}

func inventoryRow(p *provider.Provider, inv partsapi.Inventory) sources.DistributorInventory {
	stock := make(map[string]int, len(inv.Attributes.Inventory)+1)
	for warehouse, qty := range inv.Attributes.Inventory {
		stock[warehouse] = qty
	}
	if inv.Attributes.Manufacturer.Stock > 0 {
		stock["manufacturer"] = inv.Attributes.Manufacturer.Stock
	}
	return sources.DistributorInventory{
		BaseEntity:     shared.NewBaseEntity(),
		ProviderID:     p.ID,
		ExternalID:     inv.ID,
		WarehouseStock: stock,
	}
}
