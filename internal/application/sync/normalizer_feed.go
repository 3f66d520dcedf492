package sync

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/catalog"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/sources"
)

// lifeCycleOrderable is the feed life cycle status for parts that can
// still be ordered; everything else is hidden on the storefront.
const lifeCycleOrderable = "Available To Order"

// FeedNormalizer turns raw catalog feed rows into canonical parts.
type FeedNormalizer struct {
	logger *zap.Logger
}

// NewFeedNormalizer creates a feed normalizer.
func NewFeedNormalizer(logger *zap.Logger) *FeedNormalizer {
	return &FeedNormalizer{logger: logger.Named("feed-normalizer")}
}

// Normalize maps one feed row plus its fitments to a part.
//
// The default price prefers MAP, then retail, then jobber. Cost is the
// jobber price and the compare-at price is retail. The storefront
// title carries the part number suffix so search matches either.
func (n *FeedNormalizer) Normalize(row sources.FeedPart, fitments []sources.FeedFitment) catalog.Part {
	part := catalog.Part{
		SKU:         row.SKU,
		PartNumber:  row.PartNumber,
		Brand:       row.BrandCode,
		UPC:         row.UPC,
		Category:    row.Category,
		Subcategory: row.Subcategory,
		Weight:      row.Weight,
		Length:      row.Length,
		Width:       row.Width,
		Height:      row.Height,
	}

	if row.Title != "" {
		part.Title = fmt.Sprintf("%s - %s", row.Title, row.PartNumber)
	}
	part.Description = row.Description

	switch {
	case row.PriceMAP != nil:
		part.Price = row.PriceMAP
	case row.PriceRetail != nil:
		part.Price = row.PriceRetail
	default:
		part.Price = row.PriceJobber
	}
	part.CostPrice = row.PriceJobber
	part.RetailPrice = row.PriceRetail

	part.Active = catalog.BoolPtr(row.LifeCycleStatus == lifeCycleOrderable)

	// Catalog-only brands sync with whatever quantity the feed reports;
	// a missing column means zero on hand, not unknown.
	if row.Inventory != nil {
		part.Inventory = row.Inventory
	} else {
		part.Inventory = catalog.IntPtr(0)
	}

	if row.ImageURL != "" {
		part.Images = []catalog.Image{{URL: row.ImageURL, IsThumbnail: true}}
	}

	names := make([]string, 0, len(row.Attributes))
	for name := range row.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if row.Attributes[name] == "" {
			continue
		}
		part.CustomFields = append(part.CustomFields, catalog.CustomField{Name: name, Value: row.Attributes[name]})
	}

	for _, f := range fitments {
		part.Fitments = append(part.Fitments, catalog.Fitment{
			Year:  f.Year,
			Make:  f.Make,
			Model: f.Model,
		})
	}

	return part
}
