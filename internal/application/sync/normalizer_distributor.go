package sync

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/catalog"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/sources"
)

// Pricelist names on the distributor side.
const (
	pricelistMAP    = "MAP"
	pricelistRetail = "Retail"
	pricelistJobber = "Jobber"
)

// jobberMarkup backs out a sell price when the distributor publishes
// only a jobber price: price = jobber / (1 - markup).
const jobberMarkup = 0.30

// Media content kinds never used as product images.
var excludedMediaContent = map[string]struct{}{
	"Photo - Close Up":       {},
	"Photo - Mounted":        {},
	"Photo - Unmounted":      {},
	"Photo - out of package": {},
	"Logo Image":             {},
}

const mediaPrimaryPhoto = "Photo - Primary"

// pcdbCategory keys the translation table below.
type pcdbCategory struct {
	Category    string
	Subcategory string
}

// pcdbCategoryMap translates the distributor's own category labels into
// the PCDB taxonomy the catalog feed uses, so parts from both sources
// land under the same storefront nodes. Pairs without an entry pass
// through unchanged.
var pcdbCategoryMap = map[pcdbCategory]pcdbCategory{
	{"Brakes", "Brake Pads"}:           {"Brake", "Brake Pad Set"},
	{"Brakes", "Brake Rotors"}:         {"Brake", "Brake Rotor"},
	{"Brakes", "Brake Kits"}:           {"Brake", "Brake Kit"},
	{"Suspension", "Coilovers"}:        {"Suspension", "Coil Over Kit"},
	{"Suspension", "Lowering Springs"}: {"Suspension", "Coil Spring Set"},
	{"Suspension", "Sway Bars"}:        {"Suspension", "Stabilizer Bar"},
	{"Exhaust", "Cat-Back Exhausts"}:   {"Exhaust", "Exhaust System Kit"},
	{"Exhaust", "Axle-Back Exhausts"}:  {"Exhaust", "Exhaust System Kit"},
	{"Exhaust", "Headers"}:             {"Exhaust", "Exhaust Header"},
	{"Intakes", "Cold Air Intakes"}:    {"Air and Fuel Delivery", "Air Intake Kit"},
	{"Intakes", "Air Filters"}:         {"Air and Fuel Delivery", "Air Filter"},
	{"Lighting", "Headlights"}:         {"Lighting", "Headlight Assembly"},
	{"Lighting", "Tail Lights"}:        {"Lighting", "Tail Light Assembly"},
	{"Exterior", "Fender Flares"}:      {"Body", "Fender Flare"},
	{"Exterior", "Running Boards"}:     {"Body", "Running Board"},
	{"Interior", "Floor Mats"}:         {"Interior", "Floor Mat Set"},
}

// mapToPCDBCategory resolves one distributor category pair to its PCDB
// equivalent. A pair missing either side is returned as delivered.
func mapToPCDBCategory(category, subcategory string) (string, string) {
	if category == "" || subcategory == "" {
		return category, subcategory
	}
	if mapped, ok := pcdbCategoryMap[pcdbCategory{category, subcategory}]; ok {
		return mapped.Category, mapped.Subcategory
	}
	return category, subcategory
}

// ErrIncompleteItem is returned when an item is missing the pricing or
// inventory rows required to sell it; the item is skipped, not failed.
type ErrIncompleteItem struct {
	ExternalID string
	Missing    string
}

// Error implements the error interface
func (e *ErrIncompleteItem) Error() string {
	return fmt.Sprintf("sync: item %s has no %s row", e.ExternalID, e.Missing)
}

// DistributorNormalizer turns raw distributor API rows into canonical
// parts.
type DistributorNormalizer struct {
	logger *zap.Logger
}

// NewDistributorNormalizer creates a distributor normalizer.
func NewDistributorNormalizer(logger *zap.Logger) *DistributorNormalizer {
	return &DistributorNormalizer{logger: logger.Named("distributor-normalizer")}
}

// Normalize maps one distributor item and its satellite rows to a
// part. Items without pricing or inventory cannot be sold and come
// back as ErrIncompleteItem.
func (n *DistributorNormalizer) Normalize(
	item sources.DistributorItem,
	data *sources.DistributorItemData,
	pricing *sources.DistributorPricing,
	inventory *sources.DistributorInventory,
) (catalog.Part, error) {
	if pricing == nil {
		return catalog.Part{}, &ErrIncompleteItem{ExternalID: item.ExternalID, Missing: "pricing"}
	}
	if inventory == nil {
		return catalog.Part{}, &ErrIncompleteItem{ExternalID: item.ExternalID, Missing: "inventory"}
	}

	part := catalog.Part{
		SKU:        item.PartNumber,
		PartNumber: item.MfrPartNumber,
		Brand:      item.BrandName,
		Title:      item.ProductName,
		UPC:        item.Barcode,
		Active:     catalog.BoolPtr(item.Active),
		Inventory:  catalog.IntPtr(inventory.Total()),
	}
	part.Category, part.Subcategory = mapToPCDBCategory(item.Category, item.Subcategory)

	n.applyPricing(&part, pricing)
	applyDimensions(&part, item.Dimensions)

	if data != nil {
		part.Description = BuildDescription(item, data)
		part.Images = selectImages(data.Files)
	}

	return part, nil
}

// applyPricing fills the price fields from the item's pricelists. MAP
// is the preferred sell price; a jobber-only item gets the standard
// markup backed out of the jobber price.
func (n *DistributorNormalizer) applyPricing(part *catalog.Part, pricing *sources.DistributorPricing) {
	if pl, ok := pricing.PricelistByName(pricelistRetail); ok {
		part.RetailPrice = catalog.DecimalPtr(pl.Price)
	}
	if pl, ok := pricing.PricelistByName(pricelistJobber); ok {
		part.CostPrice = catalog.DecimalPtr(pl.Price)
	}

	if pl, ok := pricing.PricelistByName(pricelistMAP); ok {
		part.Price = catalog.DecimalPtr(pl.Price)
		return
	}
	if pl, ok := pricing.PricelistByName(pricelistRetail); ok {
		part.Price = catalog.DecimalPtr(pl.Price)
		return
	}
	if pl, ok := pricing.PricelistByName(pricelistJobber); ok {
		marked := pl.Price.Div(decimal.NewFromFloat(1 - jobberMarkup)).Round(2)
		part.Price = catalog.DecimalPtr(marked)
		n.logger.Debug("derived sell price from jobber",
			zap.String("sku", part.SKU),
			zap.String("price", marked.String()),
		)
	}
}

// applyDimensions takes box 1 as the shipping box. The distributor
// reports weight in pounds; the storefront wants ounces.
func applyDimensions(part *catalog.Part, dims []sources.BoxDimension) {
	for _, box := range dims {
		if box.BoxNumber != 1 {
			continue
		}
		part.Weight = catalog.FloatPtr(box.Weight * 16)
		part.Length = catalog.FloatPtr(box.Length)
		part.Width = catalog.FloatPtr(box.Width)
		part.Height = catalog.FloatPtr(box.Height)
		return
	}
}

// selectImages picks product images from the media files. The primary
// photo becomes the thumbnail; failing that, the first image whose
// media content is not excluded.
func selectImages(files []sources.ItemFile) []catalog.Image {
	var images []catalog.Image
	for _, f := range files {
		if f.Type != "Image" || len(f.Links) == 0 {
			continue
		}
		if _, excluded := excludedMediaContent[f.MediaContent]; excluded {
			continue
		}
		images = append(images, catalog.Image{
			URL:         bestLink(f.Links),
			IsThumbnail: f.MediaContent == mediaPrimaryPhoto,
		})
	}
	if len(images) == 0 {
		return nil
	}

	// Exactly one thumbnail: keep the primary photo if there was one,
	// otherwise promote the first image.
	hasThumbnail := false
	for i := range images {
		if images[i].IsThumbnail {
			if hasThumbnail {
				images[i].IsThumbnail = false
			}
			hasThumbnail = true
		}
	}
	if !hasThumbnail {
		images[0].IsThumbnail = true
	}
	return images
}

// bestLink prefers the largest rendition.
func bestLink(links []sources.FileLink) string {
	best := links[0]
	for _, l := range links[1:] {
		if l.Width*l.Height > best.Width*best.Height {
			best = l
		}
	}
	return best.URL
}
