package sync

import (
	"encoding/json"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/catalog"
	"github.com/Aiducco/aftermarketmonkey-be/internal/integration/storefront"
)

// buildPayload maps a merged part onto the storefront product payload.
// Images and custom fields ride along only on create; updates
// reconcile them through their own endpoints.
func buildPayload(part catalog.Part, brandID int64, categories []int64, includeAttachments bool) storefront.Product {
	product := storefront.Product{
		Name:                    part.Title,
		Type:                    "physical",
		SKU:                     part.SKU,
		Description:             part.Description + fitmentTable(part.SortedFitments()),
		UPC:                     part.UPC,
		InventoryTracking:       "product",
		Availability:            "available",
		AvailabilityDescription: part.AvailabilityDescription(),
		BrandID:                 brandID,
		Categories:              categories,
		IsVisible:               part.Active != nil && *part.Active,
	}

	if part.Price != nil {
		product.Price, _ = part.Price.Float64()
	}
	if part.CostPrice != nil {
		product.CostPrice, _ = part.CostPrice.Float64()
	}
	if part.RetailPrice != nil {
		product.RetailPrice, _ = part.RetailPrice.Float64()
	}
	if part.Weight != nil {
		product.Weight = *part.Weight
	}
	if part.Length != nil {
		product.Depth = *part.Length
	}
	if part.Width != nil {
		product.Width = *part.Width
	}
	if part.Height != nil {
		product.Height = *part.Height
	}
	if part.Inventory != nil {
		product.InventoryLevel = *part.Inventory
	}

	if includeAttachments {
		for i, img := range part.Images {
			product.Images = append(product.Images, storefront.ProductImage{
				ImageURL:    img.URL,
				IsThumbnail: img.IsThumbnail,
				SortOrder:   i,
			})
		}
		for _, cf := range part.CustomFields {
			product.CustomFields = append(product.CustomFields, storefront.CustomField{
				Name:  cf.Name,
				Value: cf.Value,
			})
		}
	}

	return product
}

// toEcho flattens a storefront product into the snapshot map stored on
// the destination part.
func toEcho(product storefront.Product) map[string]any {
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

// fromEcho restores the typed product from a stored snapshot map.
func fromEcho(echo map[string]any) storefront.Product {
	if echo == nil {
		return storefront.Product{}
	}
	raw, err := json.Marshal(echo)
	if err != nil {
		return storefront.Product{}
	}
	var product storefront.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		return storefront.Product{}
	}
	return product
}
