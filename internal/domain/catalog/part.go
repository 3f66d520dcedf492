package catalog

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SourceRole identifies which side of a brand's provider pair a value
// came from.
type SourceRole string

const (
	// RoleCatalog is the provider supplying the descriptive catalog data.
	RoleCatalog SourceRole = "CATALOG"
	// RoleDistributor is the provider supplying commercial data such as
	// pricing and live inventory.
	RoleDistributor SourceRole = "DISTRIBUTOR"
)

// Image is a single product image. Weight within a part is carried by
// slice order; IsThumbnail marks the storefront thumbnail.
type Image struct {
	URL         string `json:"image_url"`
	IsThumbnail bool   `json:"is_thumbnail"`
}

// CustomField is a storefront name/value attribute pair.
type CustomField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Fitment is a single vehicle application for a part.
type Fitment struct {
	Year  int    `json:"year"`
	Make  string `json:"make"`
	Model string `json:"model"`
}

// Part is the canonical merged representation of a product, independent
// of any particular source or destination. Optional numeric fields are
// pointers so that an absent value can be told apart from a legitimate
// zero.
type Part struct {
	SKU         string `json:"sku"`
	Brand       string `json:"brand"`
	PartNumber  string `json:"part_number"`
	Title       string `json:"title"`
	Description string `json:"description"`
	UPC         string `json:"upc"`

	// Category and Subcategory are product classification labels; an
	// empty string means the source carried none.
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`

	Price       *decimal.Decimal `json:"price"`
	CostPrice   *decimal.Decimal `json:"cost_price"`
	RetailPrice *decimal.Decimal `json:"retail_price"`

	// Weight is in ounces; dimensions are in inches.
	Weight *float64 `json:"weight"`
	Length *float64 `json:"length"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`

	Inventory *int  `json:"inventory"`
	Active    *bool `json:"is_active"`

	Images       []Image       `json:"images"`
	CustomFields []CustomField `json:"custom_fields"`
	Fitments     []Fitment     `json:"fitments"`
}

// AvailabilityDescription derives the storefront availability text from
// the on-hand quantity. A nil inventory counts as zero.
func (p *Part) AvailabilityDescription() string {
	qty := 0
	if p.Inventory != nil {
		qty = *p.Inventory
	}
	switch {
	case qty >= 5:
		return "In Stock"
	case qty >= 1:
		return "Low (Live-Chat or Call For Stock)"
	default:
		return "Special Order (Live Chat or Call)"
	}
}

// SortedFitments returns the fitments ordered by year, make, model.
// Comparison and rendering are order-independent, so callers normalize
// through this before diffing or display.
func (p *Part) SortedFitments() []Fitment {
	out := make([]Fitment, len(p.Fitments))
	copy(out, p.Fitments)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Make != out[j].Make {
			return out[i].Make < out[j].Make
		}
		return out[i].Model < out[j].Model
	})
	return out
}

// ImageURLs returns the set of image URLs in slice order.
func (p *Part) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.URL)
	}
	return urls
}

// FloatPtr, IntPtr, BoolPtr and DecimalPtr are small helpers for
// building parts from normalized source rows.
func FloatPtr(v float64) *float64 { return &v }

func IntPtr(v int) *int { return &v }

func BoolPtr(v bool) *bool { return &v }

func DecimalPtr(v decimal.Decimal) *decimal.Decimal { return &v }
