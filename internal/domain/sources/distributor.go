package sources

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
)

// BoxDimension is one shipping box for a distributor item. Box 1 holds
// the dimensions used on the storefront.
type BoxDimension struct {
	BoxNumber int     `json:"box_number"`
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Weight    float64 `json:"weight"`
}

// DistributorItem is one item row from the parts API item listing.
type DistributorItem struct {
	shared.BaseEntity
	ProviderID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_distributor_item"`
	ExternalID    string    `gorm:"not null;uniqueIndex:idx_distributor_item"`
	PartNumber    string    `gorm:"not null;index"`
	MfrPartNumber string
	ProductName   string
	Category      string
	Subcategory   string
	BrandExtID    string `gorm:"index"`
	BrandName     string
	Barcode       string
	Active        bool           `gorm:"not null;default:false"`
	Dimensions    []BoxDimension `gorm:"type:jsonb;serializer:json"`
	Attributes    map[string]any `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (DistributorItem) TableName() string {
	return "distributor_items"
}

// ItemDescription is one typed description block from the item data
// endpoint.
type ItemDescription struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// FileLink is one downloadable rendition of a media file.
type FileLink struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// ItemFile is one typed media file from the item data endpoint.
type ItemFile struct {
	Type          string     `json:"type"`
	FileExtension string     `json:"file_extension"`
	MediaContent  string     `json:"media_content"`
	Links         []FileLink `json:"links"`
}

// DistributorItemData holds the media and description payload for one
// item.
type DistributorItemData struct {
	shared.BaseEntity
	ProviderID   uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_distributor_item_data"`
	ExternalID   string            `gorm:"not null;uniqueIndex:idx_distributor_item_data"`
	Descriptions []ItemDescription `gorm:"type:jsonb;serializer:json"`
	Files        []ItemFile        `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (DistributorItemData) TableName() string {
	return "distributor_item_data"
}

// Pricelist is one named price for an item.
type Pricelist struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// DistributorPricing holds all pricelists for one item.
type DistributorPricing struct {
	shared.BaseEntity
	ProviderID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_distributor_pricing"`
	ExternalID string      `gorm:"not null;uniqueIndex:idx_distributor_pricing"`
	Pricelists []Pricelist `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (DistributorPricing) TableName() string {
	return "distributor_pricing"
}

// PricelistByName returns the named pricelist if the item carries one.
func (p *DistributorPricing) PricelistByName(name string) (Pricelist, bool) {
	for _, pl := range p.Pricelists {
		if pl.Name == name {
			return pl, true
		}
	}
	return Pricelist{}, false
}

// DistributorInventory holds per-warehouse stock for one item.
type DistributorInventory struct {
	shared.BaseEntity
	ProviderID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_distributor_inventory"`
	ExternalID     string         `gorm:"not null;uniqueIndex:idx_distributor_inventory"`
	WarehouseStock map[string]int `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (DistributorInventory) TableName() string {
	return "distributor_inventory"
}

// Total sums stock across warehouses.
func (i *DistributorInventory) Total() int {
	total := 0
	for _, qty := range i.WarehouseStock {
		total += qty
	}
	return total
}

// DistributorBrand is one brand directory row from the parts API.
type DistributorBrand struct {
	shared.BaseEntity
	ProviderID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_distributor_brand"`
	ExternalID  string    `gorm:"not null;uniqueIndex:idx_distributor_brand"`
	Name        string    `gorm:"not null"`
	AAIABrandID string
	LogoURL     string
}

// TableName returns the table name for GORM
func (DistributorBrand) TableName() string {
	return "distributor_brands"
}
