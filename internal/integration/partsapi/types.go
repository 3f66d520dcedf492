package partsapi

// Payloads for the parts distributor API. Resources follow the
// id/type/attributes envelope; only attributes the engine consumes are
// declared.

// Dimension is one shipping box on an item.
type Dimension struct {
	BoxNumber int     `json:"box_number"`
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Weight    float64 `json:"weight"`
}

// ItemAttributes is the attribute block of an item resource.
type ItemAttributes struct {
	ProductName     string      `json:"product_name"`
	PartNumber      string      `json:"part_number"`
	MfrPartNumber   string      `json:"mfr_part_number"`
	PartDescription string      `json:"part_description"`
	Category        string      `json:"category"`
	Subcategory     string      `json:"subcategory"`
	Brand           string      `json:"brand"`
	BrandID         int64       `json:"brand_id"`
	Active          bool        `json:"active"`
	RegularStock    bool        `json:"regular_stock"`
	Barcode         string      `json:"barcode"`
	Thumbnail       string      `json:"thumbnail"`
	Dimensions      []Dimension `json:"dimensions"`
}

// Item is one item resource.
type Item struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Attributes ItemAttributes `json:"attributes"`
}

// MediaLink is one rendition of a media file.
type MediaLink struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// MediaFile is one typed file attached to an item.
type MediaFile struct {
	Type          string      `json:"type"`
	FileExtension string      `json:"file_extension"`
	MediaContent  string      `json:"media_content"`
	Links         []MediaLink `json:"links"`
}

// Description is one typed description block.
type Description struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ItemDataAttributes is the attribute block of an item data resource.
type ItemDataAttributes struct {
	Descriptions []Description `json:"descriptions"`
	Files        []MediaFile   `json:"files"`
}

// ItemData is one item data resource keyed by the item id.
type ItemData struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Attributes ItemDataAttributes `json:"attributes"`
}

// Pricelist is one named price on an item.
type Pricelist struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// PricingAttributes is the attribute block of a pricing resource.
type PricingAttributes struct {
	PurchaseCost float64     `json:"purchase_cost"`
	Pricelists   []Pricelist `json:"pricelists"`
}

// Pricing is one pricing resource keyed by the item id.
type Pricing struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Attributes PricingAttributes `json:"attributes"`
}

// InventoryAttributes is the attribute block of an inventory resource.
// Warehouse stock is keyed by location id.
type InventoryAttributes struct {
	Inventory    map[string]int `json:"inventory"`
	Manufacturer struct {
		Stock int `json:"stock"`
	} `json:"manufacturer"`
}

// Inventory is one inventory resource keyed by the item id.
type Inventory struct {
	ID         string              `json:"id"`
	Type       string              `json:"type"`
	Attributes InventoryAttributes `json:"attributes"`
}

// BrandAttributes is the attribute block of a brand resource.
type BrandAttributes struct {
	Name        string `json:"name"`
	AAIABrandID string `json:"AAIA_brand_id"`
	Logo        string `json:"logo"`
}

// Brand is one brand directory resource.
type Brand struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Attributes BrandAttributes `json:"attributes"`
}

// Meta carries pagination state on list responses.
type Meta struct {
	TotalPages int `json:"total_pages"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type listEnvelope[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}
