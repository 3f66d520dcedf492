package storefront

// Request and response payloads for the storefront catalog API. Only
// the fields the engine reads are declared; unrecognized keys in
// responses are ignored by the decoder.

// ProductImage is an image attached to a product.
type ProductImage struct {
	ID          int64  `json:"id,omitempty"`
	ProductID   int64  `json:"product_id,omitempty"`
	ImageURL    string `json:"image_url"`
	URLStandard string `json:"url_standard,omitempty"`
	IsThumbnail bool   `json:"is_thumbnail"`
	SortOrder   int    `json:"sort_order,omitempty"`
}

// CustomField is a name/value attribute attached to a product.
type CustomField struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Product is the storefront product payload, used both when writing
// and when reading.
type Product struct {
	ID                      int64          `json:"id,omitempty"`
	Name                    string         `json:"name"`
	Type                    string         `json:"type,omitempty"`
	SKU                     string         `json:"sku"`
	Description             string         `json:"description,omitempty"`
	Weight                  float64        `json:"weight"`
	Width                   float64        `json:"width,omitempty"`
	Depth                   float64        `json:"depth,omitempty"`
	Height                  float64        `json:"height,omitempty"`
	Price                   float64        `json:"price"`
	CostPrice               float64        `json:"cost_price,omitempty"`
	RetailPrice             float64        `json:"retail_price,omitempty"`
	UPC                     string         `json:"upc,omitempty"`
	InventoryLevel          int            `json:"inventory_level"`
	InventoryTracking       string         `json:"inventory_tracking,omitempty"`
	Availability            string         `json:"availability,omitempty"`
	AvailabilityDescription string         `json:"availability_description,omitempty"`
	BrandID                 int64          `json:"brand_id,omitempty"`
	Categories              []int64        `json:"categories,omitempty"`
	IsVisible               bool           `json:"is_visible"`
	Images                  []ProductImage `json:"images,omitempty"`
	CustomFields            []CustomField  `json:"custom_fields,omitempty"`
}

// Category is a storefront category tree node.
type Category struct {
	ID        int64  `json:"id,omitempty"`
	ParentID  int64  `json:"parent_id"`
	TreeID    int64  `json:"tree_id,omitempty"`
	Name      string `json:"name"`
	IsVisible bool   `json:"is_visible"`
}

// Brand is a storefront brand.
type Brand struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

// Pagination is the paging block of a list response.
type Pagination struct {
	Total       int `json:"total"`
	Count       int `json:"count"`
	PerPage     int `json:"per_page"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// Meta wraps pagination metadata on list responses.
type Meta struct {
	Pagination Pagination `json:"pagination"`
}

type productEnvelope struct {
	Data Product `json:"data"`
}

type productListEnvelope struct {
	Data []Product `json:"data"`
	Meta Meta      `json:"meta"`
}

type imageEnvelope struct {
	Data ProductImage `json:"data"`
}

type customFieldEnvelope struct {
	Data CustomField `json:"data"`
}

type categoryEnvelope struct {
	Data Category `json:"data"`
}

type categoryListEnvelope struct {
	Data []Category `json:"data"`
	Meta Meta       `json:"meta"`
}

type brandEnvelope struct {
	Data Brand `json:"data"`
}

type brandListEnvelope struct {
	Data []Brand `json:"data"`
	Meta Meta    `json:"meta"`
}
