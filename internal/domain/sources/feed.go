package sources

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
)

// FeedPart is one raw product row from a catalog feed file, persisted
// as delivered so ingestion and normalization stay separate steps.
type FeedPart struct {
	shared.BaseEntity
	ProviderID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_feed_part"`
	SKU             string    `gorm:"not null;uniqueIndex:idx_feed_part"`
	BrandCode       string    `gorm:"not null;index"`
	PartNumber      string    `gorm:"not null"`
	Title           string
	UPC             string
	Category        string
	Subcategory     string
	LifeCycleStatus string
	Inventory       *int
	PriceMAP        *decimal.Decimal `gorm:"type:numeric(12,2)"`
	PriceRetail     *decimal.Decimal `gorm:"type:numeric(12,2)"`
	PriceJobber     *decimal.Decimal `gorm:"type:numeric(12,2)"`
	Weight          *float64
	Length          *float64
	Width           *float64
	Height          *float64
	Description     string
	ImageURL        string
	Attributes      map[string]string `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (FeedPart) TableName() string {
	return "feed_parts"
}

// FeedFitment is one raw vehicle application row from a fitment file.
type FeedFitment struct {
	shared.BaseEntity
	ProviderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_feed_fitment"`
	SKU        string    `gorm:"not null;uniqueIndex:idx_feed_fitment"`
	BrandCode  string    `gorm:"not null;uniqueIndex:idx_feed_fitment"`
	Year       int       `gorm:"not null;uniqueIndex:idx_feed_fitment"`
	Make       string    `gorm:"not null;uniqueIndex:idx_feed_fitment"`
	Model      string    `gorm:"not null;uniqueIndex:idx_feed_fitment"`
}

// TableName returns the table name for GORM
func (FeedFitment) TableName() string {
	return "feed_fitments"
}
