package destination

import (
	"time"

	"github.com/google/uuid"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/catalog"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
)

// DestinationPart records what a part looked like the last time it was
// pushed to a destination. SourceData is the merged snapshot the change
// detector diffs against; DestinationData is the part as the storefront
// echoed it back, including external image and custom field ids needed
// for later reconciliation.
type DestinationPart struct {
	shared.BaseEntity
	DestinationID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_destination_sku"`
	BrandID         uuid.UUID      `gorm:"type:uuid;not null;index"`
	SKU             string         `gorm:"not null;uniqueIndex:idx_destination_sku"`
	ExternalID      int64          `gorm:"index"`
	SourceData      *catalog.Part  `gorm:"type:jsonb;serializer:json"`
	DestinationData map[string]any `gorm:"type:jsonb;serializer:json"`
	LastSyncedAt    *time.Time
}

// TableName returns the table name for GORM
func (DestinationPart) TableName() string {
	return "destination_parts"
}

// MarkSynced records a successful push of the given snapshot.
func (p *DestinationPart) MarkSynced(snapshot catalog.Part, externalID int64, echo map[string]any) {
	now := time.Now()
	p.SourceData = &snapshot
	p.DestinationData = echo
	p.ExternalID = externalID
	p.LastSyncedAt = &now
}

// PartHistory is one detected change set for a destination part. Rows
// are written with Synced=false when the detector finds a difference
// and flipped once the push succeeds, tagged with the run that did it.
type PartHistory struct {
	shared.BaseEntity
	DestinationPartID uuid.UUID                      `gorm:"type:uuid;not null;index"`
	Changes           map[string]catalog.FieldChange `gorm:"type:jsonb;serializer:json"`
	Synced            bool                           `gorm:"not null;default:false;index"`
	ExecutionRunID    *uuid.UUID                     `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (PartHistory) TableName() string {
	return "part_histories"
}

// NewPartHistory creates an unsynced history row for a detected change.
func NewPartHistory(destinationPartID uuid.UUID, changes map[string]catalog.FieldChange) *PartHistory {
	return &PartHistory{
		BaseEntity:        shared.NewBaseEntity(),
		DestinationPartID: destinationPartID,
		Changes:           changes,
	}
}

// MarkSynced flips the row after a successful push.
func (h *PartHistory) MarkSynced(runID uuid.UUID) {
	h.Synced = true
	h.ExecutionRunID = &runID
}

// Category caches a resolved storefront category so repeat syncs reuse
// the external id instead of re-creating the node.
type Category struct {
	shared.BaseEntity
	DestinationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_destination_category"`
	Name          string    `gorm:"not null;uniqueIndex:idx_destination_category"`
	ParentID      int64     `gorm:"not null;default:0;uniqueIndex:idx_destination_category"`
	TreeID        int64     `gorm:"not null;default:1;uniqueIndex:idx_destination_category"`
	ExternalID    int64     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "destination_categories"
}

// DestinationBrand maps a local brand to its storefront brand id.
type DestinationBrand struct {
	shared.BaseEntity
	DestinationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_destination_brand"`
	BrandID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_destination_brand"`
	ExternalID    int64     `gorm:"not null"`
	Name          string    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DestinationBrand) TableName() string {
	return "destination_brands"
}
