package destination

import (
	"strings"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
)

// Destination is a storefront that merged parts are pushed to.
type Destination struct {
	shared.BaseEntity
	Name        string `gorm:"not null;uniqueIndex"`
	StoreHash   string `gorm:"not null"`
	AccessToken string `gorm:"not null"`
	ClientID    string
	Active      bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Destination) TableName() string {
	return "destinations"
}

// NewDestination creates an active destination.
func NewDestination(name, storeHash, accessToken string) (*Destination, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_DESTINATION", "destination name cannot be empty")
	}
	if strings.TrimSpace(storeHash) == "" {
		return nil, shared.NewDomainError("INVALID_DESTINATION", "destination store hash cannot be empty")
	}
	return &Destination{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		StoreHash:   storeHash,
		AccessToken: accessToken,
		Active:      true,
	}, nil
}
