package provider

import (
	"strings"

	"github.com/google/uuid"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/catalog"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
)

// Kind identifies the transport a provider is reached over.
type Kind string

const (
	// KindFeed is a file feed delivered over SFTP.
	KindFeed Kind = "FEED"
	// KindPartsAPI is a REST parts API with OAuth client credentials.
	KindPartsAPI Kind = "PARTS_API"
)

// Credentials holds the connection settings for a provider. Only the
// fields matching the provider kind are populated.
type Credentials struct {
	// REST providers
	BaseURL      string `json:"base_url,omitempty"`
	ClientID     string `json:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`

	// SFTP providers
	Host      string `json:"host,omitempty"`
	Port      int    `json:"port,omitempty"`
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
	RemoteDir string `json:"remote_dir,omitempty"`
}

// Provider is an upstream data source. Role decides which side of the
// merge its values land on; Priority breaks ties when a brand has more
// than one active provider for the same role (lowest wins).
type Provider struct {
	shared.BaseEntity
	Name        string             `gorm:"not null;uniqueIndex"`
	Role        catalog.SourceRole `gorm:"not null"`
	Kind        Kind               `gorm:"not null"`
	Priority    int                `gorm:"not null;default:0"`
	Active      bool               `gorm:"not null;default:true"`
	Credentials Credentials        `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (Provider) TableName() string {
	return "providers"
}

// NewProvider creates a provider after validating role and kind.
func NewProvider(name string, role catalog.SourceRole, kind Kind, creds Credentials) (*Provider, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "provider name cannot be empty")
	}
	if role != catalog.RoleCatalog && role != catalog.RoleDistributor {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "provider role must be CATALOG or DISTRIBUTOR")
	}
	if kind != KindFeed && kind != KindPartsAPI {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "provider kind must be FEED or PARTS_API")
	}
	return &Provider{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Role:        role,
		Kind:        kind,
		Active:      true,
		Credentials: creds,
	}, nil
}

// Brand is a parts manufacturer whose products flow through the engine.
type Brand struct {
	shared.BaseEntity
	Name        string `gorm:"not null;uniqueIndex"`
	AAIABrandID string
	LogoURL     string
	Active      bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Brand) TableName() string {
	return "brands"
}

// NewBrand creates an active brand.
func NewBrand(name string) (*Brand, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_BRAND", "brand name cannot be empty")
	}
	return &Brand{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Active:     true,
	}, nil
}

// BrandProvider links a brand to a provider and records the reference
// the provider uses for that brand (a feed brand code or a numeric
// brand id on the parts API).
type BrandProvider struct {
	shared.BaseEntity
	BrandID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_brand_provider"`
	ProviderID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_brand_provider"`
	ProviderBrandRef string    `gorm:"not null"`
	Active           bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (BrandProvider) TableName() string {
	return "brand_providers"
}
