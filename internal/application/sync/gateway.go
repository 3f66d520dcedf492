package sync

import (
	"context"

	"github.com/Aiducco/aftermarketmonkey-be/internal/integration/storefront"
)

// StorefrontAPI is the slice of the storefront client the sync layer
// depends on. The concrete client in integration/storefront satisfies
// it; tests substitute a fake.
type StorefrontAPI interface {
	CreateProduct(ctx context.Context, product storefront.Product) (storefront.Product, error)
	UpdateProduct(ctx context.Context, productID int64, product storefront.Product) (storefront.Product, error)
	GetProduct(ctx context.Context, productID int64) (storefront.Product, error)
	ListProducts(ctx context.Context, page, limit int) ([]storefront.Product, storefront.Meta, error)
	DeleteProducts(ctx context.Context, productIDs []int64) error

	CreateProductImage(ctx context.Context, productID int64, image storefront.ProductImage) (storefront.ProductImage, error)
	DeleteProductImage(ctx context.Context, productID, imageID int64) error

	CreateCustomField(ctx context.Context, productID int64, field storefront.CustomField) (storefront.CustomField, error)
	UpdateCustomField(ctx context.Context, productID int64, field storefront.CustomField) (storefront.CustomField, error)
	DeleteCustomField(ctx context.Context, productID, fieldID int64) error

	CreateCategory(ctx context.Context, category storefront.Category) (storefront.Category, error)
	ListCategories(ctx context.Context, page, limit int) ([]storefront.Category, storefront.Meta, error)

	CreateBrand(ctx context.Context, brand storefront.Brand) (storefront.Brand, error)
	ListBrands(ctx context.Context, page, limit int) ([]storefront.Brand, storefront.Meta, error)
}
