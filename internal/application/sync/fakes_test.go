package sync

import (
	"context"
	"fmt"
	gosync "sync"

	"github.com/google/uuid"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/catalog"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/destination"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/provider"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/sources"
	"github.com/Aiducco/aftermarketmonkey-be/internal/integration/storefront"
)

// In-memory repositories and a scripted storefront backing the service
// tests.

type memDestParts struct {
	mu   gosync.Mutex
	rows map[string]*destination.DestinationPart
}

func newMemDestParts() *memDestParts {
	return &memDestParts{rows: make(map[string]*destination.DestinationPart)}
}

func destPartKey(destinationID uuid.UUID, sku string) string {
	return destinationID.String() + "/" + sku
}

func (m *memDestParts) Save(_ context.Context, p *destination.DestinationPart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.rows[destPartKey(p.DestinationID, p.SKU)] = &cp
	return nil
}

func (m *memDestParts) FindBySKU(_ context.Context, destinationID uuid.UUID, sku string) (*destination.DestinationPart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.rows[destPartKey(destinationID, sku)]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memDestParts) FindForDestination(_ context.Context, destinationID uuid.UUID) ([]destination.DestinationPart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []destination.DestinationPart
	for _, p := range m.rows {
		if p.DestinationID == destinationID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memDestParts) FindForBrand(_ context.Context, destinationID, brandID uuid.UUID) ([]destination.DestinationPart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []destination.DestinationPart
	for _, p := range m.rows {
		if p.DestinationID == destinationID && p.BrandID == brandID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memDestParts) DeleteByExternalIDs(_ context.Context, destinationID uuid.UUID, externalIDs []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	drop := make(map[int64]struct{}, len(externalIDs))
	for _, id := range externalIDs {
		drop[id] = struct{}{}
	}
	for key, p := range m.rows {
		if p.DestinationID != destinationID {
			continue
		}
		if _, gone := drop[p.ExternalID]; gone {
			delete(m.rows, key)
		}
	}
	return nil
}

type memHistories struct {
	mu   gosync.Mutex
	rows map[uuid.UUID]*destination.PartHistory
}

func newMemHistories() *memHistories {
	return &memHistories{rows: make(map[uuid.UUID]*destination.PartHistory)}
}

func (m *memHistories) Save(_ context.Context, h *destination.PartHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *h
	m.rows[h.ID] = &cp
	return nil
}

func (m *memHistories) FindLatestUnsynced(_ context.Context, destinationPartID uuid.UUID) (*destination.PartHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.rows {
		if h.DestinationPartID == destinationPartID && !h.Synced {
			cp := *h
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memHistories) FindForPart(_ context.Context, destinationPartID uuid.UUID, _ int) ([]destination.PartHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []destination.PartHistory
	for _, h := range m.rows {
		if h.DestinationPartID == destinationPartID {
			out = append(out, *h)
		}
	}
	return out, nil
}

type memRuns struct {
	mu   gosync.Mutex
	rows map[uuid.UUID]*destination.ExecutionRun
}

func newMemRuns() *memRuns {
	return &memRuns{rows: make(map[uuid.UUID]*destination.ExecutionRun)}
}

func (m *memRuns) Save(_ context.Context, run *destination.ExecutionRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *run
	m.rows[run.ID] = &cp
	return nil
}

func (m *memRuns) FindByID(_ context.Context, id uuid.UUID) (*destination.ExecutionRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run, ok := m.rows[id]; ok {
		cp := *run
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memRuns) FindRecent(_ context.Context, destinationID uuid.UUID, _ int) ([]destination.ExecutionRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []destination.ExecutionRun
	for _, run := range m.rows {
		if run.DestinationID == destinationID {
			out = append(out, *run)
		}
	}
	return out, nil
}

type memCategories struct {
	mu   gosync.Mutex
	rows []*destination.Category
}

func (m *memCategories) Save(_ context.Context, c *destination.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	for i, existing := range m.rows {
		if existing.ID == c.ID {
			m.rows[i] = &cp
			return nil
		}
	}
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memCategories) FindByKey(_ context.Context, destinationID uuid.UUID, name string, parentID, treeID int64) (*destination.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if c.DestinationID == destinationID && c.Name == name && c.ParentID == parentID && c.TreeID == treeID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memCategories) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	for _, c := range m.rows {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	m.rows = kept
	return nil
}

func (m *memCategories) FindForDestination(_ context.Context, destinationID uuid.UUID) ([]destination.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []destination.Category
	for _, c := range m.rows {
		if c.DestinationID == destinationID {
			out = append(out, *c)
		}
	}
	return out, nil
}

type memDestBrands struct {
	mu   gosync.Mutex
	rows []*destination.DestinationBrand
}

func (m *memDestBrands) Save(_ context.Context, b *destination.DestinationBrand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memDestBrands) FindForDestination(_ context.Context, destinationID uuid.UUID) ([]destination.DestinationBrand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []destination.DestinationBrand
	for _, b := range m.rows {
		if b.DestinationID == destinationID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memDestBrands) FindByBrand(_ context.Context, destinationID, brandID uuid.UUID) (*destination.DestinationBrand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.rows {
		if b.DestinationID == destinationID && b.BrandID == brandID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

// fakeStorefront is an in-memory storefront with injectable failures.
type fakeStorefront struct {
	mu     gosync.Mutex
	nextID int64

	products   map[int64]storefront.Product
	categories []storefront.Category
	calls      map[string]int

	// failCreateSKU makes CreateProduct fail for one SKU.
	failCreateSKU string
	// createErr overrides the error returned by failCreateSKU.
	createErr error
}

func newFakeStorefront() *fakeStorefront {
	return &fakeStorefront{
		nextID:   100,
		products: make(map[int64]storefront.Product),
		calls:    make(map[string]int),
	}
}

func (f *fakeStorefront) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeStorefront) record(name string) {
	f.calls[name]++
}

func (f *fakeStorefront) allocID() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStorefront) CreateProduct(_ context.Context, product storefront.Product) (storefront.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateProduct")
	if product.SKU == f.failCreateSKU && f.failCreateSKU != "" {
		err := f.createErr
		if err == nil {
			err = &storefront.APIError{StatusCode: 422, Body: "rejected"}
		}
		return storefront.Product{}, err
	}
	product.ID = f.allocID()
	for i := range product.Images {
		product.Images[i].ID = f.allocID()
		product.Images[i].ProductID = product.ID
	}
	for i := range product.CustomFields {
		product.CustomFields[i].ID = f.allocID()
	}
	f.products[product.ID] = product
	return product, nil
}

func (f *fakeStorefront) UpdateProduct(_ context.Context, productID int64, product storefront.Product) (storefront.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateProduct")
	existing, ok := f.products[productID]
	if !ok {
		return storefront.Product{}, storefront.ErrNotFound
	}
	product.ID = productID
	product.Images = existing.Images
	product.CustomFields = existing.CustomFields
	f.products[productID] = product
	return product, nil
}

func (f *fakeStorefront) GetProduct(_ context.Context, productID int64) (storefront.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetProduct")
	product, ok := f.products[productID]
	if !ok {
		return storefront.Product{}, storefront.ErrNotFound
	}
	return product, nil
}

func (f *fakeStorefront) ListProducts(_ context.Context, page, _ int) ([]storefront.Product, storefront.Meta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListProducts")
	var out []storefront.Product
	if page == 1 {
		for _, p := range f.products {
			out = append(out, p)
		}
	}
	return out, storefront.Meta{Pagination: storefront.Pagination{CurrentPage: page, TotalPages: 1}}, nil
}

func (f *fakeStorefront) DeleteProducts(_ context.Context, productIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteProducts")
	for _, id := range productIDs {
		delete(f.products, id)
	}
	return nil
}

func (f *fakeStorefront) CreateProductImage(_ context.Context, productID int64, image storefront.ProductImage) (storefront.ProductImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateProductImage")
	product, ok := f.products[productID]
	if !ok {
		return storefront.ProductImage{}, storefront.ErrNotFound
	}
	image.ID = f.allocID()
	image.ProductID = productID
	product.Images = append(product.Images, image)
	f.products[productID] = product
	return image, nil
}

func (f *fakeStorefront) DeleteProductImage(_ context.Context, productID, imageID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteProductImage")
	product := f.products[productID]
	kept := product.Images[:0]
	for _, img := range product.Images {
		if img.ID != imageID {
			kept = append(kept, img)
		}
	}
	product.Images = kept
	f.products[productID] = product
	return nil
}

func (f *fakeStorefront) CreateCustomField(_ context.Context, productID int64, field storefront.CustomField) (storefront.CustomField, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateCustomField")
	product, ok := f.products[productID]
	if !ok {
		return storefront.CustomField{}, storefront.ErrNotFound
	}
	field.ID = f.allocID()
	product.CustomFields = append(product.CustomFields, field)
	f.products[productID] = product
	return field, nil
}

func (f *fakeStorefront) UpdateCustomField(_ context.Context, productID int64, field storefront.CustomField) (storefront.CustomField, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateCustomField")
	product := f.products[productID]
	for i, cf := range product.CustomFields {
		if cf.ID == field.ID {
			product.CustomFields[i] = field
			f.products[productID] = product
			return field, nil
		}
	}
	return storefront.CustomField{}, storefront.ErrNotFound
}

func (f *fakeStorefront) DeleteCustomField(_ context.Context, productID, fieldID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteCustomField")
	product := f.products[productID]
	kept := product.CustomFields[:0]
	for _, cf := range product.CustomFields {
		if cf.ID != fieldID {
			kept = append(kept, cf)
		}
	}
	product.CustomFields = kept
	f.products[productID] = product
	return nil
}

func (f *fakeStorefront) CreateCategory(_ context.Context, category storefront.Category) (storefront.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateCategory")
	category.ID = f.allocID()
	if category.TreeID == 0 {
		category.TreeID = 1
	}
	f.categories = append(f.categories, category)
	return category, nil
}

func (f *fakeStorefront) ListCategories(_ context.Context, page, limit int) ([]storefront.Category, storefront.Meta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListCategories")
	totalPages := (len(f.categories) + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}
	start := (page - 1) * limit
	var out []storefront.Category
	if start < len(f.categories) {
		out = f.categories[start:min(start+limit, len(f.categories))]
	}
	return out, storefront.Meta{Pagination: storefront.Pagination{CurrentPage: page, TotalPages: totalPages}}, nil
}

func (f *fakeStorefront) CreateBrand(_ context.Context, brand storefront.Brand) (storefront.Brand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateBrand")
	brand.ID = f.allocID()
	return brand, nil
}

func (f *fakeStorefront) ListBrands(_ context.Context, page, _ int) ([]storefront.Brand, storefront.Meta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListBrands")
	return nil, storefront.Meta{Pagination: storefront.Pagination{CurrentPage: page, TotalPages: 1}}, nil
}

var _ StorefrontAPI = (*fakeStorefront)(nil)

// Source-side fakes for the candidate builder.

type memProviders struct {
	providers []provider.Provider
}

func (m *memProviders) Save(_ context.Context, _ *provider.Provider) error { return nil }

func (m *memProviders) FindByID(_ context.Context, id uuid.UUID) (*provider.Provider, error) {
	for _, p := range m.providers {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memProviders) FindByName(_ context.Context, name string) (*provider.Provider, error) {
	for _, p := range m.providers {
		if p.Name == name {
			cp := p
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memProviders) FindActiveForBrand(_ context.Context, _ uuid.UUID, role catalog.SourceRole) ([]provider.Provider, error) {
	var out []provider.Provider
	for _, p := range m.providers {
		if p.Active && p.Role == role {
			out = append(out, p)
		}
	}
	// Lowest priority first, mirroring the real repository ordering.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Priority < out[j-1].Priority; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

type memLinks struct {
	links []provider.BrandProvider
}

func (m *memLinks) Save(_ context.Context, _ *provider.BrandProvider) error { return nil }

func (m *memLinks) FindForBrand(_ context.Context, brandID uuid.UUID) ([]provider.BrandProvider, error) {
	var out []provider.BrandProvider
	for _, l := range m.links {
		if l.BrandID == brandID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memLinks) FindRef(_ context.Context, brandID, providerID uuid.UUID) (*provider.BrandProvider, error) {
	for _, l := range m.links {
		if l.BrandID == brandID && l.ProviderID == providerID {
			cp := l
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("link missing: %w", shared.ErrNotFound)
}

type memFeedParts struct {
	rows []sources.FeedPart
}

func (m *memFeedParts) UpsertBatch(_ context.Context, rows []sources.FeedPart) error {
	m.rows = append(m.rows, rows...)
	return nil
}

func (m *memFeedParts) FindByBrandCode(_ context.Context, providerID uuid.UUID, brandCode string) ([]sources.FeedPart, error) {
	var out []sources.FeedPart
	for _, r := range m.rows {
		if r.ProviderID == providerID && r.BrandCode == brandCode {
			out = append(out, r)
		}
	}
	return out, nil
}

type memFeedFitments struct {
	rows []sources.FeedFitment
}

func (m *memFeedFitments) UpsertBatch(_ context.Context, rows []sources.FeedFitment) error {
	m.rows = append(m.rows, rows...)
	return nil
}

func (m *memFeedFitments) FindBySKU(_ context.Context, providerID uuid.UUID, sku string) ([]sources.FeedFitment, error) {
	var out []sources.FeedFitment
	for _, r := range m.rows {
		if r.ProviderID == providerID && r.SKU == sku {
			out = append(out, r)
		}
	}
	return out, nil
}

type memItems struct {
	rows []sources.DistributorItem
}

func (m *memItems) UpsertBatch(_ context.Context, rows []sources.DistributorItem) error {
	m.rows = append(m.rows, rows...)
	return nil
}

func (m *memItems) FindByBrandExtID(_ context.Context, providerID uuid.UUID, brandExtID string) ([]sources.DistributorItem, error) {
	var out []sources.DistributorItem
	for _, r := range m.rows {
		if r.ProviderID == providerID && r.BrandExtID == brandExtID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memItems) FindByPartNumber(_ context.Context, providerID uuid.UUID, partNumber string) (*sources.DistributorItem, error) {
	for _, r := range m.rows {
		if r.ProviderID == providerID && r.PartNumber == partNumber {
			cp := r
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

type memItemData struct {
	rows []sources.DistributorItemData
}

func (m *memItemData) UpsertBatch(_ context.Context, rows []sources.DistributorItemData) error {
	m.rows = append(m.rows, rows...)
	return nil
}

func (m *memItemData) FindByExternalID(_ context.Context, providerID uuid.UUID, externalID string) (*sources.DistributorItemData, error) {
	for _, r := range m.rows {
		if r.ProviderID == providerID && r.ExternalID == externalID {
			cp := r
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

type memPricing struct {
	rows []sources.DistributorPricing
}

func (m *memPricing) UpsertBatch(_ context.Context, rows []sources.DistributorPricing) error {
	m.rows = append(m.rows, rows...)
	return nil
}

func (m *memPricing) FindByExternalID(_ context.Context, providerID uuid.UUID, externalID string) (*sources.DistributorPricing, error) {
	for _, r := range m.rows {
		if r.ProviderID == providerID && r.ExternalID == externalID {
			cp := r
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

type memInventory struct {
	rows []sources.DistributorInventory
}

func (m *memInventory) UpsertBatch(_ context.Context, rows []sources.DistributorInventory) error {
	m.rows = append(m.rows, rows...)
	return nil
}

func (m *memInventory) FindByExternalID(_ context.Context, providerID uuid.UUID, externalID string) (*sources.DistributorInventory, error) {
	for _, r := range m.rows {
		if r.ProviderID == providerID && r.ExternalID == externalID {
			cp := r
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}
