package sync

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/catalog"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/destination"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
	"github.com/Aiducco/aftermarketmonkey-be/internal/integration/storefront"
)

const (
	vehiclesRootName = "Vehicles"
	shopAllName      = "Shop All"
	defaultTreeID    = int64(1)
)

// CategoryResolver resolves category names to storefront category ids,
// creating missing nodes on demand. Resolution is cache-then-create
// against the local category table, so repeat syncs reuse ids instead
// of spawning duplicate trees. A single resolver is shared by all
// workers of a run; the lock keeps create-or-get atomic between them.
type CategoryResolver struct {
	categories destination.CategoryRepository
	api        StorefrontAPI
	logger     *zap.Logger

	mu sync.Mutex
}

// NewCategoryResolver creates a category resolver.
func NewCategoryResolver(categories destination.CategoryRepository, api StorefrontAPI, logger *zap.Logger) *CategoryResolver {
	return &CategoryResolver{
		categories: categories,
		api:        api,
		logger:     logger.Named("categories"),
	}
}

// Resolve returns the storefront id for a category under the given
// parent, creating it remotely on a cache miss.
func (r *CategoryResolver) Resolve(ctx context.Context, destinationID uuid.UUID, name string, parentID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cached, err := r.categories.FindByKey(ctx, destinationID, name, parentID, defaultTreeID)
	if err == nil {
		return cached.ExternalID, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return 0, err
	}

	created, err := r.api.CreateCategory(ctx, storefront.Category{
		Name:      name,
		ParentID:  parentID,
		TreeID:    defaultTreeID,
		IsVisible: true,
	})
	if err != nil {
		return 0, err
	}

	r.logger.Info("created storefront category",
		zap.String("name", name),
		zap.Int64("parent_id", parentID),
		zap.Int64("external_id", created.ID),
	)

	entry := &destination.Category{
		BaseEntity:    shared.NewBaseEntity(),
		DestinationID: destinationID,
		Name:          name,
		ParentID:      parentID,
		TreeID:        defaultTreeID,
		ExternalID:    created.ID,
	}
	if err := r.categories.Save(ctx, entry); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// VehicleCategories resolves the Vehicles > Year > Make > Model chain
// for every distinct fitment and returns the model-level ids.
func (r *CategoryResolver) VehicleCategories(ctx context.Context, destinationID uuid.UUID, fitments []catalog.Fitment) ([]int64, error) {
	if len(fitments) == 0 {
		return nil, nil
	}

	root, err := r.Resolve(ctx, destinationID, vehiclesRootName, 0)
	if err != nil {
		return nil, err
	}

	seen := make(map[catalog.Fitment]struct{})
	idSeen := make(map[int64]struct{})
	var ids []int64
	for _, f := range (&catalog.Part{Fitments: fitments}).SortedFitments() {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}

		yearID, err := r.Resolve(ctx, destinationID, strconv.Itoa(f.Year), root)
		if err != nil {
			return nil, err
		}
		makeID, err := r.Resolve(ctx, destinationID, f.Make, yearID)
		if err != nil {
			return nil, err
		}
		modelID, err := r.Resolve(ctx, destinationID, f.Model, makeID)
		if err != nil {
			return nil, err
		}
		if _, dup := idSeen[modelID]; !dup {
			idSeen[modelID] = struct{}{}
			ids = append(ids, modelID)
		}
	}
	return ids, nil
}

// CategoriesFor returns the full category assignment for a part: its
// product category and subcategory, the model-level vehicle categories,
// and the catch-all bucket every part lands in, deduplicated in that
// order.
func (r *CategoryResolver) CategoriesFor(ctx context.Context, destinationID uuid.UUID, part catalog.Part) ([]int64, error) {
	var ids []int64
	seen := make(map[int64]struct{})
	add := func(id int64) {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	// The subcategory nests under its category; a subcategory without a
	// category has nowhere to hang and is skipped.
	if part.Category != "" {
		categoryID, err := r.Resolve(ctx, destinationID, part.Category, 0)
		if err != nil {
			return nil, err
		}
		add(categoryID)
		if part.Subcategory != "" {
			subID, err := r.Resolve(ctx, destinationID, part.Subcategory, categoryID)
			if err != nil {
				return nil, err
			}
			add(subID)
		}
	}

	vehicleIDs, err := r.VehicleCategories(ctx, destinationID, part.Fitments)
	if err != nil {
		return nil, err
	}
	for _, id := range vehicleIDs {
		add(id)
	}

	shopAll, err := r.Resolve(ctx, destinationID, shopAllName, 0)
	if err != nil {
		return nil, err
	}
	add(shopAll)
	return ids, nil
}

// ReconcileResult summarizes one wholesale reconcile of the local
// category cache against the storefront.
type ReconcileResult struct {
	Fetched int
	Created int
	Updated int
	Deleted int
}

const reconcilePageSize = 250

// ReconcileCategories replaces the cache's view of a destination with
// the storefront's live category list. Categories present remotely but
// not cached are inserted; a cached row whose natural key matches a
// remote category under a different id is repointed; cached rows for
// categories deleted remotely are dropped. Run this before a sync so
// resolution never trusts stale ids.
func (r *CategoryResolver) ReconcileCategories(ctx context.Context, destinationID uuid.UUID) (ReconcileResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result ReconcileResult
	remote := make(map[int64]struct{})

	for page := 1; ; page++ {
		categories, meta, err := r.api.ListCategories(ctx, page, reconcilePageSize)
		if err != nil {
			return result, err
		}
		for _, c := range categories {
			remote[c.ID] = struct{}{}
			result.Fetched++

			cached, err := r.categories.FindByKey(ctx, destinationID, c.Name, c.ParentID, c.TreeID)
			switch {
			case err == nil:
				if cached.ExternalID == c.ID {
					continue
				}
				cached.ExternalID = c.ID
				if err := r.categories.Save(ctx, cached); err != nil {
					return result, err
				}
				result.Updated++
			case errors.Is(err, shared.ErrNotFound):
				entry := &destination.Category{
					BaseEntity:    shared.NewBaseEntity(),
					DestinationID: destinationID,
					Name:          c.Name,
					ParentID:      c.ParentID,
					TreeID:        c.TreeID,
					ExternalID:    c.ID,
				}
				if err := r.categories.Save(ctx, entry); err != nil {
					return result, err
				}
				result.Created++
			default:
				return result, err
			}
		}
		if page >= meta.Pagination.TotalPages {
			break
		}
	}

	cached, err := r.categories.FindForDestination(ctx, destinationID)
	if err != nil {
		return result, err
	}
	for _, c := range cached {
		if _, live := remote[c.ExternalID]; live {
			continue
		}
		if err := r.categories.Delete(ctx, c.ID); err != nil {
			return result, err
		}
		result.Deleted++
	}

	r.logger.Info("reconciled category cache",
		zap.String("destination_id", destinationID.String()),
		zap.Int("fetched", result.Fetched),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("deleted", result.Deleted),
	)
	return result, nil
}
