package sync

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	gosync "sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/catalog"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/destination"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/provider"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
	"github.com/Aiducco/aftermarketmonkey-be/internal/integration/storefront"
)

// Options tunes the push stage of a run.
type Options struct {
	// Workers is the number of parts pushed concurrently.
	Workers int
	// StaggerDelay is the upper bound of the random pause before each
	// push, spreading workers across the storefront's rate window.
	StaggerDelay time.Duration
}

// Service orchestrates one sync run: detect changes, then push
// creates and updates through a bounded worker pool while keeping the
// execution run's counters honest.
type Service struct {
	api        StorefrontAPI
	detector   *ChangeDetector
	resolver   *CategoryResolver
	destParts  destination.DestinationPartRepository
	histories  destination.PartHistoryRepository
	runs       destination.ExecutionRunRepository
	destBrands destination.DestinationBrandRepository
	logger     *zap.Logger
	opts       Options
}

// NewService creates a sync service.
func NewService(
	api StorefrontAPI,
	detector *ChangeDetector,
	resolver *CategoryResolver,
	destParts destination.DestinationPartRepository,
	histories destination.PartHistoryRepository,
	runs destination.ExecutionRunRepository,
	destBrands destination.DestinationBrandRepository,
	logger *zap.Logger,
	opts Options,
) *Service {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	return &Service{
		api:        api,
		detector:   detector,
		resolver:   resolver,
		destParts:  destParts,
		histories:  histories,
		runs:       runs,
		destBrands: destBrands,
		logger:     logger.Named("sync"),
		opts:       opts,
	}
}

// SyncBrand pushes a brand's merged candidates to a destination and
// returns the finished execution run. Per-part failures are isolated
// and counted; only rejected credentials or an error before the push
// stage fail the run itself.
func (s *Service) SyncBrand(ctx context.Context, dest *destination.Destination, brand *provider.Brand, candidates []catalog.Part) (*destination.ExecutionRun, error) {
	run := destination.NewExecutionRun(dest.ID)
	if err := s.runs.Save(ctx, run); err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		_ = run.Complete("no candidates")
		return run, s.runs.Save(ctx, run)
	}

	changes, err := s.detector.Detect(ctx, dest.ID, brand.ID, candidates)
	if err != nil {
		s.failRun(ctx, run, fmt.Sprintf("change detection: %v", err))
		return run, err
	}
	if len(changes) == 0 {
		_ = run.Complete("no changed products")
		return run, s.runs.Save(ctx, run)
	}

	brandExtID, err := s.ensureBrand(ctx, dest, brand)
	if err != nil {
		s.failRun(ctx, run, fmt.Sprintf("brand setup: %v", err))
		return run, err
	}

	created, updated, failed, fatal := s.push(ctx, dest, run, brandExtID, changes)

	run.Processed = len(changes)
	run.Created = created
	run.Updated = updated
	run.Failed = failed

	if fatal != nil {
		s.failRun(ctx, run, fatal.Error())
		return run, fatal
	}

	_ = run.Complete(fmt.Sprintf("created %d, updated %d, failed %d", created, updated, failed))
	if err := s.runs.Save(ctx, run); err != nil {
		return run, err
	}

	s.logger.Info("sync run finished",
		zap.String("destination", dest.Name),
		zap.String("brand", brand.Name),
		zap.Int("created", created),
		zap.Int("updated", updated),
		zap.Int("failed", failed),
	)
	return run, nil
}

// push fans the changes out over the worker pool. A credentials
// rejection cancels the pool; everything else is counted and moved
// past.
func (s *Service) push(ctx context.Context, dest *destination.Destination, run *destination.ExecutionRun, brandExtID int64, changes []Change) (created, updated, failed int, fatal error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan Change)
	var wg gosync.WaitGroup
	var mu gosync.Mutex

	for i := 0; i < s.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for change := range jobs {
				if ctx.Err() != nil {
					continue
				}
				s.stagger()

				isCreate := change.IsCreate()
				err := s.pushOne(ctx, dest, run, brandExtID, change)

				mu.Lock()
				switch {
				case err == nil && isCreate:
					created++
				case err == nil:
					updated++
				case errors.Is(err, storefront.ErrInvalidCredentials):
					if fatal == nil {
						fatal = err
					}
					cancel()
				default:
					failed++
					s.logger.Error("part sync failed",
						zap.String("sku", change.Part.SKU),
						zap.Error(err),
					)
				}
				mu.Unlock()
			}
		}()
	}

	for _, change := range changes {
		jobs <- change
	}
	close(jobs)
	wg.Wait()

	return created, updated, failed, fatal
}

func (s *Service) pushOne(ctx context.Context, dest *destination.Destination, run *destination.ExecutionRun, brandExtID int64, change Change) error {
	categories, err := s.resolver.CategoriesFor(ctx, dest.ID, change.Part)
	if err != nil {
		return err
	}
	if change.IsCreate() {
		return s.createPart(ctx, run, brandExtID, categories, change)
	}
	return s.updatePart(ctx, run, brandExtID, categories, change)
}

// createPart pushes a never-synced part with its full payload in one
// request.
func (s *Service) createPart(ctx context.Context, run *destination.ExecutionRun, brandExtID int64, categories []int64, change Change) error {
	payload := buildPayload(change.Part, brandExtID, categories, true)
	createdProduct, err := s.api.CreateProduct(ctx, payload)
	if err != nil {
		return err
	}
	return s.recordSuccess(ctx, run, change, createdProduct)
}

// updatePart rewrites the core fields, then reconciles custom fields
// and images against what the storefront already holds.
func (s *Service) updatePart(ctx context.Context, run *destination.ExecutionRun, brandExtID int64, categories []int64, change Change) error {
	productID := change.Snapshot.ExternalID

	core := buildPayload(change.Part, brandExtID, categories, false)
	updatedProduct, err := s.api.UpdateProduct(ctx, productID, core)
	if err != nil {
		return err
	}

	previous := fromEcho(change.Snapshot.DestinationData)

	finalFields, err := s.reconcileCustomFields(ctx, productID, previous.CustomFields, change.Part.CustomFields)
	if err != nil {
		return err
	}
	imagesChanged, err := s.reconcileImages(ctx, productID, previous.Images, change.Part.Images)
	if err != nil {
		return err
	}

	echoProduct := updatedProduct
	if imagesChanged {
		// Image ids shifted; take a fresh copy for the snapshot.
		echoProduct, err = s.api.GetProduct(ctx, productID)
		if err != nil {
			return err
		}
	} else {
		echoProduct.CustomFields = finalFields
		echoProduct.Images = previous.Images
	}
	if echoProduct.ID == 0 {
		echoProduct.ID = productID
	}
	return s.recordSuccess(ctx, run, change, echoProduct)
}

// reconcileCustomFields diffs by field name: shared names are updated
// in place reusing the existing id, new names are created, and names
// the part no longer carries are deleted.
func (s *Service) reconcileCustomFields(ctx context.Context, productID int64, old []storefront.CustomField, want []catalog.CustomField) ([]storefront.CustomField, error) {
	oldByName := make(map[string]storefront.CustomField, len(old))
	for _, cf := range old {
		oldByName[cf.Name] = cf
	}

	final := make([]storefront.CustomField, 0, len(want))
	for _, cf := range want {
		existing, ok := oldByName[cf.Name]
		if !ok {
			createdField, err := s.api.CreateCustomField(ctx, productID, storefront.CustomField{Name: cf.Name, Value: cf.Value})
			if err != nil {
				return nil, err
			}
			final = append(final, createdField)
			continue
		}
		delete(oldByName, cf.Name)
		if existing.Value == cf.Value {
			final = append(final, existing)
			continue
		}
		updatedField, err := s.api.UpdateCustomField(ctx, productID, storefront.CustomField{ID: existing.ID, Name: cf.Name, Value: cf.Value})
		if err != nil {
			return nil, err
		}
		final = append(final, updatedField)
	}

	for _, stale := range oldByName {
		if err := s.api.DeleteCustomField(ctx, productID, stale.ID); err != nil {
			return nil, err
		}
	}
	return final, nil
}

// reconcileImages diffs by URL: images the part dropped are deleted,
// new URLs are attached. Reports whether anything moved.
func (s *Service) reconcileImages(ctx context.Context, productID int64, old []storefront.ProductImage, want []catalog.Image) (bool, error) {
	wantByURL := make(map[string]catalog.Image, len(want))
	for _, img := range want {
		wantByURL[img.URL] = img
	}

	changed := false
	haveURLs := make(map[string]struct{}, len(old))
	for _, img := range old {
		url := img.ImageURL
		if url == "" {
			url = img.URLStandard
		}
		if _, keep := wantByURL[url]; !keep {
			if err := s.api.DeleteProductImage(ctx, productID, img.ID); err != nil {
				return changed, err
			}
			changed = true
			continue
		}
		haveURLs[url] = struct{}{}
	}

	sortOrder := len(haveURLs)
	for _, img := range want {
		if _, have := haveURLs[img.URL]; have {
			continue
		}
		_, err := s.api.CreateProductImage(ctx, productID, storefront.ProductImage{
			ImageURL:    img.URL,
			IsThumbnail: img.IsThumbnail,
			SortOrder:   sortOrder,
		})
		if err != nil {
			return changed, err
		}
		sortOrder++
		changed = true
	}
	return changed, nil
}

// recordSuccess flips the snapshot and its history row after a push.
func (s *Service) recordSuccess(ctx context.Context, run *destination.ExecutionRun, change Change, echoProduct storefront.Product) error {
	change.Snapshot.MarkSynced(change.Part, echoProduct.ID, toEcho(echoProduct))
	if err := s.destParts.Save(ctx, change.Snapshot); err != nil {
		return err
	}
	change.History.MarkSynced(run.ID)
	return s.histories.Save(ctx, change.History)
}

// ensureBrand returns the storefront brand id for a brand, creating
// the brand remotely on first use. Names are title-cased for the
// storefront.
func (s *Service) ensureBrand(ctx context.Context, dest *destination.Destination, brand *provider.Brand) (int64, error) {
	mapping, err := s.destBrands.FindByBrand(ctx, dest.ID, brand.ID)
	if err == nil {
		return mapping.ExternalID, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return 0, err
	}

	name := cases.Title(language.English).String(strings.ToLower(brand.Name))
	createdBrand, err := s.api.CreateBrand(ctx, storefront.Brand{Name: name, ImageURL: brand.LogoURL})
	if err != nil {
		return 0, err
	}

	mapping = &destination.DestinationBrand{
		BaseEntity:    shared.NewBaseEntity(),
		DestinationID: dest.ID,
		BrandID:       brand.ID,
		ExternalID:    createdBrand.ID,
		Name:          name,
	}
	if err := s.destBrands.Save(ctx, mapping); err != nil {
		return 0, err
	}
	s.logger.Info("created storefront brand",
		zap.String("name", name),
		zap.Int64("external_id", createdBrand.ID),
	)
	return createdBrand.ID, nil
}

func (s *Service) failRun(ctx context.Context, run *destination.ExecutionRun, message string) {
	_ = run.Fail(message)
	if err := s.runs.Save(ctx, run); err != nil {
		s.logger.Error("could not persist failed run", zap.Error(err))
	}
}

func (s *Service) stagger() {
	if s.opts.StaggerDelay <= 0 {
		return
	}
	time.Sleep(time.Duration(rand.Int63n(int64(s.opts.StaggerDelay))))
}
