package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/Aiducco/aftermarketmonkey-be/internal/application/ingest"
	syncapp "github.com/Aiducco/aftermarketmonkey-be/internal/application/sync"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/catalog"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/destination"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/provider"
	"github.com/Aiducco/aftermarketmonkey-be/internal/infrastructure/config"
	"github.com/Aiducco/aftermarketmonkey-be/internal/infrastructure/logger"
	"github.com/Aiducco/aftermarketmonkey-be/internal/infrastructure/persistence"
	"github.com/Aiducco/aftermarketmonkey-be/internal/integration/storefront"
)

// app bundles the wired repositories and services one command needs.
type app struct {
	cfg *config.Config
	log *zap.Logger

	brands     *persistence.GormBrandRepository
	providers  *persistence.GormProviderRepository
	links      *persistence.GormBrandProviderRepository
	dests      *persistence.GormDestinationRepository
	destParts  *persistence.GormDestinationPartRepository
	histories  *persistence.GormPartHistoryRepository
	runs       *persistence.GormExecutionRunRepository
	categories *persistence.GormCategoryRepository
	destBrands *persistence.GormDestinationBrandRepository

	feedSvc *ingest.FeedService
	distSvc *ingest.DistributorService
	builder *syncapp.CandidateBuilder
}

func main() {
	var (
		brandName    string
		destName     string
		providerName string
		logLevel     string
		minutes      int
	)

	flag.StringVar(&brandName, "brand", "", "Brand name to operate on")
	flag.StringVar(&destName, "destination", "", "Destination name to operate on")
	flag.StringVar(&providerName, "provider", "", "Provider name (overrides priority selection)")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.IntVar(&minutes, "minutes", 60, "Trailing change window for update commands")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if logLevel == "" {
		logLevel = cfg.Log.Level
	}
	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	a := newApp(cfg, log, db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx, command, brandName, destName, providerName, minutes, args[1:]); err != nil {
		log.Fatal("Command failed", zap.String("command", command), zap.Error(err))
	}
}

func newApp(cfg *config.Config, log *zap.Logger, db *persistence.Database) *app {
	a := &app{
		cfg:        cfg,
		log:        log,
		brands:     persistence.NewGormBrandRepository(db.DB),
		providers:  persistence.NewGormProviderRepository(db.DB),
		links:      persistence.NewGormBrandProviderRepository(db.DB),
		dests:      persistence.NewGormDestinationRepository(db.DB),
		destParts:  persistence.NewGormDestinationPartRepository(db.DB),
		histories:  persistence.NewGormPartHistoryRepository(db.DB),
		runs:       persistence.NewGormExecutionRunRepository(db.DB),
		categories: persistence.NewGormCategoryRepository(db.DB),
		destBrands: persistence.NewGormDestinationBrandRepository(db.DB),
	}

	feedParts := persistence.NewGormFeedPartRepository(db.DB)
	feedFitments := persistence.NewGormFeedFitmentRepository(db.DB)
	items := persistence.NewGormDistributorItemRepository(db.DB)
	itemData := persistence.NewGormDistributorItemDataRepository(db.DB)
	pricing := persistence.NewGormDistributorPricingRepository(db.DB)
	inventory := persistence.NewGormDistributorInventoryRepository(db.DB)
	distBrands := persistence.NewGormDistributorBrandRepository(db.DB)

	a.feedSvc = ingest.NewFeedService(a.links, feedParts, feedFitments, ingest.OpenFeed(log), log)
	a.distSvc = ingest.NewDistributorService(a.links, items, itemData, pricing, inventory, distBrands, ingest.OpenPartsAPI(log), log)
	a.builder = syncapp.NewCandidateBuilder(a.providers, a.links, feedParts, feedFitments, items, itemData, pricing, inventory, log)

	return a
}

func (a *app) run(ctx context.Context, command, brandName, destName, providerName string, minutes int, extra []string) error {
	switch command {
	case "fetch-feed-items":
		return a.forEachProvider(ctx, brandName, providerName, catalog.RoleCatalog, provider.KindFeed,
			func(ctx context.Context, p *provider.Provider, b *provider.Brand) (int, error) {
				return a.feedSvc.IngestProducts(ctx, p, b)
			})

	case "fetch-feed-fitments":
		return a.forEachProvider(ctx, brandName, providerName, catalog.RoleCatalog, provider.KindFeed,
			func(ctx context.Context, p *provider.Provider, b *provider.Brand) (int, error) {
				return a.feedSvc.IngestFitments(ctx, p, b)
			})

	case "fetch-distributor-items":
		return a.forEachProvider(ctx, brandName, providerName, catalog.RoleDistributor, provider.KindPartsAPI,
			func(ctx context.Context, p *provider.Provider, b *provider.Brand) (int, error) {
				return a.distSvc.IngestItems(ctx, p, b)
			})

	case "fetch-distributor-item-data":
		return a.forEachProvider(ctx, brandName, providerName, catalog.RoleDistributor, provider.KindPartsAPI,
			func(ctx context.Context, p *provider.Provider, b *provider.Brand) (int, error) {
				return a.distSvc.IngestItemData(ctx, p, b)
			})

	case "fetch-distributor-pricing":
		return a.forEachProvider(ctx, brandName, providerName, catalog.RoleDistributor, provider.KindPartsAPI,
			func(ctx context.Context, p *provider.Provider, b *provider.Brand) (int, error) {
				return a.distSvc.IngestPricing(ctx, p, b)
			})

	case "fetch-distributor-inventory":
		return a.forEachProvider(ctx, brandName, providerName, catalog.RoleDistributor, provider.KindPartsAPI,
			func(ctx context.Context, p *provider.Provider, b *provider.Brand) (int, error) {
				return a.distSvc.IngestInventory(ctx, p, b)
			})

	case "fetch-distributor-item-updates":
		return a.distributorUpdates(ctx, providerName, minutes, a.distSvc.IngestItemUpdates)

	case "fetch-distributor-inventory-updates":
		return a.distributorUpdates(ctx, providerName, minutes, a.distSvc.IngestInventoryUpdates)

	case "fetch-distributor-brands":
		if providerName == "" {
			return fmt.Errorf("-provider is required for %s", command)
		}
		p, err := a.providers.FindByName(ctx, providerName)
		if err != nil {
			return err
		}
		n, err := a.distSvc.IngestBrands(ctx, p)
		if err != nil {
			return err
		}
		a.log.Info("Brand directory ingested", zap.String("provider", p.Name), zap.Int("rows", n))
		return nil

	case "pull-storefront-brands":
		dest, pull, err := a.pullService(ctx, destName)
		if err != nil {
			return err
		}
		n, err := pull.PullBrands(ctx, dest)
		if err != nil {
			return err
		}
		a.log.Info("Storefront brands pulled", zap.String("destination", dest.Name), zap.Int("mapped", n))
		return nil

	case "pull-storefront-products":
		dest, pull, err := a.pullService(ctx, destName)
		if err != nil {
			return err
		}
		n, err := pull.PullProducts(ctx, dest)
		if err != nil {
			return err
		}
		a.log.Info("Storefront products pulled", zap.String("destination", dest.Name), zap.Int("snapshots", n))
		return nil

	case "sync-parts":
		return a.syncParts(ctx, brandName, destName)

	case "reconcile-categories":
		return a.reconcileCategories(ctx, destName)

	case "purge-products":
		return a.purgeProducts(ctx, destName, extra)

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// forEachProvider runs an ingest step against every matching active
// provider of a brand, or just the named one.
func (a *app) forEachProvider(
	ctx context.Context,
	brandName, providerName string,
	role catalog.SourceRole,
	kind provider.Kind,
	fn func(context.Context, *provider.Provider, *provider.Brand) (int, error),
) error {
	brand, err := a.requireBrand(ctx, brandName)
	if err != nil {
		return err
	}
	ctx, log := logger.WithBrand(ctx, a.log, brand.Name)

	var providers []provider.Provider
	if providerName != "" {
		p, err := a.providers.FindByName(ctx, providerName)
		if err != nil {
			return err
		}
		providers = []provider.Provider{*p}
	} else {
		providers, err = a.providers.FindActiveForBrand(ctx, brand.ID, role)
		if err != nil {
			return err
		}
	}

	ran := 0
	for i := range providers {
		p := &providers[i]
		if p.Kind != kind {
			continue
		}
		n, err := fn(ctx, p, brand)
		if err != nil {
			return fmt.Errorf("provider %s: %w", p.Name, err)
		}
		log.Info("Ingest step finished", zap.String("provider", p.Name), zap.Int("rows", n))
		ran++
	}
	if ran == 0 {
		return fmt.Errorf("no active %s/%s provider for brand %s", role, kind, brand.Name)
	}
	return nil
}

func (a *app) syncParts(ctx context.Context, brandName, destName string) error {
	brand, err := a.requireBrand(ctx, brandName)
	if err != nil {
		return err
	}
	dest, err := a.requireDestination(ctx, destName)
	if err != nil {
		return err
	}
	ctx, log := logger.WithBrand(ctx, a.log, brand.Name)

	candidates, err := a.builder.Build(ctx, brand)
	if err != nil {
		return err
	}
	log.Info("Candidates built", zap.Int("count", len(candidates)))

	api := a.storefrontClient(dest)
	resolver := syncapp.NewCategoryResolver(a.categories, api, log)
	detector := syncapp.NewChangeDetector(a.destParts, a.histories, log)
	svc := syncapp.NewService(api, detector, resolver, a.destParts, a.histories, a.runs, a.destBrands, log, syncapp.Options{
		Workers:      a.cfg.Sync.Workers,
		StaggerDelay: a.cfg.Sync.StaggerDelay,
	})

	run, err := svc.SyncBrand(ctx, dest, brand, candidates)
	if run != nil {
		log.Info("Run finished",
			zap.String("run_id", run.ID.String()),
			zap.String("status", string(run.Status)),
			zap.Int("processed", run.Processed),
			zap.Int("created", run.Created),
			zap.Int("updated", run.Updated),
			zap.Int("failed", run.Failed),
		)
	}
	return err
}

// reconcileCategories pulls the storefront's live category list and
// rewrites the local cache to match it, so later resolution never
// trusts ids that were renamed or deleted out from under us.
func (a *app) reconcileCategories(ctx context.Context, destName string) error {
	dest, err := a.requireDestination(ctx, destName)
	if err != nil {
		return err
	}

	api := a.storefrontClient(dest)
	resolver := syncapp.NewCategoryResolver(a.categories, api, a.log)

	result, err := resolver.ReconcileCategories(ctx, dest.ID)
	if err != nil {
		return err
	}
	a.log.Info("Categories reconciled",
		zap.String("destination", dest.Name),
		zap.Int("fetched", result.Fetched),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("deleted", result.Deleted),
	)
	return nil
}

// distributorUpdates runs one windowed delta pull against a named
// provider.
func (a *app) distributorUpdates(
	ctx context.Context,
	providerName string,
	minutes int,
	fn func(context.Context, *provider.Provider, int) (int, error),
) error {
	if providerName == "" {
		return fmt.Errorf("-provider is required for update commands")
	}
	p, err := a.providers.FindByName(ctx, providerName)
	if err != nil {
		return err
	}
	n, err := fn(ctx, p, minutes)
	if err != nil {
		return err
	}
	a.log.Info("Update window ingested",
		zap.String("provider", p.Name),
		zap.Int("window_minutes", minutes),
		zap.Int("rows", n),
	)
	return nil
}

func (a *app) purgeProducts(ctx context.Context, destName string, args []string) error {
	dest, err := a.requireDestination(ctx, destName)
	if err != nil {
		return err
	}

	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", arg)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return fmt.Errorf("product ids required. Usage: syncd purge-products -destination <name> <id> [id...]")
	}

	api := a.storefrontClient(dest)
	resolver := syncapp.NewCategoryResolver(a.categories, api, a.log)
	detector := syncapp.NewChangeDetector(a.destParts, a.histories, a.log)
	svc := syncapp.NewService(api, detector, resolver, a.destParts, a.histories, a.runs, a.destBrands, a.log, syncapp.Options{
		Workers: a.cfg.Sync.Workers,
	})

	if err := svc.PurgeProducts(ctx, dest, ids); err != nil {
		return err
	}
	a.log.Info("Products purged", zap.String("destination", dest.Name), zap.Int("count", len(ids)))
	return nil
}

func (a *app) pullService(ctx context.Context, destName string) (*destination.Destination, *ingest.StorefrontPullService, error) {
	dest, err := a.requireDestination(ctx, destName)
	if err != nil {
		return nil, nil, err
	}
	api := a.storefrontClient(dest)
	return dest, ingest.NewStorefrontPullService(api, a.brands, a.destParts, a.destBrands, a.log), nil
}

func (a *app) storefrontClient(dest *destination.Destination) *storefront.Client {
	return storefront.NewClient(storefront.Config{
		BaseURL:     a.cfg.Storefront.BaseURL,
		StoreHash:   dest.StoreHash,
		AccessToken: dest.AccessToken,
	}, a.log)
}

func (a *app) requireBrand(ctx context.Context, name string) (*provider.Brand, error) {
	if name == "" {
		return nil, fmt.Errorf("-brand is required")
	}
	return a.brands.FindByName(ctx, name)
}

func (a *app) requireDestination(ctx context.Context, name string) (*destination.Destination, error) {
	if name == "" {
		return nil, fmt.Errorf("-destination is required")
	}
	return a.dests.FindByName(ctx, name)
}

func printUsage() {
	fmt.Println(`Usage: syncd [flags] <command>

Ingestion commands (require -brand):
  fetch-feed-items             Download and store the latest product feed
  fetch-feed-fitments          Download and store the latest fitment feed
  fetch-distributor-items      Pull the distributor item listing
  fetch-distributor-item-data  Pull item media and descriptions
  fetch-distributor-pricing    Pull item pricelists
  fetch-distributor-inventory  Pull item warehouse stock

Directory commands (require -provider):
  fetch-distributor-brands            Pull the distributor brand directory
  fetch-distributor-item-updates      Pull items changed in the trailing -minutes window
  fetch-distributor-inventory-updates Pull stock changed in the trailing -minutes window

Storefront commands (require -destination):
  pull-storefront-brands       Map storefront brands onto local brands
  pull-storefront-products     Snapshot products already on the storefront
  sync-parts                   Merge, detect changes and push (requires -brand)
  reconcile-categories         Rebuild the category cache from the live storefront
  purge-products               Delete products by storefront id

Flags:
  -brand <name>        Brand to operate on
  -destination <name>  Destination storefront
  -provider <name>     Restrict to one provider
  -minutes <n>         Trailing change window for update commands (default 60)
  -log-level <level>   Log level (debug, info, warn, error)`)
}
