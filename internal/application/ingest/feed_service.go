package ingest

import (
	"bytes"
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/provider"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/sources"
	"github.com/Aiducco/aftermarketmonkey-be/internal/integration/feed"
)

// Column headers as delivered in the pipe-delimited feed drops. Names
// are matched after trimming, so trailing spaces in a header do not
// break the mapping.
const (
	colPartNumber  = "Part Number"
	colBrandLabel  = "Brand Label"
	colTitle       = "Title"
	colGTIN        = "GTIN"
	colCategory    = "Category (PCDB)"
	colPartTerm    = "Part Terminology Label"
	colLifeCycle   = "Life Cycle Status"
	colInventory   = "Inventory"
	colMarketing   = "Marketing Description"
	colAttributes  = "Product Attributes (In One Field)"
	colJobberUSD   = "Jobber (USD)"
	colRetailUSD   = "Retail (USD)"
	colMAPUSD      = "MAP (USD)"
	colPrimaryImg  = "Primary"
	colCaseLength  = "Length (For Case)"
	colCaseWidth   = "Width (For Case)"
	colCaseHeight  = "Height (For Case)"
	colCaseWeight  = "Weight (For Case)"
	colFitmentYear = "Year"
	colFitmentMake = "Make"
	colFitmentMdl  = "Model"
)

const upsertBatchSize = 500

// FeedDownloader fetches the newest remote file matching a pattern.
type FeedDownloader interface {
	FetchLatest(ctx context.Context, pattern *regexp.Regexp) (string, []byte, error)
}

// OpenFeedFunc opens a feed connection for a provider's credentials.
type OpenFeedFunc func(creds provider.Credentials) FeedDownloader

// OpenFeed is the production OpenFeedFunc.
func OpenFeed(logger *zap.Logger) OpenFeedFunc {
	return func(creds provider.Credentials) FeedDownloader {
		return feed.NewClient(feed.Config{
			Host:      creds.Host,
			Port:      creds.Port,
			Username:  creds.Username,
			Password:  creds.Password,
			RemoteDir: creds.RemoteDir,
		}, logger)
	}
}

// FeedService ingests catalog feed drops: download the newest file for
// a brand, parse it, and bulk upsert the raw rows. Normalization into
// canonical parts happens later, at sync time.
type FeedService struct {
	links        provider.BrandProviderRepository
	feedParts    sources.FeedPartRepository
	feedFitments sources.FeedFitmentRepository
	open         OpenFeedFunc
	logger       *zap.Logger
}

// NewFeedService creates a feed ingestion service.
func NewFeedService(
	links provider.BrandProviderRepository,
	feedParts sources.FeedPartRepository,
	feedFitments sources.FeedFitmentRepository,
	open OpenFeedFunc,
	logger *zap.Logger,
) *FeedService {
	return &FeedService{
		links:        links,
		feedParts:    feedParts,
		feedFitments: feedFitments,
		open:         open,
		logger:       logger.Named("feed-ingest"),
	}
}

// IngestProducts pulls the newest product drop for a brand and upserts
// its rows. Returns the number of rows written.
func (s *FeedService) IngestProducts(ctx context.Context, p *provider.Provider, brand *provider.Brand) (int, error) {
	link, err := s.links.FindRef(ctx, brand.ID, p.ID)
	if err != nil {
		return 0, err
	}

	pattern := feed.ProductFilePattern(strings.ToUpper(p.Name), link.ProviderBrandRef)
	name, data, err := s.open(p.Credentials).FetchLatest(ctx, pattern)
	if err != nil {
		return 0, err
	}

	records, skippedRows, err := feed.Parse(bytes.NewReader(data))
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(records))
	rows := make([]sources.FeedPart, 0, len(records))
	skippedNoSKU := 0
	for _, record := range records {
		row, ok := s.productRow(p, link.ProviderBrandRef, record)
		if !ok {
			skippedNoSKU++
			continue
		}
		if _, dup := seen[row.SKU]; dup {
			continue
		}
		seen[row.SKU] = struct{}{}
		rows = append(rows, row)
	}

	if err := s.upsertParts(ctx, rows); err != nil {
		return 0, err
	}

	s.logger.Info("ingested product feed",
		zap.String("file", name),
		zap.String("brand", brand.Name),
		zap.Int("rows", len(rows)),
		zap.Int("skipped_malformed", skippedRows),
		zap.Int("skipped_no_part_number", skippedNoSKU),
	)
	return len(rows), nil
}

// IngestFitments pulls the newest fitment drop for a brand and upserts
// its rows, deduplicating repeats of the same vehicle application.
func (s *FeedService) IngestFitments(ctx context.Context, p *provider.Provider, brand *provider.Brand) (int, error) {
	link, err := s.links.FindRef(ctx, brand.ID, p.ID)
	if err != nil {
		return 0, err
	}

	pattern := feed.FitmentFilePattern(strings.ToUpper(p.Name), link.ProviderBrandRef)
	name, data, err := s.open(p.Credentials).FetchLatest(ctx, pattern)
	if err != nil {
		return 0, err
	}

	records, skippedRows, err := feed.Parse(bytes.NewReader(data))
	if err != nil {
		return 0, err
	}

	type fitmentKey struct {
		sku   string
		year  int
		mk    string
		model string
	}
	seen := make(map[fitmentKey]struct{}, len(records))
	rows := make([]sources.FeedFitment, 0, len(records))
	skippedIncomplete := 0
	for _, record := range records {
		sku := strings.TrimSpace(record[colPartNumber])
		year, yearErr := strconv.Atoi(strings.TrimSpace(record[colFitmentYear]))
		mk := strings.TrimSpace(record[colFitmentMake])
		model := strings.TrimSpace(record[colFitmentMdl])
		if sku == "" || yearErr != nil || mk == "" || model == "" {
			skippedIncomplete++
			continue
		}
		key := fitmentKey{sku: sku, year: year, mk: mk, model: model}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, sources.FeedFitment{
			BaseEntity: shared.NewBaseEntity(),
			ProviderID: p.ID,
			SKU:        sku,
			BrandCode:  link.ProviderBrandRef,
			Year:       year,
			Make:       mk,
			Model:      model,
		})
	}

	for start := 0; start < len(rows); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(rows))
		if err := s.feedFitments.UpsertBatch(ctx, rows[start:end]); err != nil {
			return 0, err
		}
	}

	s.logger.Info("ingested fitment feed",
		zap.String("file", name),
		zap.String("brand", brand.Name),
		zap.Int("rows", len(rows)),
		zap.Int("skipped_malformed", skippedRows),
		zap.Int("skipped_incomplete", skippedIncomplete),
	)
	return len(rows), nil
}

func (s *FeedService) productRow(p *provider.Provider, brandCode string, record feed.Record) (sources.FeedPart, bool) {
	sku := strings.TrimSpace(record[colPartNumber])
	if sku == "" {
		return sources.FeedPart{}, false
	}
	return sources.FeedPart{
		BaseEntity:      shared.NewBaseEntity(),
		ProviderID:      p.ID,
		SKU:             sku,
		BrandCode:       brandCode,
		PartNumber:      sku,
		Title:           strings.TrimSpace(record[colTitle]),
		UPC:             strings.TrimSpace(record[colGTIN]),
		Category:        strings.TrimSpace(record[colCategory]),
		Subcategory:     strings.TrimSpace(record[colPartTerm]),
		LifeCycleStatus: strings.TrimSpace(record[colLifeCycle]),
		Inventory:       parseQuantity(record[colInventory]),
		PriceMAP:        parsePrice(record[colMAPUSD]),
		PriceRetail:     parsePrice(record[colRetailUSD]),
		PriceJobber:     parsePrice(record[colJobberUSD]),
		Weight:          parseDimension(record[colCaseWeight]),
		Length:          parseDimension(record[colCaseLength]),
		Width:           parseDimension(record[colCaseWidth]),
		Height:          parseDimension(record[colCaseHeight]),
		Description:     strings.TrimSpace(record[colMarketing]),
		ImageURL:        strings.TrimSpace(record[colPrimaryImg]),
		Attributes:      parseAttributes(record[colAttributes]),
	}, true
}

func (s *FeedService) upsertParts(ctx context.Context, rows []sources.FeedPart) error {
	for start := 0; start < len(rows); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(rows))
		if err := s.feedParts.UpsertBatch(ctx, rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func parsePrice(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

func parseQuantity(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func parseDimension(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

// parseAttributes splits the packed attribute column. Entries are
// semicolon separated "Name: Value" pairs; entries without a colon are
// dropped.
func parseAttributes(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	attrs := make(map[string]string)
	for _, entry := range strings.Split(raw, ";") {
		name, value, found := strings.Cut(entry, ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		attrs[name] = value
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
