package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/seo"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/trade"
	"github.com/shopcore/backend/internal/infrastructure/config"
	"github.com/shopcore/backend/internal/infrastructure/logger"
	"github.com/shopcore/backend/internal/infrastructure/persistence"
	"github.com/shopcore/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

type command func(ctx context.Context, app *application, args []string) (any, error)

var commands = map[string]command{
	"products":          readProducts,
	"search":            searchProducts,
	"orders":            searchOrders,
	"units":             readUnits,
	"unit-translations": readUnitTranslations,
	"seo-urls":          searchSeoUrls,
	"upload-media":      uploadMedia,
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.NewForEnvironment(os.Getenv("SHOP_APP_ENV")).Fatal("Failed to load configuration", zap.Error(err))
	}

	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize", zap.Error(err))
	}

	result, err := run(ctx, app, os.Args[2:])
	app.close(context.Background())
	if err != nil {
		log.Error("Command failed", zap.String("command", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Error("Failed to encode result", zap.Error(err))
		os.Exit(1)
	}
}

// shopFlags are shared by every command reading in a shop context
type shopFlags struct {
	fs    *flag.FlagSet
	shop  string
	group string
}

func newShopFlags(name string) *shopFlags {
	f := &shopFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	f.fs.StringVar(&f.shop, "shop", "", "Shop UUID (required)")
	f.fs.StringVar(&f.group, "group", "", "Customer group UUID (default: the shop's group)")
	return f
}

// context resolves the shop context and scopes ctx to the shop, so SQL
// and event logs of the command carry shop_id
func (f *shopFlags) context(ctx context.Context, app *application) (context.Context, shared.ShopContext, error) {
	shopUUID, err := uuid.Parse(f.shop)
	if err != nil {
		return ctx, shared.ShopContext{}, fmt.Errorf("invalid -shop %q: %w", f.shop, err)
	}
	groupUUID := uuid.Nil
	if f.group != "" {
		if groupUUID, err = uuid.Parse(f.group); err != nil {
			return ctx, shared.ShopContext{}, fmt.Errorf("invalid -group %q: %w", f.group, err)
		}
	}

	ctx, _ = logger.WithShop(ctx, app.logger, shopUUID)
	sctx, err := app.contexts.Create(ctx, shopUUID, groupUUID)
	return ctx, sctx, err
}

func parseUUIDs(args []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(args))
	for _, arg := range args {
		id, err := uuid.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid uuid %q: %w", arg, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseSorting parses "field" or "field:DESC"
func parseSorting(criteria *shared.Criteria, entity, value string) error {
	if value == "" {
		return nil
	}
	field, dir, _ := strings.Cut(value, ":")
	direction, err := persistence.ValidateSortDirection(shared.SortDirection(dir))
	if err != nil {
		return err
	}
	criteria.AddSorting(entity+"."+field, direction)
	return nil
}

func readProducts(ctx context.Context, app *application, args []string) (any, error) {
	f := newShopFlags("products")
	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	ids, err := parseUUIDs(f.fs.Args())
	if err != nil {
		return nil, err
	}
	ctx, sctx, err := f.context(ctx, app)
	if err != nil {
		return nil, err
	}
	return app.storefront.Read(ctx, ids, sctx)
}

func searchProducts(ctx context.Context, app *application, args []string) (any, error) {
	f := newShopFlags("search")
	name := f.fs.String("name", "", "Product name prefix")
	sort := f.fs.String("sort", "name", "Sort field with optional :ASC or :DESC")
	offset := f.fs.Int("offset", 0, "Result offset")
	limit := f.fs.Int("limit", 20, "Page size, 0 for all")
	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	ctx, sctx, err := f.context(ctx, app)
	if err != nil {
		return nil, err
	}

	criteria := shared.NewCriteria().
		AddFilter(shared.TermFilter(catalog.EntityProduct+".active", true)).
		SetPage(*offset, *limit)
	if *name != "" {
		criteria.AddFilter(shared.PrefixFilter(catalog.EntityProduct+".name", *name))
	}
	if err := parseSorting(criteria, catalog.EntityProduct, *sort); err != nil {
		return nil, err
	}

	result, err := app.storefront.Search(ctx, criteria, sctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"total": result.Total, "products": result.Collection}, nil
}

func searchOrders(ctx context.Context, app *application, args []string) (any, error) {
	f := newShopFlags("orders")
	number := f.fs.String("number", "", "Order number prefix")
	offset := f.fs.Int("offset", 0, "Result offset")
	limit := f.fs.Int("limit", 20, "Page size, 0 for all")
	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	ctx, sctx, err := f.context(ctx, app)
	if err != nil {
		return nil, err
	}
	tctx := sctx.TranslationContext()

	criteria := shared.NewCriteria().
		AddSorting(trade.EntityOrder+".order_date", shared.Descending).
		SetPage(*offset, *limit)
	if *number != "" {
		criteria.AddFilter(shared.PrefixFilter(trade.EntityOrder+".order_number", *number))
	}

	orders, err := app.orders.Search(ctx, criteria, tctx)
	if err != nil {
		return nil, err
	}

	stats := &shared.Criteria{Filters: criteria.Filters}
	stats.AddAggregation(shared.Aggregation{Name: "revenue", Type: shared.AggregationSum, Field: trade.EntityOrder + ".amount_total"})
	stats.AddAggregation(shared.Aggregation{Name: "average", Type: shared.AggregationAvg, Field: trade.EntityOrder + ".amount_total"})
	aggregations, err := app.orders.Aggregate(ctx, stats, tctx)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"total":        orders.Total,
		"orders":       orders.Collection,
		"aggregations": aggregations.Values,
	}, nil
}

func readUnits(ctx context.Context, app *application, args []string) (any, error) {
	f := newShopFlags("units")
	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	ids, err := parseUUIDs(f.fs.Args())
	if err != nil {
		return nil, err
	}
	ctx, sctx, err := f.context(ctx, app)
	if err != nil {
		return nil, err
	}
	return app.units.ReadBasic(ctx, ids, sctx.TranslationContext())
}

func readUnitTranslations(ctx context.Context, app *application, args []string) (any, error) {
	f := newShopFlags("unit-translations")
	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	ids, err := parseUUIDs(f.fs.Args())
	if err != nil {
		return nil, err
	}
	ctx, sctx, err := f.context(ctx, app)
	if err != nil {
		return nil, err
	}
	return app.unitTranslations.ReadDetail(ctx, ids, sctx.TranslationContext())
}

func searchSeoUrls(ctx context.Context, app *application, args []string) (any, error) {
	f := newShopFlags("seo-urls")
	path := f.fs.String("path", "/", "Path info prefix")
	canonical := f.fs.Bool("canonical", true, "Only canonical urls")
	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	ctx, sctx, err := f.context(ctx, app)
	if err != nil {
		return nil, err
	}

	criteria := shared.NewCriteria().
		AddFilter(shared.PrefixFilter(seo.EntitySeoUrl+".path_info", *path)).
		AddSorting(seo.EntitySeoUrl+".seo_path_info", shared.Ascending)
	if *canonical {
		criteria.AddFilter(shared.TermFilter(seo.EntitySeoUrl+".is_canonical", true))
	}

	result, err := app.seoUrls.Search(ctx, criteria, sctx.TranslationContext())
	if err != nil {
		return nil, err
	}
	return map[string]any{"total": result.Total, "seoUrls": result.Collection}, nil
}

func uploadMedia(ctx context.Context, app *application, args []string) (any, error) {
	f := newShopFlags("upload-media")
	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	if f.fs.NArg() != 1 {
		return nil, fmt.Errorf("usage: upload-media -shop <uuid> <file>")
	}
	if err := app.requireMediaStorage(); err != nil {
		return nil, err
	}
	ctx, sctx, err := f.context(ctx, app)
	if err != nil {
		return nil, err
	}

	path := f.fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	media := &catalog.Media{
		BaseEntity: shared.NewBaseEntity(),
		FileName:   filepath.Base(path),
		MimeType:   mimeType,
		FileSize:   int64(len(data)),
	}
	media.StorageKey = storage.MediaKey(media)

	if err := app.media.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	if err := app.media.Upload(ctx, media.StorageKey, data, mimeType); err != nil {
		return nil, err
	}

	tctx := sctx.TranslationContext()
	if _, err := app.mediaFiles.Create(ctx, []*catalog.Media{media}, tctx); err != nil {
		return nil, err
	}
	return app.mediaFiles.ReadBasic(ctx, []uuid.UUID{media.UUID}, tctx)
}

func printUsage() {
	fmt.Println(`Storefront catalog tool

Usage:
  catalog <command> -shop <uuid> [flags] [arguments]

Commands:
  products <uuid...>            Read priced storefront products
  search                        Search active products (-name, -sort, -offset, -limit)
  orders                        Search orders of the shop with revenue totals (-number)
  units <uuid...>               Read units translated for the shop
  unit-translations <uuid...>   Read unit translations with unit and language
  seo-urls                      Search SEO urls (-path, -canonical)
  upload-media <file>           Upload a media file and register it

Common flags:
  -shop string                  Shop UUID
  -group string                 Customer group UUID (default: the shop's group)

Configuration is read from config.toml and SHOP_* environment variables.`)
}
