package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/application/listener"
	"github.com/shopcore/backend/internal/application/repository"
	"github.com/shopcore/backend/internal/application/storefront"
	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/pricing"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/infrastructure/cache"
	"github.com/shopcore/backend/internal/infrastructure/config"
	"github.com/shopcore/backend/internal/infrastructure/event"
	"github.com/shopcore/backend/internal/infrastructure/persistence"
	"github.com/shopcore/backend/internal/infrastructure/storage"
	"github.com/shopcore/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// application holds the wired components of one CLI run
type application struct {
	cfg    *config.Config
	logger *zap.Logger

	db         *persistence.Database
	tracer     *telemetry.TracerProvider
	dispatcher *event.Dispatcher
	cache      cache.EntityCache
	media      *storage.MediaStorage

	products         *repository.ProductRepository
	productMedia     *repository.ProductMediaRepository
	mediaFiles       *repository.MediaRepository
	units            *repository.UnitRepository
	unitTranslations *repository.UnitTranslationRepository
	orders           *repository.OrderRepository
	seoUrls          *repository.SeoUrlRepository

	storefront *storefront.StorefrontProductRepository
	contexts   *storefront.ContextFactory
}

func newApplication(ctx context.Context, cfg *config.Config, log *zap.Logger) (*application, error) {
	app := &application{cfg: cfg, logger: log}

	tracer, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return nil, err
	}
	app.tracer = tracer

	db, err := persistence.NewDatabase(&cfg.Database, &cfg.Log, log)
	if err != nil {
		app.close(ctx)
		return nil, err
	}
	app.db = db

	app.dispatcher = event.NewDispatcher(log)
	if err := app.registerListeners(); err != nil {
		app.close(ctx)
		return nil, err
	}

	app.wireRepositories()

	fallbackGroup := uuid.Nil
	if cfg.Storefront.FallbackCustomerGroupUUID != "" {
		fallbackGroup = uuid.MustParse(cfg.Storefront.FallbackCustomerGroupUUID)
	}
	locale, fallbackLocale := cfg.Storefront.Locales()
	app.contexts = storefront.NewContextFactory(
		repository.NewShopRepository(persistence.NewShopStore(db.DB, persistence.WithLogger(log)), app.dispatcher, log),
		repository.NewCustomerGroupRepository(persistence.NewCustomerGroupStore(db.DB, persistence.WithLogger(log)), app.dispatcher, log),
		storefront.ContextDefaults{
			Locale:                    locale,
			FallbackLocale:            fallbackLocale,
			FallbackCustomerGroupUUID: fallbackGroup,
			CurrencyPrecision:         cfg.Storefront.CurrencyPrecision,
		},
	)
	return app, nil
}

func (a *application) registerListeners() error {
	log := a.logger

	if a.cfg.Cache.Enabled {
		c, err := cache.New(a.cfg.Cache, a.cfg.Redis, a.cfg.App.Env == "production", log)
		if err != nil {
			return err
		}
		a.cache = c
		a.dispatcher.Register(cache.NewInvalidator(c, a.cacheKeys(), log), shared.GenericWrittenEventName)
	}

	if a.cfg.Storage.Bucket != "" {
		media, err := storage.NewMediaStorage(&a.cfg.Storage, storage.WithLogger(log))
		if err != nil {
			return err
		}
		a.media = media
		mediaURLs := listener.NewMediaURLListener(media, a.cfg.Storage.PresignExpiration, log)
		a.dispatcher.Register(mediaURLs, mediaURLs.EventNames()...)
	}

	units := listener.NewUnitTranslationListener(log)
	a.dispatcher.Register(units, units.EventNames()...)
	a.dispatcher.RegisterAll(listener.NewEventLogListener(log))
	return nil
}

func (a *application) wireRepositories() {
	gdb, log, d := a.db.DB, a.logger, a.dispatcher
	opt := persistence.WithLogger(log)

	a.products = repository.NewProductRepository(
		readThrough[*catalog.Product](a, persistence.NewProductStore(gdb, opt), catalog.EntityProduct), d, log)
	a.productMedia = repository.NewProductMediaRepository(
		readThrough[*catalog.ProductMedia](a, persistence.NewProductMediaStore(gdb, opt), catalog.EntityProductMedia), d, log)
	a.mediaFiles = repository.NewMediaRepository(
		readThrough[*catalog.Media](a, persistence.NewMediaStore(gdb, opt), catalog.EntityMedia), d, log)
	a.units = repository.NewUnitRepository(
		readThrough[*catalog.Unit](a, persistence.NewUnitStore(gdb, opt), catalog.EntityUnit), d, log)
	a.unitTranslations = repository.NewUnitTranslationRepository(
		readThrough[*catalog.UnitTranslation](a, persistence.NewUnitTranslationStore(gdb, opt), catalog.EntityUnitTranslation),
		persistence.NewUnitTranslationDetailStore(gdb, opt),
		d, log,
	)
	// orders and seo urls are shop scoped and stay uncached
	a.orders = repository.NewOrderRepository(persistence.NewOrderStore(gdb, opt), d, log)
	a.seoUrls = repository.NewSeoUrlRepository(persistence.NewSeoUrlStore(gdb, opt), d, log)

	a.storefront = storefront.NewStorefrontProductRepository(a.products, a.productMedia, pricing.NewPriceCalculator(), log)
}

func (a *application) cacheKeys() cache.Keys {
	return cache.Keys{Prefix: a.cfg.Cache.KeyPrefix}
}

// readThrough serves basic reads of store from the entity cache when
// caching is enabled
func readThrough[T shared.Entity](a *application, store repository.Store[T], entityName string) repository.Store[T] {
	if a.cache == nil {
		return store
	}
	return cache.NewReadThroughStore[T](store, a.cache, a.cacheKeys(), entityName, a.cfg.Cache.TTL, a.logger)
}

func (a *application) close(ctx context.Context) {
	var errs []error
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if a.tracer != nil {
		errs = append(errs, a.tracer.Shutdown(ctx))
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn("Failed to release resources", zap.Error(err))
	}
}

func (a *application) requireMediaStorage() error {
	if a.media == nil {
		return fmt.Errorf("media storage is not configured: set storage.bucket")
	}
	return nil
}
