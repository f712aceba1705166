package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tienda-joyas/app/controller"
	appmw "tienda-joyas/app/middleware"
	"tienda-joyas/app/router"
	"tienda-joyas/config"
	"tienda-joyas/db"
	"tienda-joyas/events"
	"tienda-joyas/logger"
	"tienda-joyas/repository"
	"tienda-joyas/service"
	"tienda-joyas/utils"

	"go.uber.org/zap"
)

// App holds the wired storefront
type App struct {
	Handler http.Handler

	log        *zap.Logger
	store      *service.CatalogStore
	sync       *service.SyncService
	orders     *service.OrderService
	warmer     *service.ImageWarmer
	warmOnLoad bool
	pages      *service.BrowseSessions
	carts      *repository.MemoryCartRepository
	limiter    *appmw.RateLimiter
	sessionTTL time.Duration
	closers    []func() error
}

// Dependencies lets callers replace external collaborators, mainly in tests.
// Nil fields are built from the configuration.
type Dependencies struct {
	Feed  service.FeedSource
	Drive service.DriveServiceInterface
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg config.Config, log *zap.Logger, deps Dependencies) (*App, error) {
	log = logger.OrNop(log)
	a := &App{
		log:        log,
		sessionTTL: cfg.Sessions.TTL,
		warmOnLoad: cfg.Images.WarmOnUpdate,
		pages:      service.NewBrowseSessions(cfg.Catalog.PageSize, cfg.Sessions.TTL),
	}

	if cfg.Catalog.TaxonomyFile != "" {
		if err := utils.LoadTaxonomyFile(cfg.Catalog.TaxonomyFile); err != nil {
			return nil, err
		}
		log.Info("taxonomy loaded", zap.String("path", cfg.Catalog.TaxonomyFile))
	}

	drive := deps.Drive
	if drive == nil && cfg.Feed.UsesDrive() {
		ds, err := service.NewDriveService(ctx, cfg.Feed.CredentialsFile)
		if err != nil {
			return nil, err
		}
		drive = ds
	}

	feed := deps.Feed
	if feed == nil {
		if cfg.Feed.UsesDrive() {
			feed = service.NewDriveFeedSource(drive, cfg.Feed.DriveSheetID)
		} else {
			feed = service.NewHTTPFeedSource(cfg.Feed.URL, cfg.Feed.Timeout)
		}
	}

	bus := events.NewBus(log.Named("events"))
	a.store = service.NewCatalogStore(feed, bus, log.Named("catalog"), service.CatalogStoreOptions{
		RefreshInterval: cfg.Catalog.RefreshInterval,
		FetchTimeout:    cfg.Feed.Timeout,
	})

	carts, err := a.cartRepository(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Database.Enabled() {
		conn, err := db.Open(ctx, cfg.Database.URL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.closers = append(a.closers, conn.Close)
		if err := db.Migrate(ctx, conn); err != nil {
			a.Close()
			return nil, err
		}
		a.sync = service.NewSyncService(repository.NewProductRepository(conn), a.store, bus, log.Named("sync"))
		a.orders = service.NewOrderService(repository.NewOrderRepository(conn), log.Named("orders"))
		log.Info("catalog mirror and order log enabled")
	}

	images := service.NewImageService(cfg.Images.CacheDir, cfg.Feed.Timeout, drive, log.Named("images"))
	if err := images.EnsureCacheDir(); err != nil {
		a.Close()
		return nil, err
	}
	a.warmer = service.NewImageWarmer(images, a.store, bus, log.Named("images"))

	cartService := service.NewCartService(carts, a.store, bus, log.Named("cart"))
	checkout := service.NewCheckoutService(cfg.Checkout.WhatsAppPhone)
	printer := service.NewCatalogPrintService(cfg.Server.PublicBaseURL, cfg.Print.ChromePath, log.Named("print"))

	if cfg.Server.RateLimitPerMinute > 0 {
		a.limiter = appmw.NewRateLimiter(cfg.Server.RateLimitPerMinute, func(w http.ResponseWriter, r *http.Request) {
			controller.WriteError(w, r, http.StatusTooManyRequests, "rate_limited", "Demasiadas solicitudes, probá de nuevo en un minuto")
		})
	}

	controllers := &router.Controllers{
		Catalog:  controller.NewCatalogController(a.store, images, printer, a.pages, cfg.Catalog.PageSize, cfg.Server.PublicBaseURL),
		Cart:     controller.NewCartController(cartService),
		Checkout: controller.NewCheckoutController(cartService, checkout, a.orderService()),
		Events:   controller.NewEventsController(bus, originChecker(cfg.Server.CORSAllowedOrigins)),
		Images:   controller.NewImageController(a.warmer),
	}
	if a.sync != nil {
		controllers.Mirror = controller.NewMirrorController(a.sync)
		controllers.Orders = controller.NewOrderController(a.orders)
	}

	a.Handler = router.New(controllers, router.Options{
		Logger:         log.Named("http"),
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		SessionTTL:     cfg.Sessions.TTL,
		SecureCookies:  strings.HasPrefix(cfg.Server.PublicBaseURL, "https://"),
		RateLimiter:    a.limiter,
	})
	return a, nil
}

// Start begins the first catalog fetch and the background workers. They stop with ctx.
// Listeners subscribe before the store starts so they see the first load.
func (a *App) Start(ctx context.Context) {
	if a.sync != nil {
		a.sync.Start(ctx)
	}
	if a.warmOnLoad {
		a.warmer.Start(ctx)
	}
	if a.carts != nil {
		a.carts.StartJanitor(ctx, a.sessionTTL/4)
	}
	a.pages.StartJanitor(ctx, a.sessionTTL/4)
	if a.limiter != nil {
		go a.limiter.Run(ctx)
	}
	a.store.Start(ctx)
}

// orderService avoids handing a typed nil to the checkout controller
func (a *App) orderService() service.OrderServiceInterface {
	if a.orders == nil {
		return nil
	}
	return a.orders
}

// Store exposes the catalog store
func (a *App) Store() *service.CatalogStore {
	return a.store
}

// Close releases external connections
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) cartRepository(ctx context.Context, cfg config.Config) (repository.CartSessionRepositoryInterface, error) {
	if cfg.Sessions.RedisURL == "" {
		a.carts = repository.NewMemoryCartRepository(cfg.Sessions.TTL)
		return a.carts, nil
	}
	client, err := repository.NewRedisClient(ctx, cfg.Sessions.RedisURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	a.log.Info("cart sessions stored in redis")
	return repository.NewRedisCartRepository(client, cfg.Sessions.TTL), nil
}

// originChecker accepts websocket upgrades from the configured origins, or from
// the same host when none are configured.
func originChecker(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 {
		return nil
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[strings.TrimRight(o, "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return allowed[u.Scheme+"://"+u.Host]
	}
}
