package router

import (
	"net/http"
	"time"

	"tienda-joyas/app/controller"
	appmw "tienda-joyas/app/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const requestTimeout = 60 * time.Second

// Controllers groups the HTTP handlers mounted by the router
type Controllers struct {
	Catalog  *controller.CatalogController
	Cart     *controller.CartController
	Checkout *controller.CheckoutController
	Events   *controller.EventsController
	Images   *controller.ImageController
	// Mirror and Orders are nil when no database is configured
	Mirror *controller.MirrorController
	Orders *controller.OrderController
}

// Options configures the middleware stack
type Options struct {
	Logger         *zap.Logger
	AllowedOrigins []string
	SessionTTL     time.Duration
	SecureCookies  bool
	// RateLimiter may be nil to disable rate limiting
	RateLimiter *appmw.RateLimiter
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// New builds the HTTP handler with every route of the storefront
func New(controllers *Controllers, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmw.RequestLogger(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(appmw.SecurityHeaders)
	r.Use(corsMiddleware(opts.AllowedOrigins))
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Limit)
	}
	r.Use(appmw.Session(opts.SessionTTL, opts.SecureCookies))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		controller.WriteError(w, r, http.StatusNotFound, "not_found", "Ruta inexistente")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		controller.WriteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "Método no permitido")
	})

	r.Get("/ping", pingHandler)

	// Long lived connection: no request timeout
	r.Get("/ws", controllers.Events.Stream)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Route("/api", func(r chi.Router) {
			r.Get("/catalog", controllers.Catalog.GetCatalog)
			r.Post("/catalog/refetch", controllers.Catalog.Refetch)

			r.Get("/products", controllers.Catalog.ListProducts)
			r.Post("/products/more", controllers.Catalog.MoreProducts)
			r.Get("/products/featured", controllers.Catalog.Featured)
			r.Get("/products/{id}", controllers.Catalog.GetProduct)
			r.Get("/products/{id}/image", controllers.Catalog.GetProductImage)

			r.Get("/cart", controllers.Cart.GetCart)
			r.Post("/cart/items", controllers.Cart.AddItem)
			r.Delete("/cart/items/{id}", controllers.Cart.RemoveItem)
			r.Patch("/cart/items/{id}", controllers.Cart.ChangeQty)
			r.Put("/cart/open", controllers.Cart.SetOpen)

			r.Post("/checkout", controllers.Checkout.Checkout)
			r.Get("/checkout/qr", controllers.Checkout.QR)

			r.Post("/images/warm", controllers.Images.WarmImages)

			if controllers.Mirror != nil {
				r.Post("/mirror/sync", controllers.Mirror.Sync)
				r.Get("/mirror/products", controllers.Mirror.ListProducts)
			}
			if controllers.Orders != nil {
				r.Get("/orders", controllers.Orders.List)
				r.Get("/orders/report", controllers.Orders.Report)
				r.Get("/orders/{id}", controllers.Orders.Get)
				r.Post("/orders/{id}/complete", controllers.Orders.Complete)
				r.Post("/orders/{id}/cancel", controllers.Orders.Cancel)
			}
		})

		r.Get("/catalog/print", controllers.Catalog.PrintCatalog)
		r.Get("/catalog/pdf", controllers.Catalog.DownloadPDF)
	})

	return r
}

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	// Credentials are only allowed for an explicit origin list
	credentials := len(origins) > 0
	if !credentials {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: credentials,
		MaxAge:           300,
	})
	return c.Handler
}
