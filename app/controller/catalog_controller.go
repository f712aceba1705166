package controller

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"tienda-joyas/app/middleware"
	"tienda-joyas/logger"
	"tienda-joyas/models"
	"tienda-joyas/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const catalogTitle = "Catálogo de Joyas"

// CatalogController handles HTTP requests for browsing the catalog
type CatalogController struct {
	store    service.CatalogStoreInterface
	images   service.ImageServiceInterface
	printer  service.PrintServiceInterface
	pages    *service.BrowseSessions
	pageSize int
	baseURL  string
}

// NewCatalogController creates a new CatalogController. With nil pages every
// listing is stateless and shows one page unless visible is given.
func NewCatalogController(
	store service.CatalogStoreInterface,
	images service.ImageServiceInterface,
	printer service.PrintServiceInterface,
	pages *service.BrowseSessions,
	pageSize int,
	baseURL string,
) *CatalogController {
	return &CatalogController{
		store:    store,
		images:   images,
		printer:  printer,
		pages:    pages,
		pageSize: pageSize,
		baseURL:  baseURL,
	}
}

// GetCatalog handles GET /api/catalog
func (c *CatalogController) GetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.store.Snapshot())
}

// Refetch handles POST /api/catalog/refetch
// The reload runs in the background; the response carries the loading flags.
func (c *CatalogController) Refetch(w http.ResponseWriter, r *http.Request) {
	snap := c.store.Trigger()
	logger.FromContext(r.Context()).Info("catalog refetch requested")
	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":  snap.Status,
		"loading": snap.Loading,
		"error":   snap.Error,
	})
}

// ListProducts handles GET /api/products?category=&material=&q=&visible=
// Without visible the session's load-more cursor decides how many products are shown.
func (c *CatalogController) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state := c.filterState(q)

	visible := 0
	if raw := q.Get("visible"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteError(w, r, http.StatusBadRequest, "invalid_visible", "visible debe ser un entero positivo")
			return
		}
		visible = n
	}

	snap := c.store.Snapshot()
	sessionID := middleware.SessionID(r.Context())
	var result models.BrowseResult
	if visible == 0 && c.pages != nil && sessionID != "" {
		result = c.pages.List(sessionID, snap.Products, state)
	} else {
		result = service.Browse(snap.Products, state, visible)
	}
	writeBrowse(w, result, snap)
}

// MoreProducts handles POST /api/products/more?category=&material=&q=
func (c *CatalogController) MoreProducts(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())
	if c.pages == nil || sessionID == "" {
		WriteError(w, r, http.StatusBadRequest, "no_session", "La sesión no admite paginación")
		return
	}

	snap := c.store.Snapshot()
	result := c.pages.More(sessionID, snap.Products, c.filterState(r.URL.Query()))
	writeBrowse(w, result, snap)
}

func (c *CatalogController) filterState(q url.Values) models.FilterState {
	return models.FilterState{
		Category: strings.TrimSpace(q.Get("category")),
		Material: strings.TrimSpace(q.Get("material")),
		Search:   q.Get("q"),
		PageSize: c.pageSize,
	}
}

func writeBrowse(w http.ResponseWriter, result models.BrowseResult, snap models.CatalogSnapshot) {
	writeJSON(w, http.StatusOK, struct {
		models.BrowseResult
		Loading bool    `json:"loading"`
		Error   *string `json:"error"`
	}{
		BrowseResult: result,
		Loading:      snap.Loading,
		Error:        snap.Error,
	})
}

// Featured handles GET /api/products/featured
func (c *CatalogController) Featured(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, service.Featured(c.store.Snapshot().Products))
}

// GetProduct handles GET /api/products/{id}
func (c *CatalogController) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := c.store.Snapshot().FindProduct(chi.URLParam(r, "id"))
	if !ok {
		writeServiceError(w, r, service.ErrProductNotFound)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		models.Product
		EffectivePrice float64 `json:"effectivePrice"`
	}{Product: product, EffectivePrice: product.EffectivePrice()})
}

// GetProductImage handles GET /api/products/{id}/image?size=thumb|medium
func (c *CatalogController) GetProductImage(w http.ResponseWriter, r *http.Request) {
	product, ok := c.store.Snapshot().FindProduct(chi.URLParam(r, "id"))
	if !ok {
		writeServiceError(w, r, service.ErrProductNotFound)
		return
	}

	data, err := c.images.Get(r.Context(), product, r.URL.Query().Get("size"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// PrintCatalog handles GET /catalog/print
func (c *CatalogController) PrintCatalog(w http.ResponseWriter, r *http.Request) {
	products := c.store.Snapshot().Products
	if category := r.URL.Query().Get("category"); category != "" {
		products = service.FilterProducts(products, models.FilterState{Category: category})
	}

	html, err := c.printer.RenderCatalogHTML(products, catalogTitle)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// DownloadPDF handles GET /catalog/pdf
func (c *CatalogController) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	renderURL := c.baseURL + "/catalog/print"
	if category := r.URL.Query().Get("category"); category != "" {
		renderURL += "?category=" + url.QueryEscape(category)
	}

	pdf, err := c.printer.GeneratePDF(r.Context(), renderURL)
	if err != nil {
		logger.FromContext(r.Context()).Error("catalog PDF failed", zap.Error(err))
		WriteError(w, r, http.StatusInternalServerError, "pdf_failed", "No se pudo generar el PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="catalogo.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	_, _ = w.Write(pdf)
}
