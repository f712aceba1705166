package controller

import (
	"net/http"

	"tienda-joyas/service"
)

// MirrorController handles HTTP requests for the PostgreSQL catalog mirror
type MirrorController struct {
	syncService service.SyncServiceInterface
}

// NewMirrorController creates a new MirrorController
func NewMirrorController(syncService service.SyncServiceInterface) *MirrorController {
	return &MirrorController{syncService: syncService}
}

// Sync handles POST /api/mirror/sync
// Writes the current catalog snapshot to the database and returns the counts
func (c *MirrorController) Sync(w http.ResponseWriter, r *http.Request) {
	stats, err := c.syncService.SyncCatalog(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ListProducts handles GET /api/mirror/products
// Returns the active products stored in the mirror
func (c *MirrorController) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := c.syncService.ListMirrored(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}
