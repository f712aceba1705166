package controller

import (
	"net/http"

	"tienda-joyas/logger"
	"tienda-joyas/service"

	"go.uber.org/zap"
)

// ImageController handles HTTP requests for the image cache
type ImageController struct {
	warmer *service.ImageWarmer
}

// NewImageController creates a new ImageController
func NewImageController(warmer *service.ImageWarmer) *ImageController {
	return &ImageController{warmer: warmer}
}

// WarmImages handles POST /api/images/warm
// Generates the missing thumb and medium images of the current catalog
func (c *ImageController) WarmImages(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context()).Info("image warm-up requested")

	stats := c.warmer.WarmCatalog(r.Context())
	if r.Context().Err() != nil {
		logger.FromContext(r.Context()).Warn("image warm-up cut short", zap.Int("generated", stats.Generated))
	}
	writeJSON(w, http.StatusOK, stats)
}
