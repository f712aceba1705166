package service

import (
	"context"
	"fmt"

	"tienda-joyas/events"
	"tienda-joyas/logger"
	"tienda-joyas/models"

	"go.uber.org/zap"
)

// WarmStats summarizes one warm-up pass over the catalog images
type WarmStats struct {
	Total     int      `json:"total"`
	Generated int      `json:"generated"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors"`
}

// imageCache is the part of ImageService the warmer needs
type imageCache interface {
	ImageServiceInterface
	Cached(product models.Product, size string) bool
}

// ImageWarmer fills the image cache ahead of the first visitor so catalog
// pages and the printable catalog do not wait on Drive downloads.
// Implements ImageWarmerInterface
type ImageWarmer struct {
	images  imageCache
	catalog CatalogReader
	bus     events.Subscriber
	log     *zap.Logger
}

// NewImageWarmer creates a new ImageWarmer. bus may be nil when Run is not used.
func NewImageWarmer(images imageCache, catalog CatalogReader, bus events.Subscriber, log *zap.Logger) *ImageWarmer {
	return &ImageWarmer{
		images:  images,
		catalog: catalog,
		bus:     bus,
		log:     logger.OrNop(log),
	}
}

// Ensure ImageWarmer implements ImageWarmerInterface
var _ ImageWarmerInterface = (*ImageWarmer)(nil)

var warmSizes = []string{SizeThumb, SizeMedium}

// WarmImages generates every missing thumb and medium image for the products.
// Products without an image are ignored. A failed image is recorded and the pass continues.
func (w *ImageWarmer) WarmImages(ctx context.Context, products []models.Product) WarmStats {
	stats := WarmStats{Errors: []string{}}

	for _, p := range products {
		if p.Image == "" {
			continue
		}
		for _, size := range warmSizes {
			if ctx.Err() != nil {
				w.log.Warn("image warm-up interrupted", zap.Int("generated", stats.Generated))
				return stats
			}
			stats.Total++

			if w.images.Cached(p, size) {
				stats.Skipped++
				continue
			}
			if _, err := w.images.Get(ctx, p, size); err != nil {
				stats.Failed++
				stats.Errors = append(stats.Errors, fmt.Sprintf("%s (%s): %v", p.ID, size, err))
				w.log.Warn("failed to warm image",
					zap.String("product_id", p.ID),
					zap.String("size", size),
					zap.Error(err))
				continue
			}
			stats.Generated++
		}
	}

	w.log.Info("image warm-up completed",
		zap.Int("total", stats.Total),
		zap.Int("generated", stats.Generated),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed))
	return stats
}

// WarmCatalog warms the images of the current catalog snapshot
func (w *ImageWarmer) WarmCatalog(ctx context.Context) WarmStats {
	return w.WarmImages(ctx, w.catalog.Snapshot().Products)
}

// Start subscribes before returning so the first catalog load is not missed,
// then warms the cache after every load until ctx is done
func (w *ImageWarmer) Start(ctx context.Context) {
	updates, cancel := w.bus.Subscribe(1, events.OfType(models.EventCatalogUpdated))
	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-updates:
				if !ok {
					return
				}
				w.WarmCatalog(ctx)
			}
		}
	}()
}
