package service

import (
	"context"
	"fmt"

	"tienda-joyas/events"
	"tienda-joyas/logger"
	"tienda-joyas/models"
	"tienda-joyas/repository"

	"go.uber.org/zap"
)

// SyncService mirrors catalog snapshots into PostgreSQL
// Implements SyncServiceInterface
type SyncService struct {
	repository repository.ProductRepositoryInterface
	catalog    CatalogReader
	bus        events.Subscriber
	log        *zap.Logger
}

// NewSyncService creates a new SyncService
func NewSyncService(repo repository.ProductRepositoryInterface, catalog CatalogReader, bus events.Subscriber, log *zap.Logger) *SyncService {
	return &SyncService{
		repository: repo,
		catalog:    catalog,
		bus:        bus,
		log:        logger.OrNop(log),
	}
}

// Ensure SyncService implements SyncServiceInterface
var _ SyncServiceInterface = (*SyncService)(nil)

// SyncProducts writes the snapshot products and deactivates the ones no longer listed
func (s *SyncService) SyncProducts(ctx context.Context, products []models.Product) (models.SyncStats, error) {
	stats := models.SyncStats{Total: len(products)}

	upserted, err := s.repository.UpsertProducts(ctx, products)
	if err != nil {
		return stats, fmt.Errorf("failed to upsert products: %w", err)
	}
	stats.Upserted = upserted

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	deactivated, err := s.repository.DeactivateMissing(ctx, ids)
	if err != nil {
		return stats, fmt.Errorf("failed to deactivate products: %w", err)
	}
	stats.Deactivated = deactivated

	s.log.Info("catalog mirrored",
		zap.Int("upserted", stats.Upserted),
		zap.Int("deactivated", stats.Deactivated),
		zap.Int("total", stats.Total),
	)
	return stats, nil
}

// SyncCatalog mirrors the current catalog snapshot
func (s *SyncService) SyncCatalog(ctx context.Context) (models.SyncStats, error) {
	return s.SyncProducts(ctx, s.catalog.Snapshot().Products)
}

// ListMirrored returns the active products stored in the mirror
func (s *SyncService) ListMirrored(ctx context.Context) ([]models.Product, error) {
	products, err := s.repository.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list mirrored products: %w", err)
	}
	return products, nil
}

// Start subscribes to catalog updates before returning and mirrors the current
// snapshot after each one until ctx is done.
func (s *SyncService) Start(ctx context.Context) {
	updates, cancel := s.bus.Subscribe(4, events.OfType(models.EventCatalogUpdated))
	go s.consume(ctx, updates, cancel)
}

func (s *SyncService) consume(ctx context.Context, updates <-chan models.Event, cancel func()) {
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			if _, err := s.SyncCatalog(ctx); err != nil {
				s.log.Error("catalog mirror failed", zap.Error(err))
			}
		}
	}
}
