package service

import (
	"context"

	"tienda-joyas/models"
)

// SyncServiceInterface defines the contract for mirroring the catalog into PostgreSQL
type SyncServiceInterface interface {
	// SyncProducts upserts the products and deactivates rows missing from them.
	// Upserted = rows written, Deactivated = rows marked inactive, Total = products seen.
	SyncProducts(ctx context.Context, products []models.Product) (models.SyncStats, error)
	// SyncCatalog mirrors the current catalog snapshot
	SyncCatalog(ctx context.Context) (models.SyncStats, error)
	// ListMirrored returns the active rows of the mirror
	ListMirrored(ctx context.Context) ([]models.Product, error)
	// Start subscribes synchronously, then mirrors every committed catalog snapshot until ctx is done
	Start(ctx context.Context)
}
