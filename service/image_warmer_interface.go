package service

import (
	"context"

	"tienda-joyas/models"
)

// ImageWarmerInterface defines the contract for pre-generating product images
type ImageWarmerInterface interface {
	WarmImages(ctx context.Context, products []models.Product) WarmStats
}
