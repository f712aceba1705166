package service

import (
	"context"
	"time"

	"tienda-joyas/models"
)

// OrderServiceInterface defines the contract for the checkout order log
type OrderServiceInterface interface {
	// Record stores the checkout of a cart as a pending order
	Record(ctx context.Context, sessionID string, cart models.CartView, checkout Checkout) (models.Order, error)
	Get(ctx context.Context, id string) (models.Order, error)
	List(ctx context.Context, status models.OrderStatus, limit int) ([]models.Order, error)
	Complete(ctx context.Context, id string) (models.Order, error)
	Cancel(ctx context.Context, id string) (models.Order, error)
	// Report aggregates the orders created between two dates, both inclusive
	Report(ctx context.Context, from, to time.Time) (models.SalesReport, error)
}
