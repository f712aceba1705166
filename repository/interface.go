package repository

import (
	"context"
	"errors"
	"time"

	"tienda-joyas/models"
)

var (
	// ErrOrderNotFound is returned when no order has the given id
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderNotPending is returned when completing or canceling a closed order
	ErrOrderNotPending = errors.New("order is not pending")
)

// CartSessionRepositoryInterface defines the contract for cart storage keyed by session id
type CartSessionRepositoryInterface interface {
	// Get returns the cart of the session, or an empty cart when none is stored
	Get(ctx context.Context, sessionID string) (models.Cart, error)
	// Update applies fn to the stored cart and saves the result atomically
	Update(ctx context.Context, sessionID string, fn func(cart *models.Cart) error) (models.Cart, error)
	Delete(ctx context.Context, sessionID string) error
}

// ProductRepositoryInterface defines the contract for the catalog mirror table
type ProductRepositoryInterface interface {
	// UpsertProducts inserts or updates the products and marks them active
	UpsertProducts(ctx context.Context, products []models.Product) (int, error)
	// DeactivateMissing marks every active product whose id is not in ids as inactive
	DeactivateMissing(ctx context.Context, ids []string) (int, error)
	ListActive(ctx context.Context) ([]models.Product, error)
}

// OrderRepositoryInterface defines the contract for the checkout order log
type OrderRepositoryInterface interface {
	Create(ctx context.Context, order models.Order) (models.Order, error)
	GetByID(ctx context.Context, id string) (models.Order, error)
	// List returns the newest orders first. An empty status returns every order.
	List(ctx context.Context, status models.OrderStatus, limit int) ([]models.Order, error)
	// Close moves a pending order to the given status
	Close(ctx context.Context, id string, status models.OrderStatus) (models.Order, error)
	// Report aggregates orders created in [from, to)
	Report(ctx context.Context, from, to time.Time) (models.SalesReport, error)
}
