package service

import (
	"context"
	"fmt"

	"tienda-joyas/events"
	"tienda-joyas/logger"
	"tienda-joyas/models"
	"tienda-joyas/pricing"
	"tienda-joyas/repository"

	"go.uber.org/zap"
)

// CatalogReader exposes the current catalog snapshot
type CatalogReader interface {
	Snapshot() models.CatalogSnapshot
}

// CartServiceInterface defines the contract for per-session cart operations
type CartServiceInterface interface {
	Get(ctx context.Context, sessionID string) (models.CartView, error)
	AddProduct(ctx context.Context, sessionID, productID string) (models.CartView, error)
	RemoveItem(ctx context.Context, sessionID, productID string) (models.CartView, error)
	ChangeQty(ctx context.Context, sessionID, productID string, delta int) (models.CartView, error)
	SetOpen(ctx context.Context, sessionID string, open bool) (models.CartView, error)
	Clear(ctx context.Context, sessionID string) error
}

// CartService applies cart intents to the cart stored for a session and
// notifies the session through the event bus.
type CartService struct {
	repo    repository.CartSessionRepositoryInterface
	catalog CatalogReader
	bus     events.Publisher
	log     *zap.Logger
}

// NewCartService creates a new CartService. bus may be nil.
func NewCartService(repo repository.CartSessionRepositoryInterface, catalog CatalogReader, bus events.Publisher, log *zap.Logger) *CartService {
	return &CartService{
		repo:    repo,
		catalog: catalog,
		bus:     bus,
		log:     logger.OrNop(log),
	}
}

// Ensure CartService implements CartServiceInterface
var _ CartServiceInterface = (*CartService)(nil)

// Get returns the cart of the session
func (s *CartService) Get(ctx context.Context, sessionID string) (models.CartView, error) {
	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return models.CartView{}, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart.View(), nil
}

// AddProduct adds one unit of a catalog product at its effective price
func (s *CartService) AddProduct(ctx context.Context, sessionID, productID string) (models.CartView, error) {
	product, ok := s.catalog.Snapshot().FindProduct(productID)
	if !ok {
		return models.CartView{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	view, err := s.update(ctx, sessionID, func(c *models.Cart) {
		c.AddItem(pricing.ForCart(product))
	})
	if err != nil {
		return models.CartView{}, err
	}

	s.log.Debug("product added to cart", zap.String("session_id", sessionID), zap.String("product_id", productID))
	s.publish(events.Toast(sessionID, fmt.Sprintf("%s agregado al carrito", product.Name)))
	return view, nil
}

// RemoveItem deletes a line whatever its quantity
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID string) (models.CartView, error) {
	return s.update(ctx, sessionID, func(c *models.Cart) {
		c.RemoveItem(productID)
	})
}

// ChangeQty adds delta to a line quantity; lines reaching zero disappear
func (s *CartService) ChangeQty(ctx context.Context, sessionID, productID string, delta int) (models.CartView, error) {
	return s.update(ctx, sessionID, func(c *models.Cart) {
		c.ChangeQty(productID, delta)
	})
}

// SetOpen sets the visibility flag of the cart panel
func (s *CartService) SetOpen(ctx context.Context, sessionID string, open bool) (models.CartView, error) {
	return s.update(ctx, sessionID, func(c *models.Cart) {
		c.SetOpen(open)
	})
}

// Clear drops the cart of the session
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	s.publish(models.Event{Type: models.EventCartUpdated, SessionID: sessionID, Payload: models.Cart{}.View()})
	return nil
}

func (s *CartService) update(ctx context.Context, sessionID string, apply func(c *models.Cart)) (models.CartView, error) {
	cart, err := s.repo.Update(ctx, sessionID, func(c *models.Cart) error {
		apply(c)
		return nil
	})
	if err != nil {
		return models.CartView{}, fmt.Errorf("failed to update cart: %w", err)
	}
	view := cart.View()
	s.publish(models.Event{Type: models.EventCartUpdated, SessionID: sessionID, Payload: view})
	return view, nil
}

func (s *CartService) publish(evt models.Event) {
	if s.bus != nil {
		s.bus.Publish(evt)
	}
}
