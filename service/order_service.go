package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tienda-joyas/logger"
	"tienda-joyas/models"
	"tienda-joyas/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultOrderListLimit = 50
	maxOrderListLimit     = 500

	reportDateLayout = "2006-01-02"
)

// ErrInvalidRange is returned when a report starts after it ends
var ErrInvalidRange = errors.New("invalid date range")

// OrderService keeps a log of the carts handed over to WhatsApp.
// Implements OrderServiceInterface
type OrderService struct {
	repository repository.OrderRepositoryInterface
	newID      func() string
	log        *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(repo repository.OrderRepositoryInterface, log *zap.Logger) *OrderService {
	return &OrderService{
		repository: repo,
		newID:      uuid.NewString,
		log:        logger.OrNop(log),
	}
}

// Ensure OrderService implements OrderServiceInterface
var _ OrderServiceInterface = (*OrderService)(nil)

// Record stores the cart as a pending order
func (s *OrderService) Record(ctx context.Context, sessionID string, cart models.CartView, checkout Checkout) (models.Order, error) {
	if len(cart.Items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	items := make([]models.CartItem, len(cart.Items))
	copy(items, cart.Items)

	order, err := s.repository.Create(ctx, models.Order{
		ID:          s.newID(),
		SessionID:   sessionID,
		Status:      models.OrderPending,
		Items:       items,
		Total:       cart.Total,
		Count:       cart.Count,
		Summary:     checkout.Summary,
		WhatsAppURL: checkout.URL,
	})
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to record order: %w", err)
	}

	s.log.Info("order recorded",
		zap.String("order_id", order.ID),
		zap.String("session_id", sessionID),
		zap.Int("items", order.Count),
		zap.Float64("total", order.Total))
	return order, nil
}

// Get returns one order
func (s *OrderService) Get(ctx context.Context, id string) (models.Order, error) {
	return s.repository.GetByID(ctx, id)
}

// List returns the newest orders first. limit is clamped to [1, 500] with 50 as default.
func (s *OrderService) List(ctx context.Context, status models.OrderStatus, limit int) ([]models.Order, error) {
	switch {
	case limit <= 0:
		limit = defaultOrderListLimit
	case limit > maxOrderListLimit:
		limit = maxOrderListLimit
	}
	return s.repository.List(ctx, status, limit)
}

// Complete marks a pending order as sold
func (s *OrderService) Complete(ctx context.Context, id string) (models.Order, error) {
	return s.close(ctx, id, models.OrderCompleted)
}

// Cancel marks a pending order as abandoned
func (s *OrderService) Cancel(ctx context.Context, id string) (models.Order, error) {
	return s.close(ctx, id, models.OrderCanceled)
}

// Report aggregates the orders created from the start of from to the end of to
func (s *OrderService) Report(ctx context.Context, from, to time.Time) (models.SalesReport, error) {
	start := truncateDay(from)
	end := truncateDay(to)
	if end.Before(start) {
		return models.SalesReport{}, ErrInvalidRange
	}

	report, err := s.repository.Report(ctx, start, end.AddDate(0, 0, 1))
	if err != nil {
		return models.SalesReport{}, err
	}
	report.From = start.Format(reportDateLayout)
	report.To = end.Format(reportDateLayout)
	return report, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *OrderService) close(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	order, err := s.repository.Close(ctx, id, status)
	if err != nil {
		return models.Order{}, err
	}
	s.log.Info("order closed", zap.String("order_id", id), zap.String("status", string(status)))
	return order, nil
}
