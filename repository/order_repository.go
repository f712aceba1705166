package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tienda-joyas/models"
)

// OrderRepository stores checkout orders in the checkout_orders table.
// Line items are kept as JSONB exactly as they were in the cart.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Ensure OrderRepository implements OrderRepositoryInterface
var _ OrderRepositoryInterface = (*OrderRepository)(nil)

const orderColumns = `id, session_id, status, items, total, item_count, summary, whatsapp_url, created_at, updated_at`

// Create inserts a new order and returns it with the database timestamps
func (r *OrderRepository) Create(ctx context.Context, order models.Order) (models.Order, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to encode order items: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO checkout_orders (id, session_id, status, items, total, item_count, summary, whatsapp_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+orderColumns,
		order.ID, order.SessionID, string(order.Status), items,
		order.Total, order.Count, order.Summary, order.WhatsAppURL,
	)
	created, err := scanOrder(row)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to create order: %w", err)
	}
	return created, nil
}

// GetByID returns one order
func (r *OrderRepository) GetByID(ctx context.Context, id string) (models.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM checkout_orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to fetch order: %w", err)
	}
	return order, nil
}

// List returns the newest orders first, optionally filtered by status
func (r *OrderRepository) List(ctx context.Context, status models.OrderStatus, limit int) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM checkout_orders`
	var args []any
	if status != "" {
		args = append(args, string(status))
		query += fmt.Sprintf(" WHERE status = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return orders, nil
}

// Close moves a pending order to status inside a transaction
func (r *OrderRepository) Close(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM checkout_orders WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to fetch order: %w", err)
	}
	if models.OrderStatus(current) != models.OrderPending {
		return models.Order{}, ErrOrderNotPending
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE checkout_orders
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+orderColumns, id, string(status))
	order, err := scanOrder(row)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to update order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Order{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return order, nil
}

// Report counts the orders created in [from, to) by status and sums the completed ones
func (r *OrderRepository) Report(ctx context.Context, from, to time.Time) (models.SalesReport, error) {
	var report models.SalesReport
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'canceled'),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COALESCE(SUM(item_count) FILTER (WHERE status = 'completed'), 0),
			COALESCE(SUM(total) FILTER (WHERE status = 'completed'), 0)
		FROM checkout_orders
		WHERE created_at >= $1 AND created_at < $2
	`, from, to).Scan(&report.Completed, &report.Canceled, &report.Pending, &report.Units, &report.Revenue)
	if err != nil {
		return models.SalesReport{}, fmt.Errorf("failed to build sales report: %w", err)
	}
	return report, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (models.Order, error) {
	var (
		order  models.Order
		status string
		items  []byte
	)
	if err := row.Scan(
		&order.ID, &order.SessionID, &status, &items, &order.Total, &order.Count,
		&order.Summary, &order.WhatsAppURL, &order.CreatedAt, &order.UpdatedAt,
	); err != nil {
		return models.Order{}, err
	}
	order.Status = models.OrderStatus(status)
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return models.Order{}, fmt.Errorf("failed to decode order items: %w", err)
	}
	return order, nil
}
