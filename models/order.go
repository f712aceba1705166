package models

import "time"

// OrderStatus is the lifecycle state of a checkout order
type OrderStatus string

const (
	// OrderPending is set when the order is handed to WhatsApp
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCanceled  OrderStatus = "canceled"
)

// ParseOrderStatus validates a status filter. Empty input means no filter.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch s := OrderStatus(raw); s {
	case "", OrderPending, OrderCompleted, OrderCanceled:
		return s, true
	}
	return "", false
}

// Order is a cart handed over to WhatsApp, kept so the seller can match the chat
// with what the customer saw when checking out
type Order struct {
	ID          string      `json:"id"`
	SessionID   string      `json:"sessionId"`
	Status      OrderStatus `json:"status"`
	Items       []CartItem  `json:"items"`
	Total       float64     `json:"total"`
	Count       int         `json:"count"`
	Summary     string      `json:"summary"`
	WhatsAppURL string      `json:"whatsappUrl"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// SalesReport aggregates the closed orders created in [From, To]
type SalesReport struct {
	From      string  `json:"from"` // YYYY-MM-DD
	To        string  `json:"to"`   // YYYY-MM-DD, inclusive
	Completed int     `json:"completed"`
	Canceled  int     `json:"canceled"`
	Pending   int     `json:"pending"`
	Units     int     `json:"units"`   // Items sold in completed orders
	Revenue   float64 `json:"revenue"` // Total of completed orders
}
