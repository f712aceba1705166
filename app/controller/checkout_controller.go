package controller

import (
	"net/http"
	"strconv"

	"tienda-joyas/app/middleware"
	"tienda-joyas/logger"
	"tienda-joyas/service"

	"go.uber.org/zap"
)

const maxQRSize = 1024

// CheckoutController hands the cart over to WhatsApp
type CheckoutController struct {
	cart     service.CartServiceInterface
	checkout *service.CheckoutService
	orders   service.OrderServiceInterface
}

// NewCheckoutController creates a new CheckoutController. orders may be nil
// when no order log is kept.
func NewCheckoutController(cart service.CartServiceInterface, checkout *service.CheckoutService, orders service.OrderServiceInterface) *CheckoutController {
	return &CheckoutController{cart: cart, checkout: checkout, orders: orders}
}

// Checkout handles POST /api/checkout
func (c *CheckoutController) Checkout(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())
	view, err := c.cart.Get(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	checkout, err := c.checkout.Build(view)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// The chat link still works when the log is down
	if c.orders != nil {
		order, err := c.orders.Record(r.Context(), sessionID, view, checkout)
		if err != nil {
			logger.FromContext(r.Context()).Error("failed to record order", zap.Error(err))
		} else {
			checkout.OrderID = order.ID
		}
	}
	writeJSON(w, http.StatusOK, checkout)
}

// QR handles GET /api/checkout/qr?size=
func (c *CheckoutController) QR(w http.ResponseWriter, r *http.Request) {
	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxQRSize {
			WriteError(w, r, http.StatusBadRequest, "invalid_size", "size debe estar entre 1 y 1024")
			return
		}
		size = n
	}

	view, err := c.cart.Get(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	png, err := c.checkout.QR(view, size)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}
