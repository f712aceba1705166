package controller

import (
	"net/http"
	"strconv"
	"time"

	"tienda-joyas/logger"
	"tienda-joyas/models"
	"tienda-joyas/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderController handles HTTP requests for the checkout order log
type OrderController struct {
	orders service.OrderServiceInterface
	now    func() time.Time
}

const (
	dateLayout        = "2006-01-02"
	defaultReportDays = 30
)

// NewOrderController creates a new OrderController
func NewOrderController(orders service.OrderServiceInterface) *OrderController {
	return &OrderController{orders: orders, now: time.Now}
}

// List handles GET /api/orders?status=&limit=
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status, ok := models.ParseOrderStatus(q.Get("status"))
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_status", "status debe ser pending, completed o canceled")
		return
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			WriteError(w, r, http.StatusBadRequest, "invalid_limit", "limit debe ser un entero positivo")
			return
		}
		limit = n
	}

	orders, err := c.orders.List(r.Context(), status, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// Get handles GET /api/orders/{id}
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	order, err := c.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Complete handles POST /api/orders/{id}/complete
func (c *OrderController) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	order, err := c.orders.Complete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("order completed", zap.String("order_id", id))
	writeJSON(w, http.StatusOK, order)
}

// Cancel handles POST /api/orders/{id}/cancel
func (c *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	order, err := c.orders.Cancel(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("order canceled", zap.String("order_id", id))
	writeJSON(w, http.StatusOK, order)
}

// Report handles GET /api/orders/report?from=YYYY-MM-DD&to=YYYY-MM-DD
// Both dates are inclusive. Defaults to the last 30 days.
func (c *OrderController) Report(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	to := c.now()
	from := to.AddDate(0, 0, -defaultReportDays)

	if raw := q.Get("from"); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, to.Location())
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_date", "from debe tener formato YYYY-MM-DD")
			return
		}
		from = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, to.Location())
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_date", "to debe tener formato YYYY-MM-DD")
			return
		}
		to = t
	}

	report, err := c.orders.Report(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
