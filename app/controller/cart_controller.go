package controller

import (
	"net/http"
	"strings"

	"tienda-joyas/app/middleware"
	"tienda-joyas/service"

	"github.com/go-chi/chi/v5"
)

// CartController handles HTTP requests for the shopper's cart
type CartController struct {
	cart service.CartServiceInterface
}

// NewCartController creates a new CartController
func NewCartController(cart service.CartServiceInterface) *CartController {
	return &CartController{cart: cart}
}

// AddItemRequest is the body of POST /api/cart/items
type AddItemRequest struct {
	ProductID string `json:"productId"`
}

// ChangeQtyRequest is the body of PATCH /api/cart/items/{id}
type ChangeQtyRequest struct {
	Delta *int `json:"delta"`
}

// SetOpenRequest is the body of PUT /api/cart/open
type SetOpenRequest struct {
	Open *bool `json:"open"`
}

// GetCart handles GET /api/cart
func (c *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := c.cart.Get(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// AddItem handles POST /api/cart/items
func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_product_id", "productId es obligatorio")
		return
	}

	view, err := c.cart.AddProduct(r.Context(), middleware.SessionID(r.Context()), req.ProductID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// RemoveItem handles DELETE /api/cart/items/{id}
func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	view, err := c.cart.RemoveItem(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ChangeQty handles PATCH /api/cart/items/{id}
func (c *CartController) ChangeQty(w http.ResponseWriter, r *http.Request) {
	var req ChangeQtyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Delta == nil {
		WriteError(w, r, http.StatusBadRequest, "missing_delta", "delta es obligatorio")
		return
	}

	view, err := c.cart.ChangeQty(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "id"), *req.Delta)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SetOpen handles PUT /api/cart/open
func (c *CartController) SetOpen(w http.ResponseWriter, r *http.Request) {
	var req SetOpenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Open == nil {
		WriteError(w, r, http.StatusBadRequest, "missing_open", "open es obligatorio")
		return
	}

	view, err := c.cart.SetOpen(r.Context(), middleware.SessionID(r.Context()), *req.Open)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
