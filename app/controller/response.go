package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"tienda-joyas/logger"
	"tienda-joyas/service"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// errorBody is the JSON error envelope returned by every endpoint
type errorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Status    int    `json:"status"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the JSON error envelope
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, errorBody{
		Error:     code,
		Message:   message,
		Status:    status,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// writeServiceError maps service errors to HTTP statuses
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		WriteError(w, r, http.StatusNotFound, "product_not_found", "El producto no existe en el catálogo")
	case errors.Is(err, service.ErrEmptyCart):
		WriteError(w, r, http.StatusConflict, "empty_cart", "El carrito está vacío")
	case errors.Is(err, service.ErrOrderNotFound):
		WriteError(w, r, http.StatusNotFound, "order_not_found", "El pedido no existe")
	case errors.Is(err, service.ErrOrderNotPending):
		WriteError(w, r, http.StatusConflict, "order_not_pending", "El pedido ya fue cerrado")
	case errors.Is(err, service.ErrInvalidRange):
		WriteError(w, r, http.StatusBadRequest, "invalid_range", "La fecha inicial es posterior a la final")
	case errors.Is(err, service.ErrNoImage):
		WriteError(w, r, http.StatusNotFound, "no_image", "El producto no tiene imagen")
	case errors.Is(err, service.ErrFeedStatus):
		logger.FromContext(r.Context()).Warn("upstream request failed", zap.Error(err))
		WriteError(w, r, http.StatusBadGateway, "upstream_error", "No se pudo obtener el recurso")
	default:
		logger.FromContext(r.Context()).Error("request failed", zap.Error(err))
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "Ocurrió un error inesperado")
	}
}

// decodeJSON reads a JSON body into v, rejecting unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		message := "Cuerpo JSON inválido"
		if errors.Is(err, io.EOF) {
			message = "Falta el cuerpo de la solicitud"
		}
		WriteError(w, r, http.StatusBadRequest, "invalid_body", message)
		return false
	}
	return true
}
