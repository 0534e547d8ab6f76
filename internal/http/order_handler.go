package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing orderId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.orders.GetByID(ctx, orderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to load order")
		return
	}
	if o == nil {
		writeError(w, http.StatusNotFound, "order_not_found", "order not found")
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ownerKey := r.URL.Query().Get("owner")
	if ownerKey == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing owner query parameter")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.orders.ListByOwner(ctx, ownerKey)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to load orders")
		return
	}

	writeJSON(w, http.StatusOK, orders)
}
