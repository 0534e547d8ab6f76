package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shoply/checkout-service-go/internal/cart"
	"github.com/shoply/checkout-service-go/internal/catalog"
	"github.com/shoply/checkout-service-go/internal/checkout"
	"github.com/shoply/checkout-service-go/internal/coupon"
)

type errorBody struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, detail string) {
	writeJSON(w, status, errorBody{Kind: kind, Detail: detail})
}

// writeDomainError maps business errors to structured responses. Coupon and
// stock rejections are precise and user-facing; anything unrecognized is an
// infrastructure failure.
func writeDomainError(w http.ResponseWriter, err error) bool {
	var verr *coupon.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusUnprocessableEntity, string(verr.Kind), verr.Error())
		return true
	}

	var stockErr *catalog.InsufficientStockError
	if errors.As(err, &stockErr) {
		writeError(w, http.StatusConflict, "insufficient_stock", stockErr.Error())
		return true
	}

	switch {
	case errors.Is(err, cart.ErrNotFound):
		writeError(w, http.StatusNotFound, "cart_not_found", "cart not found")
	case errors.Is(err, cart.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "item_not_found", "cart item not found")
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "variant_not_found", "variant not found")
	case errors.Is(err, coupon.ErrNotFound):
		writeError(w, http.StatusNotFound, "coupon_not_found", "coupon not found")
	case errors.Is(err, cart.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusUnprocessableEntity, "cart_empty", "cart has no items")
	default:
		return false
	}
	return true
}
