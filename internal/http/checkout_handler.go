package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shoply/checkout-service-go/internal/checkout"
)

// PricePreview returns the priced breakdown for a cart and an optional coupon
// code. The result is a best-effort estimate: only placement re-validates
// authoritatively.
func (h *Handler) PricePreview(w http.ResponseWriter, r *http.Request) {
	ownerKey := chi.URLParam(r, "ownerKey")
	if ownerKey == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing ownerKey")
		return
	}
	couponCode := r.URL.Query().Get("coupon")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	res, err := h.pricer.Price(ctx, ownerKey, couponCode)
	if err != nil {
		if !writeDomainError(w, err) {
			writeError(w, http.StatusInternalServerError, "internal", "failed to price cart")
		}
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ownerKey := chi.URLParam(r, "ownerKey")
	if ownerKey == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing ownerKey")
		return
	}

	var body struct {
		CouponCode      string `json:"couponCode"`
		CustomerName    string `json:"customerName"`
		ShippingAddress string `json:"shippingAddress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	o, err := h.placer.Place(ctx, checkout.PlaceRequest{
		OwnerKey:        ownerKey,
		CouponCode:      body.CouponCode,
		CustomerName:    body.CustomerName,
		ShippingAddress: body.ShippingAddress,
	})
	if err != nil {
		if !writeDomainError(w, err) {
			writeError(w, http.StatusInternalServerError, "internal", "failed to place order")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"orderId": o.ID,
		"total":   o.Total,
	})
}
