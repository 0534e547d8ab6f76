package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/shoply/checkout-service-go/internal/catalog"
	"github.com/shoply/checkout-service-go/internal/coupon"
)

func (h *Handler) SetStock(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")
	if sku == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing sku")
		return
	}

	var body struct {
		Stock int `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Stock < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "stock must be a non-negative integer")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.stock.SetStockBySKU(ctx, sku, body.Stock); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "variant_not_found", "variant not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", "failed to set stock")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type createCouponRequest struct {
	Code              string           `json:"code"`
	DiscountType      string           `json:"discountType"`
	DiscountValue     decimal.Decimal  `json:"discountValue"`
	ExpiresAt         *time.Time       `json:"expiresAt,omitempty"`
	MaxUses           int              `json:"maxUses"`
	MinPurchaseAmount *decimal.Decimal `json:"minPurchaseAmount,omitempty"`
	IsActive          *bool            `json:"isActive,omitempty"`
}

func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req createCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}

	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing code")
		return
	}
	dt := coupon.DiscountType(req.DiscountType)
	if dt != coupon.DiscountPercentage && dt != coupon.DiscountFixed {
		writeError(w, http.StatusBadRequest, "bad_request", "discountType must be percentage or fixed_amount")
		return
	}
	if req.DiscountValue.IsNegative() {
		writeError(w, http.StatusBadRequest, "bad_request", "discountValue must not be negative")
		return
	}
	if dt == coupon.DiscountPercentage && req.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		writeError(w, http.StatusBadRequest, "bad_request", "percentage discount must be between 0 and 100")
		return
	}
	if req.MaxUses < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "maxUses must not be negative")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	c := &coupon.Coupon{
		Code:              req.Code,
		DiscountType:      dt,
		DiscountValue:     req.DiscountValue,
		ExpiresAt:         req.ExpiresAt,
		MaxUses:           req.MaxUses,
		MinPurchaseAmount: req.MinPurchaseAmount,
		IsActive:          active,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.coupons.Create(ctx, c); err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to create coupon")
		return
	}

	writeJSON(w, http.StatusCreated, c)
}
