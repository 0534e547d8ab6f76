package httpapi

import (
	"context"
	"net/http"

	"github.com/shoply/checkout-service-go/internal/cart"
	"github.com/shoply/checkout-service-go/internal/checkout"
	"github.com/shoply/checkout-service-go/internal/coupon"
	"github.com/shoply/checkout-service-go/internal/order"
	"github.com/shoply/checkout-service-go/internal/pricing"
)

// CartService is the cart aggregate surface the handlers need.
type CartService interface {
	Get(ctx context.Context, ownerKey string) (*cart.Cart, error)
	AddItem(ctx context.Context, ownerKey, variantID string, quantity int) (*cart.Cart, error)
	UpdateItem(ctx context.Context, itemID string, quantity int) error
	RemoveItem(ctx context.Context, itemID string) error
	Clear(ctx context.Context, ownerKey string) error
}

// Pricer previews a cart's price; the same engine backs order placement.
type Pricer interface {
	Price(ctx context.Context, ownerKey, couponCode string) (pricing.Result, error)
}

// OrderPlacer runs the placement state machine.
type OrderPlacer interface {
	Place(ctx context.Context, req checkout.PlaceRequest) (*order.Order, error)
}

// StockAdmin seeds variant stock (ops tooling and tests).
type StockAdmin interface {
	SetStockBySKU(ctx context.Context, sku string, stock int) error
}

// CouponAdmin creates coupon definitions.
type CouponAdmin interface {
	Create(ctx context.Context, c *coupon.Coupon) error
}

type Handler struct {
	carts   CartService
	pricer  Pricer
	placer  OrderPlacer
	orders  order.Repository
	stock   StockAdmin
	coupons CouponAdmin
}

func NewHandler(carts CartService, pricer Pricer, placer OrderPlacer, orders order.Repository, stock StockAdmin, coupons CouponAdmin) *Handler {
	return &Handler{
		carts:   carts,
		pricer:  pricer,
		placer:  placer,
		orders:  orders,
		stock:   stock,
		coupons: coupons,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
