// Package pricing holds the one deterministic pricing algorithm shared by the
// storefront preview and the order placement path. The two call sites must
// never drift, so neither reimplements any part of this.
package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shoply/checkout-service-go/internal/coupon"
	"github.com/shoply/checkout-service-go/internal/money"
)

// Result is produced fresh on every call and never persisted; an order
// snapshots its fields at placement time instead.
type Result struct {
	Subtotal          decimal.Decimal `json:"subtotal"`
	DiscountAmount    decimal.Decimal `json:"discountAmount"`
	Total             decimal.Decimal `json:"total"`
	AppliedCouponCode *string         `json:"appliedCouponCode"`
}

// CartSource yields a cart's live subtotal.
type CartSource interface {
	Subtotal(ctx context.Context, ownerKey string) (decimal.Decimal, error)
}

// CouponSource validates a code against a subtotal without consuming a use.
type CouponSource interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*coupon.Coupon, error)
}

type Engine struct {
	carts   CartSource
	coupons CouponSource
}

func NewEngine(carts CartSource, coupons CouponSource) *Engine {
	return &Engine{carts: carts, coupons: coupons}
}

// Price computes {subtotal, discount, total} for a cart and an optional
// coupon code. Pure with respect to persisted state: it only reads, so two
// calls with unchanged inputs return identical results.
//
// A failing coupon fails the whole call with the coupon's ValidationError;
// falling back silently to no-discount would hide the reason from the user.
func (e *Engine) Price(ctx context.Context, ownerKey, couponCode string) (Result, error) {
	subtotal, err := e.carts.Subtotal(ctx, ownerKey)
	if err != nil {
		return Result{}, err
	}

	if couponCode == "" {
		return Result{
			Subtotal:       subtotal,
			DiscountAmount: decimal.Zero,
			Total:          subtotal,
		}, nil
	}

	code := coupon.NormalizeCode(couponCode)
	c, err := e.coupons.Validate(ctx, code, subtotal)
	if err != nil {
		return Result{}, err
	}

	discount, err := discountFor(c, subtotal)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Subtotal:          subtotal,
		DiscountAmount:    discount,
		Total:             money.Round2(subtotal.Sub(discount)),
		AppliedCouponCode: &code,
	}, nil
}

// discountFor applies the coupon's rule to the subtotal. The discount never
// exceeds the subtotal, so the total floors at zero.
func discountFor(c *coupon.Coupon, subtotal decimal.Decimal) (decimal.Decimal, error) {
	switch c.DiscountType {
	case coupon.DiscountPercentage:
		return money.Percent(subtotal, c.DiscountValue), nil
	case coupon.DiscountFixed:
		return money.CapAt(money.Round2(c.DiscountValue), subtotal), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("unknown discount type %q", c.DiscountType)
	}
}
