// Package checkout owns order placement. Preview pricing is a pure read; this
// is the only place where stock, coupon usage and order rows are mutated, and
// all of it happens inside one database transaction.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/shoply/checkout-service-go/internal/cart"
	"github.com/shoply/checkout-service-go/internal/catalog"
	"github.com/shoply/checkout-service-go/internal/coupon"
	"github.com/shoply/checkout-service-go/internal/order"
	"github.com/shoply/checkout-service-go/internal/pricing"
)

// State tracks the placement lifecycle: Draft -> Pricing -> StockReserved ->
// Committed, with Rejected reachable from Pricing and StockReserved.
type State string

const (
	StateDraft         State = "draft"
	StatePricing       State = "pricing"
	StateStockReserved State = "stock_reserved"
	StateCommitted     State = "committed"
	StateRejected      State = "rejected"
)

var ErrEmptyCart = errors.New("cart has no items")

// Rejection reports a placement refused for a business reason. It is never
// retried automatically: sold-out stock or an exhausted coupon is a
// legitimate condition the customer has to react to, not a transient fault.
type Rejection struct {
	From State
	Err  error
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("order rejected at %s: %v", r.From, r.Err)
}

func (r *Rejection) Unwrap() error { return r.Err }

// CartLoader supplies the cart with live-priced lines.
type CartLoader interface {
	Get(ctx context.Context, ownerKey string) (*cart.Cart, error)
}

// Pricer is the shared pricing engine; placement never trusts a
// client-supplied total.
type Pricer interface {
	Price(ctx context.Context, ownerKey, couponCode string) (pricing.Result, error)
}

// StockTx opens the placement transaction and reserves stock inside it.
type StockTx interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	ReserveWithTx(ctx context.Context, tx pgx.Tx, lines []catalog.Line) (catalog.ReserveResult, error)
}

// CouponStore resolves the applied code and commits its usage.
type CouponStore interface {
	FindByCode(ctx context.Context, code string) (*coupon.Coupon, error)
	CommitUsageWithTx(ctx context.Context, tx pgx.Tx, couponID string) error
}

// Publisher emits the post-commit OrderPlaced event. Best effort: a publish
// failure is logged, never unwinds the committed order.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, o *order.Order) error
}

type PlaceRequest struct {
	OwnerKey        string
	CouponCode      string
	CustomerName    string
	ShippingAddress string
}

type Guard struct {
	carts     CartLoader
	pricer    Pricer
	stock     StockTx
	coupons   CouponStore
	writer    Writer
	publisher Publisher
	log       *logrus.Logger
	now       func() time.Time
}

func NewGuard(carts CartLoader, pricer Pricer, stock StockTx, coupons CouponStore, writer Writer, publisher Publisher, log *logrus.Logger) *Guard {
	if log == nil {
		log = logrus.New()
	}
	return &Guard{
		carts:     carts,
		pricer:    pricer,
		stock:     stock,
		coupons:   coupons,
		writer:    writer,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Place runs the full placement state machine and returns the committed
// order. Business rejections come back as *Rejection wrapping the precise
// coupon or stock error; anything else is an infrastructure failure that has
// been fully rolled back.
func (g *Guard) Place(ctx context.Context, req PlaceRequest) (*order.Order, error) {
	// Draft: load the cart under the customer's key.
	c, err := g.carts.Get(ctx, req.OwnerKey)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// Pricing: recompute with the shared engine. A failing coupon rejects
	// the placement with the validation error intact.
	priced, err := g.pricer.Price(ctx, req.OwnerKey, req.CouponCode)
	if err != nil {
		var verr *coupon.ValidationError
		if errors.As(err, &verr) {
			return nil, &Rejection{From: StatePricing, Err: verr}
		}
		return nil, err
	}

	var couponID *string
	if priced.AppliedCouponCode != nil {
		cp, err := g.coupons.FindByCode(ctx, *priced.AppliedCouponCode)
		if err != nil {
			return nil, err
		}
		couponID = &cp.ID
	}

	lines := make([]catalog.Line, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, catalog.Line{VariantID: it.VariantID, Quantity: it.Quantity})
	}

	// StockReserved and Committed share one transaction: stock decrements,
	// usage increment, order snapshot and cart clear all land together or
	// not at all.
	tx, err := g.stock.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	reserved, err := g.stock.ReserveWithTx(ctx, tx, lines)
	if err != nil {
		return nil, err
	}
	if len(reserved.Short) > 0 {
		return nil, &Rejection{
			From: StateStockReserved,
			Err:  &catalog.InsufficientStockError{Short: reserved.Short},
		}
	}

	o := &order.Order{
		CartID:          c.ID,
		OwnerKey:        req.OwnerKey,
		Subtotal:        priced.Subtotal,
		DiscountAmount:  priced.DiscountAmount,
		Total:           priced.Total,
		CouponID:        couponID,
		CustomerName:    req.CustomerName,
		ShippingAddress: req.ShippingAddress,
		CreatedAt:       g.now().UTC(),
	}
	for _, it := range c.Items {
		o.Items = append(o.Items, order.Item{
			VariantID: it.VariantID,
			SKU:       it.SKU,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	if err := g.writer.InsertOrderTx(ctx, tx, o); err != nil {
		return nil, err
	}

	if couponID != nil {
		if err := g.coupons.CommitUsageWithTx(ctx, tx, *couponID); err != nil {
			if errors.Is(err, coupon.ErrUsageExhausted) {
				// A concurrent order took the last use after our validate.
				return nil, &Rejection{
					From: StateStockReserved,
					Err:  &coupon.ValidationError{Kind: coupon.KindUsageLimitReached, Code: *priced.AppliedCouponCode},
				}
			}
			return nil, err
		}
	}

	if err := g.writer.ClearCartTx(ctx, tx, req.OwnerKey); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit placement: %w", err)
	}

	if g.publisher != nil {
		if err := g.publisher.PublishOrderPlaced(ctx, o); err != nil {
			g.log.WithError(err).WithField("orderId", o.ID).Warn("failed to publish OrderPlaced")
		}
	}

	return o, nil
}
