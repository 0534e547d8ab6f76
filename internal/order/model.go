package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item snapshots one order line at placement time, unit price included. A
// later catalog price change must never alter a placed order.
type Item struct {
	VariantID string          `json:"variantId"`
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Order is the point-in-time copy of a priced cart. Subtotal, discount and
// total are the engine's output at the moment of placement; they are stored,
// never recomputed, so editing or deleting the coupon afterwards cannot
// change order history.
type Order struct {
	ID              string          `json:"orderId"`
	CartID          string          `json:"cartId"`
	OwnerKey        string          `json:"ownerKey"`
	Items           []Item          `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	Total           decimal.Decimal `json:"total"`
	CouponID        *string         `json:"couponId,omitempty"`
	CustomerName    string          `json:"customerName"`
	ShippingAddress string          `json:"shippingAddress"`
	CreatedAt       time.Time       `json:"createdAt"`
}
