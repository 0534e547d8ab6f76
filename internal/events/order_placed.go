package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shoply/checkout-service-go/internal/order"
)

const (
	orderPlacedEventName    = "OrderPlaced"
	orderPlacedEventVersion = 1
	producerName            = "checkout-service"
)

// OrderPlacedLine mirrors the order item snapshot on the wire.
type OrderPlacedLine struct {
	VariantID string          `json:"variantId"`
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// OrderPlacedPayload is the v1 payload. Amounts are the placement-time
// snapshot, serialized as decimal strings.
type OrderPlacedPayload struct {
	OrderID        string            `json:"orderId"`
	CartID         string            `json:"cartId"`
	OwnerKey       string            `json:"ownerKey"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	DiscountAmount decimal.Decimal   `json:"discountAmount"`
	Total          decimal.Decimal   `json:"total"`
	CouponID       *string           `json:"couponId,omitempty"`
	Items          []OrderPlacedLine `json:"items"`
	PlacedAt       time.Time         `json:"placedAt"`
}

// OrderPlacedEnvelope is the enveloped event structure.
type OrderPlacedEnvelope = Envelope[OrderPlacedPayload]

// BuildOrderPlacedEnvelope wraps a placed order for publishing.
func BuildOrderPlacedEnvelope(o *order.Order) OrderPlacedEnvelope {
	items := make([]OrderPlacedLine, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderPlacedLine{
			VariantID: it.VariantID,
			SKU:       it.SKU,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	return OrderPlacedEnvelope{
		EventName:    orderPlacedEventName,
		EventVersion: orderPlacedEventVersion,
		EventID:      uuid.NewString(),
		Producer:     producerName,
		OccurredAt:   time.Now().UTC(),
		Payload: OrderPlacedPayload{
			OrderID:        o.ID,
			CartID:         o.CartID,
			OwnerKey:       o.OwnerKey,
			Subtotal:       o.Subtotal,
			DiscountAmount: o.DiscountAmount,
			Total:          o.Total,
			CouponID:       o.CouponID,
			Items:          items,
			PlacedAt:       o.CreatedAt,
		},
	}
}
