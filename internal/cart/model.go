package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is one cart line. UnitPrice and LineTotal are filled from the live
// catalog price at read time; they are never stored on the row, so a cart
// always reflects the current price even if it changed after the item was
// added.
type Item struct {
	ID        string          `json:"itemId"`
	VariantID string          `json:"variantId"`
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Cart is identified by an opaque owner key: a user id or a guest session id.
type Cart struct {
	ID        string          `json:"cartId"`
	OwnerKey  string          `json:"ownerKey"`
	Items     []Item          `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
