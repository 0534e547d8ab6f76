package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Variant is a purchasable SKU. Price and stock are the live catalog values;
// nothing in this service caches them.
type Variant struct {
	ID        string          `json:"variantId"`
	ProductID string          `json:"productId"`
	SKU       string          `json:"sku"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
}

// Line is a reservation request for one variant.
type Line struct {
	VariantID string
	Quantity  int
}

// ShortLine reports a line that could not be reserved.
type ShortLine struct {
	VariantID string
	Requested int
	Available int
}

// ReserveResult is all-or-nothing: either every line is in Reserved and stock
// was decremented, or Short is non-empty and nothing was mutated.
type ReserveResult struct {
	Reserved []Line
	Short    []ShortLine
}

// InsufficientStockError is the user-facing rejection for a quantity that
// exceeds current stock, at cart mutation or at order placement.
type InsufficientStockError struct {
	Short []ShortLine
}

func (e *InsufficientStockError) Error() string {
	if len(e.Short) == 1 {
		s := e.Short[0]
		return fmt.Sprintf("insufficient stock for variant %s: requested %d, available %d", s.VariantID, s.Requested, s.Available)
	}
	return fmt.Sprintf("insufficient stock for %d variants", len(e.Short))
}
