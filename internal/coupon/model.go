package coupon

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed_amount"
)

// Coupon is a discount definition. MaxUses == 0 means unlimited; UsedCount
// only ever increments, and only inside a committed order placement.
type Coupon struct {
	ID                string           `json:"couponId"`
	Code              string           `json:"code"`
	DiscountType      DiscountType     `json:"discountType"`
	DiscountValue     decimal.Decimal  `json:"discountValue"`
	ExpiresAt         *time.Time       `json:"expiresAt,omitempty"`
	MaxUses           int              `json:"maxUses"`
	UsedCount         int              `json:"usedCount"`
	MinPurchaseAmount *decimal.Decimal `json:"minPurchaseAmount,omitempty"`
	IsActive          bool             `json:"isActive"`
}

// NormalizeCode upper-cases a coupon code; matching is case-insensitive
// everywhere, so codes are normalized at every boundary.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
