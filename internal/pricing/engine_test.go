package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shoply/checkout-service-go/internal/coupon"
)

type fakeCarts struct {
	subtotals map[string]decimal.Decimal
	calls     int
}

func (f *fakeCarts) Subtotal(ctx context.Context, ownerKey string) (decimal.Decimal, error) {
	f.calls++
	s, ok := f.subtotals[ownerKey]
	if !ok {
		return decimal.Decimal{}, errors.New("cart not found")
	}
	return s, nil
}

type fakeCoupons struct {
	coupons map[string]*coupon.Coupon
}

func (f *fakeCoupons) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*coupon.Coupon, error) {
	c, ok := f.coupons[code]
	if !ok {
		return nil, &coupon.ValidationError{Kind: coupon.KindNotFound, Code: code}
	}
	if c.MaxUses > 0 && c.UsedCount >= c.MaxUses {
		return nil, &coupon.ValidationError{Kind: coupon.KindUsageLimitReached, Code: code}
	}
	if c.MinPurchaseAmount != nil && subtotal.LessThan(*c.MinPurchaseAmount) {
		return nil, &coupon.ValidationError{Kind: coupon.KindMinimumNotMet, Code: code}
	}
	return c, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestEngine() (*Engine, *fakeCarts) {
	minFifty := dec("50.00")
	carts := &fakeCarts{subtotals: map[string]decimal.Decimal{
		"owner-1": dec("100.00"),
		"owner-2": dec("33.35"),
	}}
	coupons := &fakeCoupons{coupons: map[string]*coupon.Coupon{
		"TEST10":  {ID: "c1", Code: "TEST10", DiscountType: coupon.DiscountPercentage, DiscountValue: dec("10"), MinPurchaseAmount: &minFifty},
		"BIGSAVE": {ID: "c2", Code: "BIGSAVE", DiscountType: coupon.DiscountFixed, DiscountValue: dec("150")},
		"SAVE7":   {ID: "c3", Code: "SAVE7", DiscountType: coupon.DiscountFixed, DiscountValue: dec("7.25")},
		"ODD":     {ID: "c4", Code: "ODD", DiscountType: coupon.DiscountPercentage, DiscountValue: dec("30")},
		"GONE":    {ID: "c5", Code: "GONE", DiscountType: coupon.DiscountFixed, DiscountValue: dec("1"), MaxUses: 1, UsedCount: 1},
	}}
	return NewEngine(carts, coupons), carts
}

func TestPriceWithoutCoupon(t *testing.T) {
	engine, _ := newTestEngine()

	res, err := engine.Price(context.Background(), "owner-1", "")
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if !res.Subtotal.Equal(dec("100.00")) || !res.DiscountAmount.Equal(decimal.Zero) || !res.Total.Equal(dec("100.00")) {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.AppliedCouponCode != nil {
		t.Fatalf("expected nil coupon code, got %q", *res.AppliedCouponCode)
	}
}

func TestPriceScenarios(t *testing.T) {
	tests := map[string]struct {
		owner        string
		code         string
		wantSubtotal string
		wantDiscount string
		wantTotal    string
		wantKind     coupon.Kind
	}{
		"ten percent of 100":             {owner: "owner-1", code: "TEST10", wantSubtotal: "100.00", wantDiscount: "10.00", wantTotal: "90.00"},
		"code is normalized":             {owner: "owner-1", code: "test10", wantSubtotal: "100.00", wantDiscount: "10.00", wantTotal: "90.00"},
		"fixed exceeding subtotal":       {owner: "owner-1", code: "BIGSAVE", wantSubtotal: "100.00", wantDiscount: "100.00", wantTotal: "0.00"},
		"fixed below subtotal":           {owner: "owner-1", code: "SAVE7", wantSubtotal: "100.00", wantDiscount: "7.25", wantTotal: "92.75"},
		"percentage rounds half up":      {owner: "owner-2", code: "ODD", wantSubtotal: "33.35", wantDiscount: "10.01", wantTotal: "23.34"}, // 10.005 -> 10.01
		"unknown coupon":                 {owner: "owner-1", code: "NOPE", wantKind: coupon.KindNotFound},
		"exhausted coupon":               {owner: "owner-1", code: "GONE", wantKind: coupon.KindUsageLimitReached},
		"below minimum is not silent":    {owner: "owner-2", code: "TEST10", wantKind: coupon.KindMinimumNotMet},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			engine, _ := newTestEngine()

			res, err := engine.Price(context.Background(), tt.owner, tt.code)
			if tt.wantKind != "" {
				var verr *coupon.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if verr.Kind != tt.wantKind {
					t.Fatalf("kind = %s, want %s", verr.Kind, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("price: %v", err)
			}

			if !res.Subtotal.Equal(dec(tt.wantSubtotal)) {
				t.Fatalf("subtotal = %s, want %s", res.Subtotal, tt.wantSubtotal)
			}
			if !res.DiscountAmount.Equal(dec(tt.wantDiscount)) {
				t.Fatalf("discount = %s, want %s", res.DiscountAmount, tt.wantDiscount)
			}
			if !res.Total.Equal(dec(tt.wantTotal)) {
				t.Fatalf("total = %s, want %s", res.Total, tt.wantTotal)
			}
			if res.Total.IsNegative() {
				t.Fatalf("total must never be negative: %s", res.Total)
			}
		})
	}
}

func TestPriceIsIdempotent(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	first, err := engine.Price(ctx, "owner-1", "TEST10")
	if err != nil {
		t.Fatalf("first price: %v", err)
	}
	second, err := engine.Price(ctx, "owner-1", "TEST10")
	if err != nil {
		t.Fatalf("second price: %v", err)
	}

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("preview not byte-identical:\n%s\n%s", a, b)
	}
}

func TestPriceCartErrorPassesThrough(t *testing.T) {
	engine, _ := newTestEngine()

	if _, err := engine.Price(context.Background(), "nobody", "TEST10"); err == nil {
		t.Fatal("expected error for missing cart")
	}
}
