package coupon

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Registry answers "is this code currently valid for this subtotal".
// Validation never mutates used_count; only CommitUsageWithTx does, from the
// order placement transaction.
type Registry struct {
	repo Repository
	now  func() time.Time
}

func NewRegistry(repo Repository) *Registry {
	return &Registry{repo: repo, now: time.Now}
}

// NewRegistryWithClock injects the clock for expiry tests.
func NewRegistryWithClock(repo Repository, now func() time.Time) *Registry {
	return &Registry{repo: repo, now: now}
}

// Validate runs the checks in order and stops at the first failure:
//  1. code exists and is active
//  2. not expired
//  3. usage cap not reached
//  4. minimum purchase met
//
// On success it returns the coupon's discount rule without touching
// used_count.
func (r *Registry) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*Coupon, error) {
	normalized := NormalizeCode(code)

	c, err := r.repo.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &ValidationError{Kind: KindNotFound, Code: normalized}
		}
		return nil, err
	}
	if !c.IsActive {
		return nil, &ValidationError{Kind: KindNotFound, Code: normalized}
	}

	if c.ExpiresAt != nil && !c.ExpiresAt.After(r.now()) {
		return nil, &ValidationError{Kind: KindExpired, Code: normalized}
	}

	if c.MaxUses > 0 && c.UsedCount >= c.MaxUses {
		return nil, &ValidationError{Kind: KindUsageLimitReached, Code: normalized}
	}

	if c.MinPurchaseAmount != nil && subtotal.LessThan(*c.MinPurchaseAmount) {
		return nil, &ValidationError{Kind: KindMinimumNotMet, Code: normalized}
	}

	return c, nil
}
