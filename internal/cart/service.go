package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/shoply/checkout-service-go/internal/catalog"
	"github.com/shoply/checkout-service-go/internal/money"
)

var (
	ErrNotFound        = errors.New("cart not found")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// VariantSource is the slice of the catalog the cart needs.
type VariantSource interface {
	GetVariant(ctx context.Context, variantID string) (catalog.Variant, error)
}

// Service is the cart aggregate. Stock checks here are soft: they reject
// obviously impossible quantities at mutation time, but the authoritative
// check happens inside the order placement transaction.
type Service struct {
	repo     Repository
	variants VariantSource
}

func NewService(repo Repository, variants VariantSource) *Service {
	return &Service{repo: repo, variants: variants}
}

// Get loads the cart with live prices and a freshly computed subtotal.
func (s *Service) Get(ctx context.Context, ownerKey string) (*Cart, error) {
	c, err := s.repo.GetByOwner(ctx, ownerKey)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	priceItems(c)
	return c, nil
}

// Subtotal recomputes sum(price * quantity) from the current catalog prices.
// Never cached; the pricing engine calls this on every preview.
func (s *Service) Subtotal(ctx context.Context, ownerKey string) (decimal.Decimal, error) {
	c, err := s.Get(ctx, ownerKey)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return c.Subtotal, nil
}

// AddItem merges quantity into an existing line for the same variant rather
// than duplicating lines. The cumulative quantity is checked against current
// stock.
func (s *Service) AddItem(ctx context.Context, ownerKey, variantID string, quantity int) (*Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	v, err := s.variants.GetVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}

	cartID, err := s.repo.EnsureCart(ctx, ownerKey)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetByOwner(ctx, ownerKey)
	if err != nil {
		return nil, err
	}

	var existing *Item
	if c != nil {
		for i := range c.Items {
			if c.Items[i].VariantID == variantID {
				existing = &c.Items[i]
				break
			}
		}
	}

	cumulative := quantity
	if existing != nil {
		cumulative += existing.Quantity
	}
	if cumulative > v.Stock {
		return nil, &catalog.InsufficientStockError{Short: []catalog.ShortLine{
			{VariantID: variantID, Requested: cumulative, Available: v.Stock},
		}}
	}

	if existing != nil {
		if err := s.repo.UpdateItemQuantity(ctx, existing.ID, cumulative); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.repo.InsertItem(ctx, cartID, variantID, quantity); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, ownerKey)
}

// UpdateItem replaces a line's quantity.
func (s *Service) UpdateItem(ctx context.Context, itemID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	it, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if it == nil {
		return ErrItemNotFound
	}

	v, err := s.variants.GetVariant(ctx, it.VariantID)
	if err != nil {
		return err
	}
	if quantity > v.Stock {
		return &catalog.InsufficientStockError{Short: []catalog.ShortLine{
			{VariantID: it.VariantID, Requested: quantity, Available: v.Stock},
		}}
	}

	return s.repo.UpdateItemQuantity(ctx, itemID, quantity)
}

// RemoveItem deletes a line. Removing an absent line is not an error.
func (s *Service) RemoveItem(ctx context.Context, itemID string) error {
	return s.repo.DeleteItem(ctx, itemID)
}

// Clear drops the cart. Clearing an absent cart is not an error.
func (s *Service) Clear(ctx context.Context, ownerKey string) error {
	return s.repo.Clear(ctx, ownerKey)
}

func priceItems(c *Cart) {
	subtotal := decimal.Zero
	for i := range c.Items {
		line := c.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(c.Items[i].Quantity)))
		c.Items[i].LineTotal = money.Round2(line)
		subtotal = subtotal.Add(c.Items[i].LineTotal)
	}
	c.Subtotal = money.Round2(subtotal)
}
