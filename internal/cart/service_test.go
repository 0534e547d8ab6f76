package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shoply/checkout-service-go/internal/catalog"
)

type fakeVariants struct {
	variants map[string]catalog.Variant
}

func (f *fakeVariants) GetVariant(ctx context.Context, variantID string) (catalog.Variant, error) {
	v, ok := f.variants[variantID]
	if !ok {
		return catalog.Variant{}, catalog.ErrNotFound
	}
	return v, nil
}

type fakeRepo struct {
	carts map[string]string // ownerKey -> cartID
	items map[string]*Item  // itemID -> item
	owner map[string]string // itemID -> cartID

	variants *fakeVariants
}

func newFakeRepo(variants *fakeVariants) *fakeRepo {
	return &fakeRepo{
		carts:    map[string]string{},
		items:    map[string]*Item{},
		owner:    map[string]string{},
		variants: variants,
	}
}

func (f *fakeRepo) GetByOwner(ctx context.Context, ownerKey string) (*Cart, error) {
	cartID, ok := f.carts[ownerKey]
	if !ok {
		return nil, nil
	}
	c := &Cart{ID: cartID, OwnerKey: ownerKey}
	for itemID, it := range f.items {
		if f.owner[itemID] != cartID {
			continue
		}
		cp := *it
		// live price, as the SQL join would deliver it
		cp.UnitPrice = f.variants.variants[it.VariantID].Price
		cp.SKU = f.variants.variants[it.VariantID].SKU
		c.Items = append(c.Items, cp)
	}
	return c, nil
}

func (f *fakeRepo) EnsureCart(ctx context.Context, ownerKey string) (string, error) {
	if id, ok := f.carts[ownerKey]; ok {
		return id, nil
	}
	id := uuid.NewString()
	f.carts[ownerKey] = id
	return id, nil
}

func (f *fakeRepo) GetItem(ctx context.Context, itemID string) (*Item, error) {
	it, ok := f.items[itemID]
	if !ok {
		return nil, nil
	}
	cp := *it
	cp.UnitPrice = f.variants.variants[it.VariantID].Price
	return &cp, nil
}

func (f *fakeRepo) InsertItem(ctx context.Context, cartID, variantID string, quantity int) (string, error) {
	id := uuid.NewString()
	f.items[id] = &Item{ID: id, VariantID: variantID, Quantity: quantity}
	f.owner[id] = cartID
	return id, nil
}

func (f *fakeRepo) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error {
	if it, ok := f.items[itemID]; ok {
		it.Quantity = quantity
	}
	return nil
}

func (f *fakeRepo) DeleteItem(ctx context.Context, itemID string) error {
	delete(f.items, itemID)
	delete(f.owner, itemID)
	return nil
}

func (f *fakeRepo) Clear(ctx context.Context, ownerKey string) error {
	cartID, ok := f.carts[ownerKey]
	if !ok {
		return nil
	}
	for itemID, owner := range f.owner {
		if owner == cartID {
			delete(f.items, itemID)
			delete(f.owner, itemID)
		}
	}
	delete(f.carts, ownerKey)
	return nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestService() (*Service, *fakeRepo, *fakeVariants) {
	variants := &fakeVariants{variants: map[string]catalog.Variant{
		"v1": {ID: "v1", SKU: "TS-BLK-M", Price: dec("25.00"), Stock: 10},
		"v2": {ID: "v2", SKU: "TS-WHT-L", Price: dec("12.50"), Stock: 2},
	}}
	repo := newFakeRepo(variants)
	return NewService(repo, variants), repo, variants
}

func TestAddItemMergesIntoExistingLine(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "owner-1", "v1", 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	c, err := svc.AddItem(ctx, "owner-1", "v1", 3)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(c.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", c.Items[0].Quantity)
	}
	if !c.Subtotal.Equal(dec("125.00")) {
		t.Fatalf("subtotal = %s, want 125.00", c.Subtotal)
	}
}

func TestAddItemUnknownVariant(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.AddItem(context.Background(), "owner-1", "missing", 1)
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected catalog.ErrNotFound, got %v", err)
	}
}

func TestAddItemCumulativeStockCheck(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "owner-1", "v2", 2); err != nil {
		t.Fatalf("add within stock: %v", err)
	}

	_, err := svc.AddItem(ctx, "owner-1", "v2", 1)
	var stockErr *catalog.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Short[0].Requested != 3 || stockErr.Short[0].Available != 2 {
		t.Fatalf("unexpected short line: %+v", stockErr.Short[0])
	}
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	svc, _, _ := newTestService()

	for _, q := range []int{0, -1} {
		if _, err := svc.AddItem(context.Background(), "owner-1", "v1", q); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("quantity %d: expected ErrInvalidQuantity, got %v", q, err)
		}
	}
}

func TestSubtotalTracksLivePrice(t *testing.T) {
	svc, _, variants := newTestService()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "owner-1", "v1", 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	before, err := svc.Subtotal(ctx, "owner-1")
	if err != nil {
		t.Fatalf("subtotal: %v", err)
	}
	if !before.Equal(dec("50.00")) {
		t.Fatalf("subtotal = %s, want 50.00", before)
	}

	// Price change after the item was added must show up on the next read.
	v := variants.variants["v1"]
	v.Price = dec("30.00")
	variants.variants["v1"] = v

	after, err := svc.Subtotal(ctx, "owner-1")
	if err != nil {
		t.Fatalf("subtotal after price change: %v", err)
	}
	if !after.Equal(dec("60.00")) {
		t.Fatalf("subtotal = %s, want 60.00", after)
	}
}

func TestUpdateItem(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	c, err := svc.AddItem(ctx, "owner-1", "v2", 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	itemID := c.Items[0].ID

	if err := svc.UpdateItem(ctx, itemID, 2); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := repo.items[itemID].Quantity; got != 2 {
		t.Fatalf("quantity = %d, want 2", got)
	}

	var stockErr *catalog.InsufficientStockError
	if err := svc.UpdateItem(ctx, itemID, 3); !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}

	if err := svc.UpdateItem(ctx, "missing-item", 1); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestRemoveAndClearAreIdempotent(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	c, err := svc.AddItem(ctx, "owner-1", "v1", 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	itemID := c.Items[0].ID

	if err := svc.RemoveItem(ctx, itemID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.RemoveItem(ctx, itemID); err != nil {
		t.Fatalf("second remove should be a no-op: %v", err)
	}

	if err := svc.Clear(ctx, "owner-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := svc.Clear(ctx, "owner-1"); err != nil {
		t.Fatalf("second clear should be a no-op: %v", err)
	}
	if err := svc.Clear(ctx, "never-existed"); err != nil {
		t.Fatalf("clearing unknown cart should be a no-op: %v", err)
	}
}

func TestGetMissingCart(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Get(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
