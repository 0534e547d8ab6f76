package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repository is the read side: placed orders are fetched here, written only
// by the checkout placement transaction.
type Repository interface {
	GetByID(ctx context.Context, orderID string) (*Order, error)
	ListByOwner(ctx context.Context, ownerKey string) ([]Order, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx,
		`SELECT id, cart_id, owner_key, subtotal, discount_amount, total, coupon_id, customer_name, shipping_address, created_at
         FROM orders WHERE id = $1`,
		orderID,
	).Scan(&o.ID, &o.CartID, &o.OwnerKey, &o.Subtotal, &o.DiscountAmount, &o.Total,
		&o.CouponID, &o.CustomerName, &o.ShippingAddress, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

func (r *repo) ListByOwner(ctx context.Context, ownerKey string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, cart_id, owner_key, subtotal, discount_amount, total, coupon_id, customer_name, shipping_address, created_at
         FROM orders WHERE owner_key = $1 ORDER BY created_at DESC`,
		ownerKey,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CartID, &o.OwnerKey, &o.Subtotal, &o.DiscountAmount, &o.Total,
			&o.CouponID, &o.CustomerName, &o.ShippingAddress, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *repo) loadItems(ctx context.Context, orderID string) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT variant_id, sku, quantity, unit_price FROM order_items WHERE order_id = $1`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.VariantID, &it.SKU, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order_item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}
