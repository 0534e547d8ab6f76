package cart

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type Repository interface {
	GetByOwner(ctx context.Context, ownerKey string) (*Cart, error)
	EnsureCart(ctx context.Context, ownerKey string) (string, error)
	GetItem(ctx context.Context, itemID string) (*Item, error)
	InsertItem(ctx context.Context, cartID, variantID string, quantity int) (string, error)
	UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error
	DeleteItem(ctx context.Context, itemID string) error
	Clear(ctx context.Context, ownerKey string) error
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

// GetByOwner loads the cart with lines joined to the live variant rows. A
// missing cart returns (nil, nil); the caller decides whether that is a 404.
func (r *repo) GetByOwner(ctx context.Context, ownerKey string) (*Cart, error) {
	const cartQuery = `SELECT id, owner_key, updated_at FROM carts WHERE owner_key = $1`

	var c Cart
	err := r.db.QueryRowContext(ctx, cartQuery, ownerKey).Scan(&c.ID, &c.OwnerKey, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT ci.id, ci.variant_id, v.sku, ci.quantity, v.price
		FROM cart_items ci
		JOIN variants v ON v.id = ci.variant_id
		WHERE ci.cart_id = $1`, c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.VariantID, &it.SKU, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		c.Items = append(c.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repo) EnsureCart(ctx context.Context, ownerKey string) (string, error) {
	const upsert = `
INSERT INTO carts (id, owner_key, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (owner_key) DO UPDATE SET updated_at = NOW()
RETURNING id
`
	var id string
	if err := r.db.QueryRowContext(ctx, upsert, uuid.NewString(), ownerKey).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (r *repo) GetItem(ctx context.Context, itemID string) (*Item, error) {
	var it Item
	err := r.db.QueryRowContext(ctx, `
		SELECT ci.id, ci.variant_id, v.sku, ci.quantity, v.price
		FROM cart_items ci
		JOIN variants v ON v.id = ci.variant_id
		WHERE ci.id = $1`, itemID).
		Scan(&it.ID, &it.VariantID, &it.SKU, &it.Quantity, &it.UnitPrice)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (r *repo) InsertItem(ctx context.Context, cartID, variantID string, quantity int) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_items (id, cart_id, variant_id, quantity)
		VALUES ($1, $2, $3, $4)`, id, cartID, variantID, quantity)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *repo) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE cart_items SET quantity = $2 WHERE id = $1`, itemID, quantity)
	return err
}

func (r *repo) DeleteItem(ctx context.Context, itemID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	return err
}

func (r *repo) Clear(ctx context.Context, ownerKey string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE owner_key = $1`, ownerKey)
	return err
}
