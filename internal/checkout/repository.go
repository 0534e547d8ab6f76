package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shoply/checkout-service-go/internal/order"
)

// Writer persists the order snapshot inside the placement transaction. It is
// the only code path that writes order rows.
type Writer interface {
	InsertOrderTx(ctx context.Context, tx pgx.Tx, o *order.Order) error
	ClearCartTx(ctx context.Context, tx pgx.Tx, ownerKey string) error
}

type PostgresWriter struct{}

func NewPostgresWriter() *PostgresWriter {
	return &PostgresWriter{}
}

func (w *PostgresWriter) InsertOrderTx(ctx context.Context, tx pgx.Tx, o *order.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO orders (id, cart_id, owner_key, subtotal, discount_amount, total, coupon_id, customer_name, shipping_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		o.ID, o.CartID, o.OwnerKey, o.Subtotal, o.DiscountAmount, o.Total,
		o.CouponID, o.CustomerName, o.ShippingAddress, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, variant_id, sku, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.NewString(), o.ID, it.VariantID, it.SKU, it.Quantity, it.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	return nil
}

func (w *PostgresWriter) ClearCartTx(ctx context.Context, tx pgx.Tx, ownerKey string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE owner_key = $1`, ownerKey); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
