package coupon

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("coupon not found")

	// ErrUsageExhausted is returned by CommitUsageWithTx when the guarded
	// increment matched no row: a concurrent placement took the last use
	// between validation and commit.
	ErrUsageExhausted = errors.New("coupon usage exhausted")
)

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	Create(ctx context.Context, c *Coupon) error
	CommitUsageWithTx(ctx context.Context, tx pgx.Tx, couponID string) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) FindByCode(ctx context.Context, code string) (*Coupon, error) {
	var c Coupon
	row := r.pool.QueryRow(ctx, `
		SELECT id, code, discount_type, discount_value, expires_at, max_uses, used_count, min_purchase_amount, is_active
		FROM coupons
		WHERE code=$1
	`, NormalizeCode(code))
	err := row.Scan(&c.ID, &c.Code, &c.DiscountType, &c.DiscountValue, &c.ExpiresAt,
		&c.MaxUses, &c.UsedCount, &c.MinPurchaseAmount, &c.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *Coupon) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Code = NormalizeCode(c.Code)

	_, err := r.pool.Exec(ctx, `
		INSERT INTO coupons (id, code, discount_type, discount_value, expires_at, max_uses, used_count, min_purchase_amount, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, c.ID, c.Code, c.DiscountType, c.DiscountValue, c.ExpiresAt, c.MaxUses, c.UsedCount, c.MinPurchaseAmount, c.IsActive)
	return err
}

// CommitUsageWithTx increments used_count inside the caller's transaction.
// The WHERE clause re-checks the cap so the read-check-write race on
// used_count cannot oversell a limited coupon.
func (r *PostgresRepository) CommitUsageWithTx(ctx context.Context, tx pgx.Tx, couponID string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE coupons
		SET used_count = used_count + 1
		WHERE id=$1 AND (max_uses = 0 OR used_count < max_uses)
	`, couponID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUsageExhausted
	}
	return nil
}
