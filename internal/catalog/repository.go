package catalog

import (
	"context"
	"errors"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("variant not found")

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type Repository interface {
	GetVariant(ctx context.Context, variantID string) (Variant, error)
	SetStockBySKU(ctx context.Context, sku string, stock int) error
	Reserve(ctx context.Context, lines []Line) (ReserveResult, error)
}

// TxRepository exposes the reserve step for callers that own the surrounding
// transaction (order placement).
type TxRepository interface {
	Repository
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	ReserveWithTx(ctx context.Context, tx pgx.Tx, lines []Line) (ReserveResult, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) GetVariant(ctx context.Context, variantID string) (Variant, error) {
	var v Variant
	row := r.pool.QueryRow(ctx, `
		SELECT id, product_id, sku, color, size, price, stock
		FROM variants
		WHERE id=$1
	`, variantID)
	if err := row.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Color, &v.Size, &v.Price, &v.Stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Variant{}, ErrNotFound
		}
		return Variant{}, err
	}
	return v, nil
}

// GetPrice returns the current catalog price for a variant.
func (r *PostgresRepository) GetPrice(ctx context.Context, variantID string) (decimal.Decimal, error) {
	v, err := r.GetVariant(ctx, variantID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return v.Price, nil
}

// GetStock returns the current stock level for a variant.
func (r *PostgresRepository) GetStock(ctx context.Context, variantID string) (int, error) {
	v, err := r.GetVariant(ctx, variantID)
	if err != nil {
		return 0, err
	}
	return v.Stock, nil
}

func (r *PostgresRepository) SetStockBySKU(ctx context.Context, sku string, stock int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE variants SET stock=$2, updated_at=now() WHERE sku=$1
	`, sku, stock)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Reserve decrements stock for every line, or for none of them:
// - locks each variant row (SELECT ... FOR UPDATE), in sorted variant order
//   so two competing reservations cannot deadlock
// - if any line is short, rolls back and reports the short lines (no mutation)
// - otherwise decrements all lines and commits
func (r *PostgresRepository) Reserve(ctx context.Context, lines []Line) (ReserveResult, error) {
	res := ReserveResult{}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return res, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err = reserveWithTx(ctx, tx, lines)
	if err != nil {
		return res, err
	}

	if len(res.Short) > 0 {
		return res, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return res, err
	}
	return res, nil
}

func (r *PostgresRepository) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	return r.pool.BeginTx(ctx, txOptions)
}

func (r *PostgresRepository) ReserveWithTx(ctx context.Context, tx pgx.Tx, lines []Line) (ReserveResult, error) {
	return reserveWithTx(ctx, tx, lines)
}

func reserveWithTx(ctx context.Context, tx pgx.Tx, lines []Line) (ReserveResult, error) {
	res := ReserveResult{}

	ordered := make([]Line, len(lines))
	copy(ordered, lines)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].VariantID < ordered[j].VariantID })

	type locked struct {
		variantID string
		requested int
		available int
	}
	lockedRows := make([]locked, 0, len(ordered))

	for _, line := range ordered {
		var available int
		err := tx.QueryRow(ctx, `
			SELECT stock
			FROM variants
			WHERE id=$1
			FOR UPDATE
		`, line.VariantID).Scan(&available)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// A vanished variant reads as zero stock.
				available = 0
			} else {
				return res, err
			}
		}

		lockedRows = append(lockedRows, locked{variantID: line.VariantID, requested: line.Quantity, available: available})
		if available < line.Quantity {
			res.Short = append(res.Short, ShortLine{
				VariantID: line.VariantID,
				Requested: line.Quantity,
				Available: available,
			})
		}
	}

	if len(res.Short) > 0 {
		return res, nil
	}

	for _, row := range lockedRows {
		_, err := tx.Exec(ctx, `
			UPDATE variants
			SET stock = stock - $2, updated_at=now()
			WHERE id=$1
		`, row.variantID, row.requested)
		if err != nil {
			return res, err
		}
		res.Reserved = append(res.Reserved, Line{VariantID: row.variantID, Quantity: row.requested})
	}

	return res, nil
}
