package db

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // Register postgres driver
)

// NewPool opens the pgx pool used by the catalog/coupon repositories and the
// placement transaction.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Open opens a database/sql handle (cart and order read repositories) without
// pinging.
func Open(dsn string) (*sql.DB, error) {
	return sql.Open("postgres", dsn)
}
