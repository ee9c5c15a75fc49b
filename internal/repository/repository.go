package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// DBTX is the subset of *sqlx.DB and *sqlx.Tx the repositories use, so the
// same query code runs inside or outside WithTransaction.
type DBTX interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	Rebind(query string) string
}

var (
	_ DBTX = (*sqlx.DB)(nil)
	_ DBTX = (*sqlx.Tx)(nil)
)
