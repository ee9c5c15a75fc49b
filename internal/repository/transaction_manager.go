package repository

import (
	"context"
	"errors"
	"fmt"

	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type txKey struct{}

func txFromContext(ctx context.Context) (*sqlx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sqlx.Tx)
	return tx, ok
}

// GetExecutor returns the transaction carried by ctx, or db when there is none.
func GetExecutor(ctx context.Context, db DBTX) DBTX {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return db
}

// TransactionManagerAdapter implements domain.TransactionManager on top of sqlx.DB.
type TransactionManagerAdapter struct {
	db *sqlx.DB
}

func NewTransactionManagerAdapter(db *sqlx.DB) domain.TransactionManager {
	return &TransactionManagerAdapter{db: db}
}

// WithTransaction runs fn in one transaction and commits only when fn succeeds.
// Nested calls join the outer transaction. Errors returned by fn come back unwrapped
// so domain errors keep their identity.
func (tma *TransactionManagerAdapter) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := tma.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, context.Canceled) {
			logger.Get().Error("failed to rollback transaction", zap.Error(rbErr))
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		committed = true // a failed commit has already ended the transaction
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}
