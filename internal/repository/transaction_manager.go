package repository

import (
	"context"
	"fmt"

	"quiz-forge/internal/domain"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type contextKey string

const (
	// TransactionContextKey carries the active *sqlx.Tx
	TransactionContextKey contextKey = "tx"
)

// GetExecutor returns the transaction carried by ctx, or db when there is none
func GetExecutor(ctx context.Context, db DBTX) DBTX {
	if tx := ctx.Value(TransactionContextKey); tx != nil {
		if sqlxTx, ok := tx.(*sqlx.Tx); ok {
			return sqlxTx
		}
	}
	return db
}

// TransactionManagerAdapter implements domain.TransactionManager with sqlx.DB
type TransactionManagerAdapter struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewTransactionManagerAdapter creates a new transaction manager
func NewTransactionManagerAdapter(db *sqlx.DB, logger *zap.Logger) domain.TransactionManager {
	return &TransactionManagerAdapter{db: db, logger: logger}
}

// WithTransaction runs fn in a transaction. A transaction already carried by ctx is reused.
func (tma *TransactionManagerAdapter) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(TransactionContextKey).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := tma.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				tma.logger.Error("Failed to rollback transaction after panic", zap.Error(rollbackErr))
			}
			panic(p)
		}
	}()

	txCtx := context.WithValue(ctx, TransactionContextKey, tx)

	if err := fn(txCtx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("failed to rollback transaction: %v (original error: %w)", rollbackErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// NoopTransactionManager runs fn directly, for stores without transactions
type NoopTransactionManager struct{}

// WithTransaction implements domain.TransactionManager
func (NoopTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
