package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxRunner runs work atomically. Repository calls made with the context handed to fn
// join the same transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// Begin starts a new database transaction
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits a transaction
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back a transaction
	Rollback(ctx context.Context, tx pgx.Tx) error

	TxRunner
}
