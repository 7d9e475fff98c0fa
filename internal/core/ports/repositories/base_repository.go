package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager runs units of work against the shared relational store.
type TransactionManager interface {
	// ExecuteTx runs fn in a read-write transaction, rolling back on error or panic.
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error

	// ExecuteSnapshot runs fn in a read-only repeatable-read transaction so
	// that every query inside it sees the same committed state.
	ExecuteSnapshot(ctx context.Context, fn func(tx pgx.Tx) error) error
}
