package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx query methods shared by *pgxpool.Pool and
// pgx.Tx. Multi-record sequences are written against it so they run the
// same way inside a transaction and in sequential fallback mode.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AtomicRunner executes a multi-record sequence as one atomic unit.
//
// Normally the sequence runs inside a transaction: all-or-nothing, rolled
// back in full on error. In sequential mode (DB_TX_FALLBACK) the sequence
// runs as ordered independent writes straight against the pool; the
// database uniqueness constraints are then the final backstop: a
// constraint violation mid-sequence fails the operation cleanly, it never
// duplicates state. Sequences must order their writes so an interruption
// leaves a consistent (possibly degraded) state, e.g. deactivate before
// activate, vacate before assign.
type AtomicRunner struct {
	pool       *pgxpool.Pool
	sequential bool
}

// NewAtomicRunner creates an AtomicRunner over the given pool.
func NewAtomicRunner(pool *pgxpool.Pool, sequential bool) *AtomicRunner {
	return &AtomicRunner{pool: pool, sequential: sequential}
}

// Run executes fn as one atomic unit.
func (a *AtomicRunner) Run(ctx context.Context, fn func(q Querier) error) error {
	if a.sequential {
		return fn(a.pool)
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
