package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Beginner is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx; on a Tx the
// work runs in a savepoint.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// InTx runs fn in a transaction that commits when fn returns nil and rolls
// back otherwise. fn's error is returned unwrapped.
func InTx(ctx context.Context, db Beginner, fn func(pgx.Tx) error) error {
	var fnErr error
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		fnErr = fn(tx)
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return fmt.Errorf("postgres: transaction: %w", err)
	}
	return nil
}
