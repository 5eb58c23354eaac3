// Package pgstore implements the training repositories on PostgreSQL.
// Uniqueness and cascades are enforced by the schema, multi-row writes run in a
// single transaction.
package pgstore

import (
	"context"
	"fmt"

	"github.com/2beens/periodize/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store {
	return &Store{
		db: db,
	}
}

// Migrate creates the tables if they don't exist yet.
func (s *Store) Migrate(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pgstore.migrate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// inTx runs fn in a transaction, committing if fn succeeds.
func (s *Store) inTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	return fn(tx)
}
