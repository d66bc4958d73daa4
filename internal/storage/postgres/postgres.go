// Package postgres provides a PostgreSQL-backed implementation of the storage.Store interface.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

var _ storage.Store = (*PostgresStore)(nil)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type queries struct {
	db dbtx
}

// PostgresStore implements storage.Store on a pgx connection pool.
type PostgresStore struct {
	*queries
	pool *pgxpool.Pool
}

// New connects to databaseURL, checks the connection and runs migrations.
func New(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresStore{queries: &queries{db: pool}, pool: pool}, nil
}

// Close releases every pooled connection.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// InTx runs fn in a serializable transaction. A serialization failure is
// reported as models.ErrConflict so the caller can decide whether to retry.
func (s *PostgresStore) InTx(ctx context.Context, fn func(q storage.Queries) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return persistenceErr("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&queries{db: tx}); err != nil {
		return conflictOnSerialization(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return conflictOnSerialization(persistenceErr("commit transaction", err))
	}
	return nil
}

// sendBatch runs every queued statement and reports the first failure.
func (q *queries) sendBatch(ctx context.Context, batch *pgx.Batch, op string) error {
	if batch.Len() == 0 {
		return nil
	}
	if err := q.db.SendBatch(ctx, batch).Close(); err != nil {
		return persistenceErr(op, err)
	}
	return nil
}

func conflictOnSerialization(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "40001" {
		return fmt.Errorf("%w: concurrent update: %w", models.ErrConflict, err)
	}
	return err
}

func persistenceErr(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %w", models.ErrPersistence, op, err)
}

func notFoundErr(kind, id string) error {
	return fmt.Errorf("%w: %s %s", models.ErrNotFound, kind, id)
}

// scanErr maps pgx.ErrNoRows to models.ErrNotFound.
func scanErr(err error, kind, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFoundErr(kind, id)
	}
	return persistenceErr("get "+kind, err)
}

func expectAffected(tag pgconn.CommandTag, kind, id string) error {
	if tag.RowsAffected() == 0 {
		return notFoundErr(kind, id)
	}
	return nil
}

// Monetary columns are NUMERIC. They travel as text in both directions so no
// precision is lost to float conversion.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}
