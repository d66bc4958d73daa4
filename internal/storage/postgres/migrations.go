package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema mirrors the SQLite layout with native column types.
const schema = `
CREATE TABLE IF NOT EXISTS trips (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    currency TEXT NOT NULL,
    creator_id TEXT NOT NULL,
    status TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS memberships (
    trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE RESTRICT,
    user_id TEXT NOT NULL,
    nickname TEXT NOT NULL DEFAULT '',
    active BOOLEAN NOT NULL DEFAULT TRUE,
    joined_at BIGINT NOT NULL,
    PRIMARY KEY (trip_id, user_id)
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE RESTRICT,
    name TEXT NOT NULL,
    amount NUMERIC NOT NULL CHECK (amount > 0),
    payer_id TEXT NOT NULL,
    status TEXT NOT NULL,
    incurred_at BIGINT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS involvements (
    expense_id TEXT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
    debtor_id TEXT NOT NULL,
    share_amount NUMERIC NOT NULL,
    split_type TEXT NOT NULL,
    PRIMARY KEY (expense_id, debtor_id)
);

CREATE TABLE IF NOT EXISTS consents (
    id TEXT PRIMARY KEY,
    expense_id TEXT NOT NULL,
    debtor_id TEXT NOT NULL,
    status TEXT NOT NULL,
    reason TEXT NOT NULL DEFAULT '',
    updated_at BIGINT NOT NULL,
    UNIQUE (expense_id, debtor_id),
    FOREIGN KEY (expense_id, debtor_id) REFERENCES involvements(expense_id, debtor_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_memberships_user_id ON memberships(user_id);
CREATE INDEX IF NOT EXISTS idx_expenses_trip_id ON expenses(trip_id);
CREATE INDEX IF NOT EXISTS idx_expenses_payer_id ON expenses(payer_id);
CREATE INDEX IF NOT EXISTS idx_involvements_debtor_id ON involvements(debtor_id);
CREATE INDEX IF NOT EXISTS idx_consents_debtor_id ON consents(debtor_id);
CREATE INDEX IF NOT EXISTS idx_consents_status ON consents(status);
`

func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
