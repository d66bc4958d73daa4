package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Monetary columns are TEXT holding canonical decimal strings.
// Consents reference their involvement, so an involvement must be inserted first
// and deleting it (or its expense) removes the consent too.
const schema = `
CREATE TABLE IF NOT EXISTS trips (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    currency TEXT NOT NULL,
    creator_id TEXT NOT NULL,
    status TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS memberships (
    trip_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    nickname TEXT NOT NULL DEFAULT '',
    active INTEGER NOT NULL DEFAULT 1,
    joined_at INTEGER NOT NULL,
    PRIMARY KEY (trip_id, user_id),
    FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    trip_id TEXT NOT NULL,
    name TEXT NOT NULL,
    amount TEXT NOT NULL,
    payer_id TEXT NOT NULL,
    status TEXT NOT NULL,
    incurred_at INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS involvements (
    expense_id TEXT NOT NULL,
    debtor_id TEXT NOT NULL,
    share_amount TEXT NOT NULL,
    split_type TEXT NOT NULL,
    PRIMARY KEY (expense_id, debtor_id),
    FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS consents (
    id TEXT PRIMARY KEY,
    expense_id TEXT NOT NULL,
    debtor_id TEXT NOT NULL,
    status TEXT NOT NULL,
    reason TEXT NOT NULL DEFAULT '',
    updated_at INTEGER NOT NULL,
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

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
