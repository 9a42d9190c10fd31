package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Amount columns are TEXT on purpose: they hold exact decimal strings.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    username TEXT PRIMARY KEY,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
    id TEXT PRIMARY KEY,
    description TEXT NOT NULL,
    amount TEXT NOT NULL,
    payer TEXT NOT NULL,
    participants TEXT NOT NULL,
    per_person_amount TEXT NOT NULL,
    created_by TEXT NOT NULL,
    chat_id INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (payer) REFERENCES users(username)
);

CREATE TABLE IF NOT EXISTS debts (
    debtor TEXT NOT NULL,
    creditor TEXT NOT NULL,
    amount TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    chat_id INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    PRIMARY KEY (debtor, creditor, chat_id),
    FOREIGN KEY (debtor) REFERENCES users(username),
    FOREIGN KEY (creditor) REFERENCES users(username)
);

CREATE TABLE IF NOT EXISTS payments (
    id TEXT PRIMARY KEY,
    debtor TEXT NOT NULL,
    creditor TEXT NOT NULL,
    amount TEXT NOT NULL,
    chat_id INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (debtor) REFERENCES users(username),
    FOREIGN KEY (creditor) REFERENCES users(username)
);

CREATE INDEX IF NOT EXISTS idx_orders_chat ON orders(chat_id);
CREATE INDEX IF NOT EXISTS idx_orders_creator ON orders(created_by, chat_id);
CREATE INDEX IF NOT EXISTS idx_debts_chat ON debts(chat_id);
CREATE INDEX IF NOT EXISTS idx_debts_debtor ON debts(debtor, chat_id);
CREATE INDEX IF NOT EXISTS idx_debts_creditor ON debts(creditor, chat_id);
CREATE INDEX IF NOT EXISTS idx_payments_chat ON payments(chat_id);
CREATE INDEX IF NOT EXISTS idx_payments_debtor ON payments(debtor, chat_id);
CREATE INDEX IF NOT EXISTS idx_payments_creditor ON payments(creditor, chat_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
