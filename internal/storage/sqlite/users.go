package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureUser registers a handle if it is not known yet.
func (s *SQLiteStore) EnsureUser(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO users (username, created_at) VALUES (?, ?)",
		username, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

// UserExists reports whether the handle has been registered.
func (s *SQLiteStore) UserExists(ctx context.Context, username string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE username = ?",
		username,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return true, nil
}

// ensureUserTx registers a handle inside an open transaction, so records
// written in the same transaction can reference it.
func ensureUserTx(ctx context.Context, tx *sql.Tx, username string) error {
	_, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO users (username, created_at) VALUES (?, ?)",
		username, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}
