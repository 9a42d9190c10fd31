package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nik-bond/pizzatg/internal/models"
)

// PutDebt upserts a single debt, keyed by (debtor, creditor, chat).
func (s *SQLiteStore) PutDebt(ctx context.Context, debt *models.Debt) error {
	return s.PutDebts(ctx, []*models.Debt{debt})
}

// PutDebts upserts a batch of debts in one transaction. Either every edge
// lands or none do; a mid-batch failure rolls the whole write back.
func (s *SQLiteStore) PutDebts(ctx context.Context, debts []*models.Debt) error {
	if len(debts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, debt := range debts {
		if err := ensureUserTx(ctx, tx, debt.Debtor); err != nil {
			return err
		}
		if err := ensureUserTx(ctx, tx, debt.Creditor); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO debts
			 (debtor, creditor, amount, description, chat_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			debt.Debtor, debt.Creditor, debt.Amount.String(), debt.Description,
			debt.ChatID, debt.CreatedAt, debt.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert debt %s->%s: %w", debt.Debtor, debt.Creditor, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetDebt retrieves the live debt for (debtor, creditor, chat).
// Returns (nil, nil) when absent.
func (s *SQLiteStore) GetDebt(ctx context.Context, debtor, creditor string, chatID int64) (*models.Debt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT debtor, creditor, amount, description, chat_id, created_at, updated_at
		 FROM debts WHERE debtor = ? AND creditor = ? AND chat_id = ?`,
		debtor, creditor, chatID,
	)
	debt, err := scanDebt(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return debt, nil
}

// ListDebtsByDebtor returns all debts owed by the user in a chat.
func (s *SQLiteStore) ListDebtsByDebtor(ctx context.Context, debtor string, chatID int64) ([]models.Debt, error) {
	return s.listDebts(ctx,
		`SELECT debtor, creditor, amount, description, chat_id, created_at, updated_at
		 FROM debts WHERE debtor = ? AND chat_id = ? ORDER BY creditor`,
		debtor, chatID,
	)
}

// ListDebtsByCreditor returns all debts owed to the user in a chat.
func (s *SQLiteStore) ListDebtsByCreditor(ctx context.Context, creditor string, chatID int64) ([]models.Debt, error) {
	return s.listDebts(ctx,
		`SELECT debtor, creditor, amount, description, chat_id, created_at, updated_at
		 FROM debts WHERE creditor = ? AND chat_id = ? ORDER BY debtor`,
		creditor, chatID,
	)
}

// ListAllDebts returns every debt in a chat.
func (s *SQLiteStore) ListAllDebts(ctx context.Context, chatID int64) ([]models.Debt, error) {
	return s.listDebts(ctx,
		`SELECT debtor, creditor, amount, description, chat_id, created_at, updated_at
		 FROM debts WHERE chat_id = ? ORDER BY debtor, creditor`,
		chatID,
	)
}

// DeleteDebt removes the debt for (debtor, creditor, chat).
func (s *SQLiteStore) DeleteDebt(ctx context.Context, debtor, creditor string, chatID int64) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM debts WHERE debtor = ? AND creditor = ? AND chat_id = ?",
		debtor, creditor, chatID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete debt: %w", err)
	}
	return nil
}

func (s *SQLiteStore) listDebts(ctx context.Context, query string, args ...any) ([]models.Debt, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	var debts []models.Debt
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, *debt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}
	return debts, nil
}

func scanDebt(row rowScanner) (*models.Debt, error) {
	var (
		debt      models.Debt
		amountRaw string
	)
	err := row.Scan(&debt.Debtor, &debt.Creditor, &amountRaw, &debt.Description,
		&debt.ChatID, &debt.CreatedAt, &debt.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan debt: %w", err)
	}

	if debt.Amount, err = parseAmount(amountRaw); err != nil {
		return nil, err
	}
	return &debt, nil
}
