package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/nik-bond/pizzatg/internal/models"
)

// PutPayment appends a payment record. ID and CreatedAt are generated if
// unset. Payments use plain INSERT: the audit trail is append-only and an
// ID collision is a bug worth failing on.
func (s *SQLiteStore) PutPayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = models.NewPaymentID()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureUserTx(ctx, tx, payment.Debtor); err != nil {
		return err
	}
	if err := ensureUserTx(ctx, tx, payment.Creditor); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payments (id, debtor, creditor, amount, chat_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.Debtor, payment.Creditor,
		payment.Amount.String(), payment.ChatID, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListPaymentsByDebtor returns payments made by the user in a chat,
// newest first.
func (s *SQLiteStore) ListPaymentsByDebtor(ctx context.Context, debtor string, chatID int64) ([]models.Payment, error) {
	return s.listPayments(ctx,
		`SELECT id, debtor, creditor, amount, chat_id, created_at
		 FROM payments WHERE debtor = ? AND chat_id = ? ORDER BY created_at DESC, id`,
		debtor, chatID,
	)
}

// ListPaymentsByCreditor returns payments received by the user in a chat,
// newest first.
func (s *SQLiteStore) ListPaymentsByCreditor(ctx context.Context, creditor string, chatID int64) ([]models.Payment, error) {
	return s.listPayments(ctx,
		`SELECT id, debtor, creditor, amount, chat_id, created_at
		 FROM payments WHERE creditor = ? AND chat_id = ? ORDER BY created_at DESC, id`,
		creditor, chatID,
	)
}

func (s *SQLiteStore) listPayments(ctx context.Context, query string, args ...any) ([]models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var (
			payment   models.Payment
			amountRaw string
		)
		if err := rows.Scan(&payment.ID, &payment.Debtor, &payment.Creditor,
			&amountRaw, &payment.ChatID, &payment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		if payment.Amount, err = parseAmount(amountRaw); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}
