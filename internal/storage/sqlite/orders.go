package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/nik-bond/pizzatg/internal/models"
)

// PutOrder persists a new order. ID and CreatedAt are generated if unset,
// and every participant is registered as a user in the same transaction.
func (s *SQLiteStore) PutOrder(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = models.NewOrderID()
	}
	if order.CreatedAt == 0 {
		order.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, participant := range order.Participants {
		if err := ensureUserTx(ctx, tx, participant); err != nil {
			return err
		}
	}
	if order.CreatedBy != "" {
		if err := ensureUserTx(ctx, tx, order.CreatedBy); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO orders
		 (id, description, amount, payer, participants, per_person_amount, created_by, chat_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.Description, order.Amount.String(), order.Payer,
		strings.Join(order.Participants, ","), order.PerPersonAmount.String(),
		order.CreatedBy, order.ChatID, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetOrder retrieves an order by ID. Returns (nil, nil) when absent.
func (s *SQLiteStore) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, description, amount, payer, participants, per_person_amount, created_by, chat_id, created_at
		 FROM orders WHERE id = ?`,
		orderID,
	)
	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders returns all orders in a chat, newest first.
func (s *SQLiteStore) ListOrders(ctx context.Context, chatID int64) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, amount, payer, participants, per_person_amount, created_by, chat_id, created_at
		 FROM orders WHERE chat_id = ? ORDER BY created_at DESC, id`,
		chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return orders, nil
}

// LastOrderByCreator returns the most recent order submitted by the given
// user in a chat. Returns (nil, nil) when the user has no orders there.
func (s *SQLiteStore) LastOrderByCreator(ctx context.Context, creator string, chatID int64) (*models.Order, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, description, amount, payer, participants, per_person_amount, created_by, chat_id, created_at
		 FROM orders WHERE created_by = ? AND chat_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		creator, chatID,
	)
	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteOrder removes an order by ID.
func (s *SQLiteStore) DeleteOrder(ctx context.Context, orderID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", orderID); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var (
		order              models.Order
		amountRaw          string
		participantsJoined string
		perPersonRaw       string
	)
	err := row.Scan(&order.ID, &order.Description, &amountRaw, &order.Payer,
		&participantsJoined, &perPersonRaw, &order.CreatedBy, &order.ChatID, &order.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	if order.Amount, err = parseAmount(amountRaw); err != nil {
		return nil, err
	}
	if order.PerPersonAmount, err = parseAmount(perPersonRaw); err != nil {
		return nil, err
	}
	order.Participants = strings.Split(participantsJoined, ",")
	return &order, nil
}
