// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"

	"github.com/nik-bond/pizzatg/internal/models"
)

// Store defines the persistence contract consumed by all services.
// This abstraction allows swapping backends (SQLite for production, the
// in-memory map store for tests) without changing the service layer.
//
// Lookups return (nil, nil) when the record does not exist; services own
// the not-found semantics. Writes that touch multiple records happen inside
// a single transaction: either every record lands or none do. Individual
// writes to the same key are serialized by the store. Read-modify-write
// sequences span separate calls and are not atomic as a whole; the
// request-per-operation model keeps them from racing in practice.
type Store interface {
	// PutOrder persists a new order. ID and CreatedAt are populated by
	// the store if unset. All participant handles are registered as users
	// within the same transaction.
	PutOrder(ctx context.Context, order *models.Order) error

	// GetOrder retrieves an order by ID.
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)

	// ListOrders returns all orders in a chat, newest first.
	ListOrders(ctx context.Context, chatID int64) ([]models.Order, error)

	// LastOrderByCreator returns the most recent order submitted by the
	// given user in a chat.
	LastOrderByCreator(ctx context.Context, creator string, chatID int64) (*models.Order, error)

	// DeleteOrder removes an order by ID. Deleting a missing order is not
	// an error.
	DeleteOrder(ctx context.Context, orderID string) error

	// PutDebt upserts a single debt, keyed by (debtor, creditor, chat).
	PutDebt(ctx context.Context, debt *models.Debt) error

	// PutDebts upserts a batch of debts in one transaction. This is the
	// write path for applying or reversing an order: a failure rolls back
	// every edge in the batch.
	PutDebts(ctx context.Context, debts []*models.Debt) error

	// GetDebt retrieves the live debt for (debtor, creditor, chat).
	GetDebt(ctx context.Context, debtor, creditor string, chatID int64) (*models.Debt, error)

	// ListDebtsByDebtor returns all debts owed by the user in a chat.
	ListDebtsByDebtor(ctx context.Context, debtor string, chatID int64) ([]models.Debt, error)

	// ListDebtsByCreditor returns all debts owed to the user in a chat.
	ListDebtsByCreditor(ctx context.Context, creditor string, chatID int64) ([]models.Debt, error)

	// ListAllDebts returns every debt in a chat.
	ListAllDebts(ctx context.Context, chatID int64) ([]models.Debt, error)

	// DeleteDebt removes the debt for (debtor, creditor, chat). Deleting
	// a missing debt is not an error.
	DeleteDebt(ctx context.Context, debtor, creditor string, chatID int64) error

	// PutPayment appends a payment record. Payments are never updated or
	// deleted.
	PutPayment(ctx context.Context, payment *models.Payment) error

	// ListPaymentsByDebtor returns payments made by the user in a chat,
	// newest first.
	ListPaymentsByDebtor(ctx context.Context, debtor string, chatID int64) ([]models.Payment, error)

	// ListPaymentsByCreditor returns payments received by the user in a
	// chat, newest first.
	ListPaymentsByCreditor(ctx context.Context, creditor string, chatID int64) ([]models.Payment, error)

	// EnsureUser registers a handle if it is not known yet.
	EnsureUser(ctx context.Context, username string) error

	// UserExists reports whether the handle has been registered.
	UserExists(ctx context.Context, username string) (bool, error)

	// Close releases any resources held by the store.
	Close() error
}
