package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment records a transfer from debtor to creditor. Payments are the
// audit trail: they are never mutated or deleted, and they always carry the
// amount that was actually paid, independent of the debt state they reduced.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// Debtor is the handle of the user who paid.
	Debtor string

	// Creditor is the handle of the user who received the payment.
	Creditor string

	// Amount is the amount paid.
	Amount decimal.Decimal

	// ChatID scopes the payment to one conversational context.
	ChatID int64

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}

// NewPaymentID generates a unique payment identifier.
func NewPaymentID() string {
	return uuid.New().String()
}
