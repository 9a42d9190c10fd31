package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxOrderAmount is the largest accepted order total, in currency units.
var MaxOrderAmount = decimal.NewFromInt(1_000_000_000)

// MinParticipants is the smallest allowed participant count, payer included.
const MinParticipants = 2

// Order represents a shared expense. Orders are immutable once created;
// they are only ever deleted as a unit, together with a reversal of the
// debts they generated.
type Order struct {
	// ID is the unique identifier for the order (UUID format).
	ID string

	// Description is what was ordered (e.g., "pizza"). Never empty; the
	// order service substitutes a default for blank input.
	Description string

	// Amount is the total expense, currency-less.
	Amount decimal.Decimal

	// Payer is the handle of the user who covered the full amount.
	// Always present in Participants.
	Payer string

	// Participants are the handles sharing the cost, payer included.
	Participants []string

	// PerPersonAmount is Amount split evenly across Participants,
	// rounded half-up to two decimal places. The sum of shares may drift
	// from Amount by a few hundredths; the drift is not redistributed.
	PerPersonAmount decimal.Decimal

	// CreatedBy is the handle of the user who submitted the order.
	// Usually the payer, but an order can be recorded on someone's behalf.
	CreatedBy string

	// ChatID scopes the order to one conversational context.
	ChatID int64

	// CreatedAt is the Unix timestamp when the order was created.
	CreatedAt int64
}

// PerPersonShare splits amount evenly across n participants, rounding
// half-up to two decimal places. This is the one place where rounding mode
// matters for money: decimal.Round rounds half away from zero, which for
// the positive amounts this domain admits is exactly half-up.
func PerPersonShare(amount decimal.Decimal, n int) decimal.Decimal {
	return amount.Div(decimal.NewFromInt(int64(n))).Round(2)
}

// NewOrderID generates a unique order identifier.
func NewOrderID() string {
	return uuid.New().String()
}
