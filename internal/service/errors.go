// Package service implements the ledger engines: order creation, debt
// accumulation, payment reduction, and the query/netting views. Services
// hold only a storage handle and re-read current state on every call.
package service

import "errors"

// Typed domain errors. These are expected, recoverable-by-caller
// conditions; store failures propagate separately as wrapped
// infrastructure errors.
var (
	// ErrDebtNotFound is returned when an operation references a pair and
	// chat with no live debt edge.
	ErrDebtNotFound = errors.New("debt not found")

	// ErrPaymentExceedsDebt is returned when a payment is larger than the
	// outstanding debt. Overpayment is rejected outright rather than
	// creating a reverse debt.
	ErrPaymentExceedsDebt = errors.New("payment amount exceeds debt")

	// ErrOrderNotFound is returned when referencing a non-existent order.
	ErrOrderNotFound = errors.New("order not found")

	// ErrUserNotFound is returned when referencing an unknown handle.
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError reports malformed or out-of-range input. Its message is
// meant to be surfaced to the end user verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErr(reason string) error {
	return &ValidationError{Reason: reason}
}
