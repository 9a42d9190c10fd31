package models

import "github.com/shopspring/decimal"

// Debt is a directed balance: Debtor owes Creditor Amount within ChatID.
// At most one live record exists per (debtor, creditor, chat) triple, and a
// live record always has a positive amount; a debt reduced to zero or below
// is deleted, never stored. Opposite-direction debts between the same pair
// may coexist: netting is a read-time projection, not a write-time rule.
type Debt struct {
	// Debtor is the handle of the user who owes.
	Debtor string

	// Creditor is the handle of the user who is owed.
	Creditor string

	// Amount is the outstanding balance. Positive for every stored record.
	Amount decimal.Decimal

	// Description accumulates the descriptions of the orders that fed this
	// debt, joined with ", ". Empty fragments are dropped on merge.
	Description string

	// ChatID scopes the debt to one conversational context.
	ChatID int64

	// CreatedAt is the Unix timestamp when the debt first appeared.
	// Preserved across merges.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last merge or reduction.
	UpdatedAt int64
}

// MergeShare returns a copy of the debt grown by an order's per-person
// share, with the order's description appended and UpdatedAt refreshed.
// CreatedAt carries over from the existing record.
func (d Debt) MergeShare(share decimal.Decimal, description string, now int64) Debt {
	d.Amount = d.Amount.Add(share)
	d.Description = joinDescriptions(d.Description, description)
	d.UpdatedAt = now
	return d
}

// Reduce returns a copy of the debt shrunk by the given amount, with
// UpdatedAt refreshed. The caller decides whether the result is settled and
// must be deleted rather than stored.
func (d Debt) Reduce(amount decimal.Decimal, now int64) Debt {
	d.Amount = d.Amount.Sub(amount)
	d.UpdatedAt = now
	return d
}

// Settled reports whether the debt is fully paid off.
func (d Debt) Settled() bool {
	return d.Amount.Sign() <= 0
}

func joinDescriptions(existing, added string) string {
	switch {
	case existing == "":
		return added
	case added == "":
		return existing
	default:
		return existing + ", " + added
	}
}
