// Package calculator holds the pure balance math: pair netting and the
// consolidated per-counterparty view. No storage access, no side effects.
package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/nik-bond/pizzatg/internal/models"
)

// Direction classifies a netted balance from the querying user's viewpoint.
type Direction string

const (
	// DirectionIOwe means the user is the net debtor.
	DirectionIOwe Direction = "i_owe"
	// DirectionTheyOwe means the counterparty is the net debtor.
	DirectionTheyOwe Direction = "they_owe"
	// DirectionSettled means the two edges cancel out exactly.
	DirectionSettled Direction = "settled"
)

// Entry is one raw edge of a pair's breakdown, kept alongside the netted
// number so consolidation never loses the underlying composition.
type Entry struct {
	Amount      decimal.Decimal
	Description string
}

// CounterpartyBalance is the consolidated view against one counterparty:
// both raw edges (nil when absent) plus the netted direction and amount.
type CounterpartyBalance struct {
	Counterparty string
	IOwe         *Entry
	TheyOwe      *Entry
	Direction    Direction
	NetAmount    decimal.Decimal
}

// Consolidated is the full netted view for one user in one chat.
type Consolidated struct {
	Balances []CounterpartyBalance

	// TotalIOwe sums the positive netted amounts the user owes across
	// counterparties; TotalTheyOwe sums the positive netted amounts owed
	// to the user. A settled pair contributes to neither.
	TotalIOwe    decimal.Decimal
	TotalTheyOwe decimal.Decimal
}

// Consolidate nets the user's outgoing edges (owedBy, user as debtor)
// against the incoming ones (owedTo, user as creditor), per counterparty.
// Counterparties are ordered by handle for stable output.
func Consolidate(owedBy, owedTo []models.Debt) Consolidated {
	type pair struct {
		iOwe    *Entry
		theyOwe *Entry
	}
	pairs := make(map[string]*pair)

	for _, d := range owedBy {
		p := pairs[d.Creditor]
		if p == nil {
			p = &pair{}
			pairs[d.Creditor] = p
		}
		p.iOwe = &Entry{Amount: d.Amount, Description: d.Description}
	}
	for _, d := range owedTo {
		p := pairs[d.Debtor]
		if p == nil {
			p = &pair{}
			pairs[d.Debtor] = p
		}
		p.theyOwe = &Entry{Amount: d.Amount, Description: d.Description}
	}

	names := make([]string, 0, len(pairs))
	for name := range pairs {
		names = append(names, name)
	}
	sort.Strings(names)

	result := Consolidated{
		TotalIOwe:    decimal.Zero,
		TotalTheyOwe: decimal.Zero,
	}
	for _, name := range names {
		p := pairs[name]

		iOwe := decimal.Zero
		if p.iOwe != nil {
			iOwe = p.iOwe.Amount
		}
		theyOwe := decimal.Zero
		if p.theyOwe != nil {
			theyOwe = p.theyOwe.Amount
		}

		net := iOwe.Sub(theyOwe)
		cb := CounterpartyBalance{
			Counterparty: name,
			IOwe:         p.iOwe,
			TheyOwe:      p.theyOwe,
		}
		switch net.Sign() {
		case 1:
			cb.Direction = DirectionIOwe
			cb.NetAmount = net
			result.TotalIOwe = result.TotalIOwe.Add(net)
		case -1:
			cb.Direction = DirectionTheyOwe
			cb.NetAmount = net.Neg()
			result.TotalTheyOwe = result.TotalTheyOwe.Add(net.Neg())
		default:
			cb.Direction = DirectionSettled
			cb.NetAmount = decimal.Zero
		}
		result.Balances = append(result.Balances, cb)
	}

	return result
}

// PairBalance is the signed net obligation between two users. NetDebtor and
// NetCreditor are empty when the pair is settled.
type PairBalance struct {
	NetAmount   decimal.Decimal
	NetDebtor   string
	NetCreditor string
}

// NetPair collapses the two opposite edges between userA and userB into a
// single balance. aOwesB and bOwesA are the live edge amounts, zero when
// the edge is absent.
func NetPair(userA, userB string, aOwesB, bOwesA decimal.Decimal) PairBalance {
	net := aOwesB.Sub(bOwesA)
	switch net.Sign() {
	case 1:
		return PairBalance{NetAmount: net, NetDebtor: userA, NetCreditor: userB}
	case -1:
		return PairBalance{NetAmount: net.Neg(), NetDebtor: userB, NetCreditor: userA}
	default:
		return PairBalance{NetAmount: decimal.Zero}
	}
}

// SumAmounts totals the amounts of the given debts.
func SumAmounts(debts []models.Debt) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		total = total.Add(d.Amount)
	}
	return total
}
