package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nik-bond/pizzatg/internal/calculator"
	"github.com/nik-bond/pizzatg/internal/models"
	"github.com/nik-bond/pizzatg/internal/storage"
)

// Canned markers for empty debt views, surfaced as-is by callers.
const (
	NoDebtsMessage   = "no debts"
	NoOneOwesMessage = "no one owes you"
)

// DebtsView is a raw (non-netted) debt listing with its total. Message is
// set to a canned marker when the list is empty.
type DebtsView struct {
	Debts   []models.Debt
	Total   decimal.Decimal
	Message string
}

// DebtService maintains the debt graph: it turns orders into directed
// edges, reverses them on order deletion, and serves the raw and netted
// read views.
type DebtService struct {
	store storage.Store
}

// NewDebtService creates a DebtService with the given storage backend.
func NewDebtService(store storage.Store) *DebtService {
	return &DebtService{store: store}
}

// ApplyOrder creates or merges one debt edge per non-payer participant:
// participant owes payer the order's per-person share. Existing edges
// accumulate the share and the description; fresh edges start from it.
// All touched edges are persisted in a single transaction and returned.
//
// ApplyOrder is NOT idempotent: applying the same order twice doubles the
// debt. At-most-once application per order is the caller's responsibility.
func (s *DebtService) ApplyOrder(ctx context.Context, order *models.Order) ([]models.Debt, error) {
	now := time.Now().Unix()

	var touched []models.Debt
	for _, participant := range order.Participants {
		// The payer never owes themselves.
		if participant == order.Payer {
			continue
		}

		// An edge this order already touched merges in place. The store
		// read below is stale relative to the batch, so it must not win
		// over the in-batch entry.
		if prev := findTouched(touched, participant); prev != nil {
			*prev = prev.MergeShare(order.PerPersonAmount, "", now)
			continue
		}

		existing, err := s.store.GetDebt(ctx, participant, order.Payer, order.ChatID)
		if err != nil {
			return nil, fmt.Errorf("get debt: %w", err)
		}

		var debt models.Debt
		if existing != nil {
			debt = existing.MergeShare(order.PerPersonAmount, order.Description, now)
		} else {
			debt = models.Debt{
				Debtor:      participant,
				Creditor:    order.Payer,
				Amount:      order.PerPersonAmount,
				Description: order.Description,
				ChatID:      order.ChatID,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
		}
		touched = append(touched, debt)
	}

	refs := make([]*models.Debt, len(touched))
	for i := range touched {
		refs[i] = &touched[i]
	}
	if err := s.store.PutDebts(ctx, refs); err != nil {
		return nil, fmt.Errorf("save debts: %w", err)
	}

	slog.Info("order applied to debt graph",
		"order_id", order.ID,
		"chat_id", order.ChatID,
		"edges", len(touched),
	)
	return touched, nil
}

// ReverseOrder undoes an order's contribution to the debt graph, the
// inverse of ApplyOrder: each participant edge shrinks by the per-person
// share, and edges that reach zero or below are deleted. Edges merged from
// several orders keep the other orders' money intact.
func (s *DebtService) ReverseOrder(ctx context.Context, order *models.Order) error {
	now := time.Now().Unix()

	var keep []*models.Debt
	type edgeRef struct{ debtor, creditor string }
	var drop []edgeRef

	for _, participant := range order.Participants {
		if participant == order.Payer {
			continue
		}

		// A duplicate participant contributed two shares in ApplyOrder, so
		// its edge has to shrink twice here.
		var current models.Debt
		if prev := findKept(keep, participant); prev != nil {
			current = *prev
		} else {
			existing, err := s.store.GetDebt(ctx, participant, order.Payer, order.ChatID)
			if err != nil {
				return fmt.Errorf("get debt: %w", err)
			}
			if existing == nil {
				// Already settled by payments; nothing left to reverse.
				continue
			}
			current = *existing
		}

		reduced := current.Reduce(order.PerPersonAmount, now)
		if reduced.Settled() {
			keep = removeKept(keep, participant)
			drop = append(drop, edgeRef{participant, order.Payer})
		} else if prev := findKept(keep, participant); prev != nil {
			*prev = reduced
		} else {
			keep = append(keep, &reduced)
		}
	}

	if err := s.store.PutDebts(ctx, keep); err != nil {
		return fmt.Errorf("save debts: %w", err)
	}
	for _, ref := range drop {
		if err := s.store.DeleteDebt(ctx, ref.debtor, ref.creditor, order.ChatID); err != nil {
			return fmt.Errorf("delete debt: %w", err)
		}
	}

	slog.Info("order reversed",
		"order_id", order.ID,
		"chat_id", order.ChatID,
		"reduced", len(keep),
		"deleted", len(drop),
	)
	return nil
}

// Debt returns the amount debtor owes creditor, zero when no edge exists.
func (s *DebtService) Debt(ctx context.Context, debtor, creditor string, chatID int64) (decimal.Decimal, error) {
	debt, err := s.store.GetDebt(ctx, debtor, creditor, chatID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("get debt: %w", err)
	}
	if debt == nil {
		return decimal.Zero, nil
	}
	return debt.Amount, nil
}

// DebtsByDebtor returns all live debts the user owes, with their total.
func (s *DebtService) DebtsByDebtor(ctx context.Context, debtor string, chatID int64) (*DebtsView, error) {
	debts, err := s.store.ListDebtsByDebtor(ctx, debtor, chatID)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	return buildView(debts, NoDebtsMessage), nil
}

// DebtsByCreditor returns all live debts owed to the user, with their total.
func (s *DebtService) DebtsByCreditor(ctx context.Context, creditor string, chatID int64) (*DebtsView, error) {
	debts, err := s.store.ListDebtsByCreditor(ctx, creditor, chatID)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	return buildView(debts, NoOneOwesMessage), nil
}

// AllDebts returns every live debt in the chat with the grand total.
func (s *DebtService) AllDebts(ctx context.Context, chatID int64) (*DebtsView, error) {
	debts, err := s.store.ListAllDebts(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	return buildView(debts, NoDebtsMessage), nil
}

// NetBalance nets the two opposite edges between userA and userB into one
// signed balance. NetBalance(A,B) and NetBalance(B,A) report the same
// magnitude with the same debtor/creditor assignment.
func (s *DebtService) NetBalance(ctx context.Context, userA, userB string, chatID int64) (*calculator.PairBalance, error) {
	aOwesB, err := s.Debt(ctx, userA, userB, chatID)
	if err != nil {
		return nil, err
	}
	bOwesA, err := s.Debt(ctx, userB, userA, chatID)
	if err != nil {
		return nil, err
	}
	balance := calculator.NetPair(userA, userB, aOwesB, bOwesA)
	return &balance, nil
}

// ConsolidatedDebts computes the netted per-counterparty view for a user:
// for every counterparty with a live edge in either direction, both raw
// edges plus the netted direction and amount, with chat-wide totals.
func (s *DebtService) ConsolidatedDebts(ctx context.Context, user string, chatID int64) (*calculator.Consolidated, error) {
	owedBy, err := s.store.ListDebtsByDebtor(ctx, user, chatID)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	owedTo, err := s.store.ListDebtsByCreditor(ctx, user, chatID)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}

	consolidated := calculator.Consolidate(owedBy, owedTo)
	return &consolidated, nil
}

func buildView(debts []models.Debt, emptyMessage string) *DebtsView {
	live := debts[:0:0]
	for _, d := range debts {
		if !d.Settled() {
			live = append(live, d)
		}
	}
	view := &DebtsView{
		Debts: live,
		Total: calculator.SumAmounts(live),
	}
	if len(live) == 0 {
		view.Message = emptyMessage
	}
	return view
}

func findTouched(touched []models.Debt, debtor string) *models.Debt {
	for i := range touched {
		if touched[i].Debtor == debtor {
			return &touched[i]
		}
	}
	return nil
}

func findKept(keep []*models.Debt, debtor string) *models.Debt {
	for _, d := range keep {
		if d.Debtor == debtor {
			return d
		}
	}
	return nil
}

func removeKept(keep []*models.Debt, debtor string) []*models.Debt {
	out := keep[:0]
	for _, d := range keep {
		if d.Debtor != debtor {
			out = append(out, d)
		}
	}
	return out
}
