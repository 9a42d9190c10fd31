package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nik-bond/pizzatg/internal/models"
	"github.com/nik-bond/pizzatg/internal/storage"
)

// PaymentService applies payments against debt edges and keeps the
// append-only payment audit trail.
type PaymentService struct {
	store storage.Store
}

// NewPaymentService creates a PaymentService with the given storage backend.
func NewPaymentService(store storage.Store) *PaymentService {
	return &PaymentService{store: store}
}

// RecordPayment reduces the (debtor, creditor, chat) edge by amount and
// appends a Payment record carrying exactly what was paid.
//
// A non-positive amount is a ValidationError. A missing or settled edge is
// ErrDebtNotFound. An amount larger than the edge is ErrPaymentExceedsDebt
// and leaves the edge untouched: no reverse debt is ever created. An edge
// reduced to zero is deleted.
func (s *PaymentService) RecordPayment(ctx context.Context, debtor, creditor string, amount decimal.Decimal, chatID int64) (*models.Payment, error) {
	if amount.Sign() <= 0 {
		return nil, validationErr("payment amount must be positive")
	}

	debt, err := s.store.GetDebt(ctx, debtor, creditor, chatID)
	if err != nil {
		return nil, fmt.Errorf("get debt: %w", err)
	}
	if debt == nil || debt.Settled() {
		return nil, ErrDebtNotFound
	}
	if amount.GreaterThan(debt.Amount) {
		return nil, ErrPaymentExceedsDebt
	}

	now := time.Now().Unix()
	reduced := debt.Reduce(amount, now)
	if reduced.Settled() {
		if err := s.store.DeleteDebt(ctx, debtor, creditor, chatID); err != nil {
			return nil, fmt.Errorf("delete settled debt: %w", err)
		}
	} else {
		if err := s.store.PutDebt(ctx, &reduced); err != nil {
			return nil, fmt.Errorf("save debt: %w", err)
		}
	}

	payment := &models.Payment{
		ID:        models.NewPaymentID(),
		Debtor:    debtor,
		Creditor:  creditor,
		Amount:    amount,
		ChatID:    chatID,
		CreatedAt: now,
	}
	if err := s.store.PutPayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("save payment: %w", err)
	}

	slog.Info("payment recorded",
		"payment_id", payment.ID,
		"chat_id", chatID,
		"debtor", debtor,
		"creditor", creditor,
		"amount", amount.String(),
		"settled", reduced.Settled(),
	)
	return payment, nil
}

// PaymentsByDebtor returns payments made by the user in a chat.
func (s *PaymentService) PaymentsByDebtor(ctx context.Context, debtor string, chatID int64) ([]models.Payment, error) {
	payments, err := s.store.ListPaymentsByDebtor(ctx, debtor, chatID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// PaymentsByCreditor returns payments received by the user in a chat.
func (s *PaymentService) PaymentsByCreditor(ctx context.Context, creditor string, chatID int64) ([]models.Payment, error) {
	payments, err := s.store.ListPaymentsByCreditor(ctx, creditor, chatID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}
