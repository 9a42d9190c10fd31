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

// DefaultDescription is substituted when an order arrives with a blank
// description.
const DefaultDescription = "no description"

// OrderService validates and materializes shared-expense orders.
// It does NOT create debts; applying an order to the debt graph is
// DebtService's job, invoked by the caller as a separate step, so an order
// can exist without generated debts.
type OrderService struct {
	store storage.Store
}

// NewOrderService creates an OrderService with the given storage backend.
func NewOrderService(store storage.Store) *OrderService {
	return &OrderService{store: store}
}

// CreateOrder validates the input, computes the per-person share, and
// persists the order. Validation order matters and the first failure wins:
// amount range, then payer insertion, then participant count.
func (s *OrderService) CreateOrder(ctx context.Context, description string, amount decimal.Decimal, payer string, participants []string, createdBy string, chatID int64) (*models.Order, error) {
	if amount.Sign() <= 0 {
		return nil, validationErr("amount must be positive")
	}
	if amount.GreaterThan(models.MaxOrderAmount) {
		return nil, validationErr("amount exceeds limit")
	}

	// The payer always shares the expense: force them to the front of the
	// list if absent.
	if !contains(participants, payer) {
		participants = append([]string{payer}, participants...)
	}

	if len(participants) < models.MinParticipants {
		return nil, validationErr("at least two participants required")
	}

	if description == "" {
		description = DefaultDescription
	}

	order := &models.Order{
		ID:              models.NewOrderID(),
		Description:     description,
		Amount:          amount,
		Payer:           payer,
		Participants:    participants,
		PerPersonAmount: models.PerPersonShare(amount, len(participants)),
		CreatedBy:       createdBy,
		ChatID:          chatID,
		CreatedAt:       time.Now().Unix(),
	}

	if err := s.store.PutOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	slog.Info("order created",
		"order_id", order.ID,
		"chat_id", chatID,
		"payer", payer,
		"amount", amount.String(),
		"participants", len(participants),
	)
	return order, nil
}

// GetOrder retrieves an order by ID.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders returns all orders in a chat, newest first.
func (s *OrderService) ListOrders(ctx context.Context, chatID int64) ([]models.Order, error) {
	orders, err := s.store.ListOrders(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// LastOrder returns the most recent order submitted by the user in a chat.
func (s *OrderService) LastOrder(ctx context.Context, creator string, chatID int64) (*models.Order, error) {
	order, err := s.store.LastOrderByCreator(ctx, creator, chatID)
	if err != nil {
		return nil, fmt.Errorf("get last order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// DeleteOrder removes an order record. Reversing the debts the order
// generated is the caller's responsibility (DebtService.ReverseOrder),
// performed before the order itself goes away.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID string) error {
	if err := s.store.DeleteOrder(ctx, orderID); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	slog.Info("order deleted", "order_id", orderID)
	return nil
}

func contains(handles []string, handle string) bool {
	for _, h := range handles {
		if h == handle {
			return true
		}
	}
	return false
}
