package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nik-bond/pizzatg/internal/storage/memory"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateOrder_PizzaScenario(t *testing.T) {
	store := memory.New()
	orders := NewOrderService(store)
	ctx := context.Background()

	order, err := orders.CreateOrder(ctx, "pizza", dec("3000"), "ivan", []string{"petya", "masha"}, "ivan", 1)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	// ivan is forced to the front of the participant list.
	want := []string{"ivan", "petya", "masha"}
	if len(order.Participants) != len(want) {
		t.Fatalf("participants = %v, want %v", order.Participants, want)
	}
	for i, name := range want {
		if order.Participants[i] != name {
			t.Errorf("participants[%d] = %s, want %s", i, order.Participants[i], name)
		}
	}

	if !order.PerPersonAmount.Equal(dec("1000")) {
		t.Errorf("per-person amount = %s, want 1000", order.PerPersonAmount)
	}

	saved, err := store.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if saved == nil {
		t.Fatal("order was not persisted")
	}

	// Participants are registered lazily.
	for _, name := range want {
		exists, err := store.UserExists(ctx, name)
		if err != nil {
			t.Fatalf("UserExists failed: %v", err)
		}
		if !exists {
			t.Errorf("user %s was not registered", name)
		}
	}
}

func TestCreateOrder_Validation(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		payer        string
		participants []string
		wantReason   string
	}{
		{"zero amount", "0", "ivan", []string{"petya"}, "amount must be positive"},
		{"negative amount", "-10", "ivan", []string{"petya"}, "amount must be positive"},
		{"over limit", "1000000000.01", "ivan", []string{"petya"}, "amount exceeds limit"},
		{"payer alone", "100", "ivan", nil, "at least two participants required"},
		{"payer only participant", "100", "ivan", []string{"ivan"}, "at least two participants required"},
		// Amount range is checked before the participant count: the first
		// failure wins even when both inputs are bad.
		{"amount checked first", "-1", "ivan", nil, "amount must be positive"},
	}

	orders := NewOrderService(memory.New())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := orders.CreateOrder(context.Background(), "x", dec(tt.amount), tt.payer, tt.participants, tt.payer, 1)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validationErr.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", validationErr.Reason, tt.wantReason)
			}
		})
	}
}

func TestCreateOrder_AmountAtLimit(t *testing.T) {
	orders := NewOrderService(memory.New())
	if _, err := orders.CreateOrder(context.Background(), "x", dec("1000000000"), "ivan", []string{"petya"}, "ivan", 1); err != nil {
		t.Fatalf("amount exactly at the limit must pass, got %v", err)
	}
}

func TestCreateOrder_DefaultDescription(t *testing.T) {
	orders := NewOrderService(memory.New())
	order, err := orders.CreateOrder(context.Background(), "", dec("100"), "ivan", []string{"petya"}, "ivan", 1)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.Description != DefaultDescription {
		t.Errorf("description = %q, want %q", order.Description, DefaultDescription)
	}
}

func TestCreateOrder_PayerAlreadyListed(t *testing.T) {
	orders := NewOrderService(memory.New())
	order, err := orders.CreateOrder(context.Background(), "x", dec("100"), "ivan", []string{"petya", "ivan"}, "ivan", 1)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if len(order.Participants) != 2 {
		t.Errorf("payer must not be duplicated, participants = %v", order.Participants)
	}
}

func TestLastOrderAndDelete(t *testing.T) {
	store := memory.New()
	orders := NewOrderService(store)
	ctx := context.Background()

	first, err := orders.CreateOrder(ctx, "pizza", dec("100"), "ivan", []string{"petya"}, "ivan", 1)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	first.CreatedAt -= 60 // backdate so ordering is unambiguous
	if err := store.PutOrder(ctx, first); err != nil {
		t.Fatalf("PutOrder failed: %v", err)
	}

	second, err := orders.CreateOrder(ctx, "sushi", dec("200"), "ivan", []string{"petya"}, "ivan", 1)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	last, err := orders.LastOrder(ctx, "ivan", 1)
	if err != nil {
		t.Fatalf("LastOrder failed: %v", err)
	}
	if last.ID != second.ID {
		t.Errorf("last order = %s, want %s", last.ID, second.ID)
	}

	if err := orders.DeleteOrder(ctx, second.ID); err != nil {
		t.Fatalf("DeleteOrder failed: %v", err)
	}
	if _, err := orders.GetOrder(ctx, second.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound after delete, got %v", err)
	}

	// No orders by another creator.
	if _, err := orders.LastOrder(ctx, "masha", 1); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound for unknown creator, got %v", err)
	}
}
