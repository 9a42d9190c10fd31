package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPerPersonShare(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		n      int
		want   string
	}{
		{"even split", "3000", 3, "1000"},
		{"two way", "100", 2, "50"},
		{"repeating decimal rounds down", "100", 3, "33.33"},
		{"half rounds up", "100.01", 2, "50.01"},
		{"tenth of a unit", "0.1", 3, "0.03"},
		{"exact cents", "99.99", 3, "33.33"},
		{"seven way", "1000", 7, "142.86"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			got := PerPersonShare(amount, tt.n)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("PerPersonShare(%s, %d) = %s, want %s", tt.amount, tt.n, got, tt.want)
			}
		})
	}
}

func TestPerPersonShare_DriftBound(t *testing.T) {
	// The sum of shares may drift from the amount by at most one minimal
	// unit per participant. The drift is accepted, never redistributed.
	amounts := []string{"3000", "100", "99.99", "0.05", "1234567.89", "10"}
	cent := decimal.RequireFromString("0.01")

	for _, raw := range amounts {
		amount := decimal.RequireFromString(raw)
		for n := 2; n <= 10; n++ {
			share := PerPersonShare(amount, n)
			sum := share.Mul(decimal.NewFromInt(int64(n)))
			drift := sum.Sub(amount).Abs()
			bound := cent.Mul(decimal.NewFromInt(int64(n)))
			if drift.GreaterThan(bound) {
				t.Errorf("amount %s over %d people: share %s, sum %s, drift %s exceeds %s",
					raw, n, share, sum, drift, bound)
			}
		}
	}
}

func TestDebtMergeShare(t *testing.T) {
	debt := Debt{
		Debtor:      "petya",
		Creditor:    "ivan",
		Amount:      decimal.RequireFromString("1000"),
		Description: "pizza",
		ChatID:      1,
		CreatedAt:   100,
		UpdatedAt:   100,
	}

	merged := debt.MergeShare(decimal.RequireFromString("500"), "sushi", 200)

	if !merged.Amount.Equal(decimal.RequireFromString("1500")) {
		t.Errorf("merged amount = %s, want 1500", merged.Amount)
	}
	if merged.Description != "pizza, sushi" {
		t.Errorf("merged description = %q, want %q", merged.Description, "pizza, sushi")
	}
	if merged.CreatedAt != 100 {
		t.Errorf("merge must preserve CreatedAt, got %d", merged.CreatedAt)
	}
	if merged.UpdatedAt != 200 {
		t.Errorf("merge must refresh UpdatedAt, got %d", merged.UpdatedAt)
	}
	if !debt.Amount.Equal(decimal.RequireFromString("1000")) {
		t.Error("MergeShare must not mutate the receiver")
	}
}

func TestDebtMergeShare_DropsEmptyFragments(t *testing.T) {
	tests := []struct {
		existing string
		added    string
		want     string
	}{
		{"", "pizza", "pizza"},
		{"pizza", "", "pizza"},
		{"", "", ""},
		{"pizza", "sushi", "pizza, sushi"},
	}
	for _, tt := range tests {
		debt := Debt{Description: tt.existing}
		got := debt.MergeShare(decimal.Zero, tt.added, 0).Description
		if got != tt.want {
			t.Errorf("merge(%q, %q) description = %q, want %q", tt.existing, tt.added, got, tt.want)
		}
	}
}

func TestDebtReduceAndSettled(t *testing.T) {
	debt := Debt{Amount: decimal.RequireFromString("200"), UpdatedAt: 1}

	partial := debt.Reduce(decimal.RequireFromString("150"), 2)
	if partial.Settled() {
		t.Error("debt of 50 must not be settled")
	}
	if !partial.Amount.Equal(decimal.RequireFromString("50")) {
		t.Errorf("reduced amount = %s, want 50", partial.Amount)
	}

	full := debt.Reduce(decimal.RequireFromString("200"), 2)
	if !full.Settled() {
		t.Error("debt reduced to exactly zero must be settled")
	}
}
