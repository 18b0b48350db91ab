package google

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"spendlog/internal/core"
)

func TestNewRequiresCredentials(t *testing.T) {
	ctx := context.Background()

	if _, err := New(ctx, "", "sheet-id", ""); err == nil {
		t.Fatal("expected error for missing API key")
	}
	if _, err := New(ctx, "key", "", ""); err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
}

func TestExpenseRowOrder(t *testing.T) {
	e := core.Expense{
		ID:          "id-1",
		Date:        "2024-01-05",
		Description: "Lunch",
		Amount:      decimal.RequireFromString("12.50"),
		Category:    core.Food,
	}

	row := expenseRow(e)
	want := []any{"2024-01-05", "Lunch", "12.5", "Food", "id-1"}
	if len(row) != len(want) {
		t.Fatalf("row has %d cells, want %d", len(row), len(want))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("cell %d = %v, want %v", i, row[i], want[i])
		}
	}
}

func TestRowToExpense(t *testing.T) {
	e, ok := rowToExpense([]any{"2024-01-05", "Lunch", "12.50", "Food", "id-1"})
	if !ok {
		t.Fatal("row rejected")
	}
	if e.ID != "id-1" || e.Date != "2024-01-05" || e.Description != "Lunch" || e.Category != core.Food {
		t.Fatalf("expense = %+v", e)
	}
	if !e.Amount.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("amount = %s, want 12.50", e.Amount)
	}
}

func TestRowToExpenseRejectsShortRows(t *testing.T) {
	if _, ok := rowToExpense([]any{"2024-01-05", "Lunch", "12.50", "Food"}); ok {
		t.Fatal("four-cell row accepted")
	}
	if _, ok := rowToExpense(nil); ok {
		t.Fatal("empty row accepted")
	}
}

func TestRowToExpenseBadAmountBecomesZero(t *testing.T) {
	e, ok := rowToExpense([]any{"2024-01-05", "Lunch", "oops", "Food", "id-1"})
	if !ok {
		t.Fatal("row rejected")
	}
	if !e.Amount.IsZero() {
		t.Fatalf("amount = %s, want 0", e.Amount)
	}
}

func TestRowRoundTrip(t *testing.T) {
	in := core.Expense{
		ID:          "id-9",
		Date:        "2024-02-29",
		Description: `He said "hi", twice`,
		Amount:      decimal.RequireFromString("0.01"),
		Category:    core.Travel,
	}
	out, ok := rowToExpense(expenseRow(in))
	if !ok {
		t.Fatal("row rejected")
	}
	if out.ID != in.ID || out.Date != in.Date || out.Description != in.Description || out.Category != in.Category {
		t.Fatalf("round trip = %+v, want %+v", out, in)
	}
	if !out.Amount.Equal(in.Amount) {
		t.Fatalf("amount = %s, want %s", out.Amount, in.Amount)
	}
}
