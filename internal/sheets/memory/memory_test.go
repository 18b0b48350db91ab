package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"spendlog/internal/core"
)

func record(id string) core.Expense {
	return core.Expense{
		ID:          id,
		Date:        "2024-01-05",
		Description: "Lunch",
		Amount:      decimal.NewFromInt(10),
		Category:    core.Food,
	}
}

func TestAppendAndReadAll(t *testing.T) {
	ctx := context.Background()
	s := New(record("seed"))

	if err := s.Append(ctx, []core.Expense{record("a"), record("b")}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ReadAll() returned %d records, want 3", len(got))
	}
	if got[0].ID != "seed" || got[1].ID != "a" || got[2].ID != "b" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestReadAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New(record("seed"))

	got, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	got[0].ID = "mutated"

	again, _ := s.ReadAll(ctx)
	if again[0].ID != "seed" {
		t.Fatal("caller mutation leaked into the store")
	}
}

func TestInjectedErrors(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.AppendErr = errors.New("append boom")
	s.ReadErr = errors.New("read boom")

	if err := s.Append(ctx, []core.Expense{record("a")}); err == nil {
		t.Fatal("Append() error = nil, want injected error")
	}
	if _, err := s.ReadAll(ctx); err == nil {
		t.Fatal("ReadAll() error = nil, want injected error")
	}
}
