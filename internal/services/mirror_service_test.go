package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"spendlog/internal/core"
	"spendlog/internal/sheets/memory"
)

func mirrorExpense(t *testing.T, desc string) core.Expense {
	t.Helper()
	e, err := core.NewExpense("2024-01-05", desc, decimal.NewFromInt(10), core.Food)
	if err != nil {
		t.Fatalf("NewExpense() error = %v", err)
	}
	return e
}

func TestMirrorSyncPushesOnlyUnseen(t *testing.T) {
	ctx := context.Background()
	seen := mirrorExpense(t, "already there")
	fresh := mirrorExpense(t, "new one")

	sheet := memory.New(seen)
	svc := NewMirrorService(sheet, sheet)

	result := svc.Sync(ctx, []core.Expense{seen, fresh})
	if !result.Success {
		t.Fatalf("sync failed: %v", result.Errors)
	}
	if result.Synced != 1 {
		t.Fatalf("Synced = %d, want 1", result.Synced)
	}

	remote, err := sheet.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(remote) != 2 {
		t.Fatalf("remote has %d records, want 2", len(remote))
	}
}

func TestMirrorSyncIsIdempotentById(t *testing.T) {
	ctx := context.Background()
	e := mirrorExpense(t, "once")

	sheet := memory.New()
	svc := NewMirrorService(sheet, sheet)

	for i := 0; i < 3; i++ {
		result := svc.Sync(ctx, []core.Expense{e})
		if !result.Success {
			t.Fatalf("pass %d failed: %v", i, result.Errors)
		}
	}

	remote, _ := sheet.ReadAll(ctx)
	if len(remote) != 1 {
		t.Fatalf("remote has %d records, want 1", len(remote))
	}
}

func TestMirrorSyncNothingToDo(t *testing.T) {
	sheet := memory.New()
	svc := NewMirrorService(sheet, sheet)

	result := svc.Sync(context.Background(), nil)
	if !result.Success || result.Synced != 0 || len(result.Errors) != 0 {
		t.Fatalf("result = %+v, want clean success", result)
	}
}

func TestMirrorSyncReadFailure(t *testing.T) {
	sheet := memory.New()
	sheet.ReadErr = errors.New("boom")
	svc := NewMirrorService(sheet, sheet)

	result := svc.Sync(context.Background(), []core.Expense{mirrorExpense(t, "x")})
	if result.Success || len(result.Errors) == 0 {
		t.Fatalf("result = %+v, want failure with errors", result)
	}
}

func TestMirrorSyncAppendFailure(t *testing.T) {
	sheet := memory.New()
	sheet.AppendErr = errors.New("quota")
	svc := NewMirrorService(sheet, sheet)

	result := svc.Sync(context.Background(), []core.Expense{mirrorExpense(t, "x")})
	if result.Success || result.Synced != 0 || len(result.Errors) == 0 {
		t.Fatalf("result = %+v, want failure with errors", result)
	}
}

func TestMirrorSyncUnconfigured(t *testing.T) {
	svc := NewMirrorService(nil, nil)
	result := svc.Sync(context.Background(), nil)
	if result.Success || len(result.Errors) == 0 {
		t.Fatalf("result = %+v, want unconfigured failure", result)
	}
}
