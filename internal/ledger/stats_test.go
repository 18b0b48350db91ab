package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spendlog/internal/core"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func TestAggregateConcreteCase(t *testing.T) {
	records := []core.Expense{
		record("1", "2024-01-05", "a", "100", core.Food),
		record("2", "2024-01-10", "b", "200", core.Food),
		record("3", "2024-02-01", "c", "50", core.Transportation),
	}
	now := time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)

	s := Aggregate(records, now)

	if !s.Total.Equal(mustDecimal(t, "350")) {
		t.Errorf("Total = %s, want 350", s.Total)
	}
	if s.Count != 3 {
		t.Errorf("Count = %d, want 3", s.Count)
	}
	if got := s.Average.Round(2); !got.Equal(mustDecimal(t, "116.67")) {
		t.Errorf("Average = %s, want 116.67", got)
	}
	if s.TopCategory != "Food" {
		t.Errorf("TopCategory = %q, want Food", s.TopCategory)
	}
	if !s.TopCategoryTotal.Equal(mustDecimal(t, "300")) {
		t.Errorf("TopCategoryTotal = %s, want 300", s.TopCategoryTotal)
	}
	if !s.CurrentMonthTotal.Equal(mustDecimal(t, "50")) {
		t.Errorf("CurrentMonthTotal = %s, want 50", s.CurrentMonthTotal)
	}
	if !s.PreviousMonthTotal.Equal(mustDecimal(t, "300")) {
		t.Errorf("PreviousMonthTotal = %s, want 300", s.PreviousMonthTotal)
	}
	// (50 - 300) / 300 * 100
	if got := s.MonthOverMonthPct.Round(2); !got.Equal(mustDecimal(t, "-83.33")) {
		t.Errorf("MonthOverMonthPct = %s, want -83.33", got)
	}
	// Span 2024-01-05..2024-02-01 inclusive is 28 days; 350/28 = 12.5.
	if !s.DailyAverage.Equal(mustDecimal(t, "12.5")) {
		t.Errorf("DailyAverage = %s, want 12.5", s.DailyAverage)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	s := Aggregate(nil, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC))

	if s.Count != 0 || !s.Total.IsZero() || !s.Average.IsZero() ||
		!s.CurrentMonthTotal.IsZero() || !s.PreviousMonthTotal.IsZero() ||
		!s.MonthOverMonthPct.IsZero() || !s.DailyAverage.IsZero() {
		t.Fatalf("expected all-zero stats, got %+v", s)
	}
	if s.TopCategory != NoCategory {
		t.Fatalf("TopCategory = %q, want %q", s.TopCategory, NoCategory)
	}
}

func TestAverageEmptyIsZero(t *testing.T) {
	if got := Average(nil); !got.IsZero() {
		t.Fatalf("Average(nil) = %s, want 0", got)
	}
}

func TestTopCategoryTieBreak(t *testing.T) {
	// Exact tie: the category encountered first wins.
	records := []core.Expense{
		record("1", "2024-01-01", "a", "100", core.Travel),
		record("2", "2024-01-02", "b", "100", core.Food),
	}
	name, total := TopCategory(records)
	if name != "Travel" {
		t.Fatalf("TopCategory = %q, want Travel", name)
	}
	if !total.Equal(mustDecimal(t, "100")) {
		t.Fatalf("total = %s, want 100", total)
	}
}

func TestDailyAverageSingleDayFloor(t *testing.T) {
	records := []core.Expense{
		record("1", "2024-01-05", "a", "40", core.Food),
		record("2", "2024-01-05", "b", "60", core.Food),
	}
	s := Aggregate(records, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	if !s.DailyAverage.Equal(mustDecimal(t, "100")) {
		t.Fatalf("DailyAverage = %s, want 100", s.DailyAverage)
	}
}

func TestMonthOverMonthZeroPreviousGuard(t *testing.T) {
	records := []core.Expense{
		record("1", "2024-02-05", "a", "100", core.Food),
	}
	s := Aggregate(records, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC))
	if !s.MonthOverMonthPct.IsZero() {
		t.Fatalf("MonthOverMonthPct = %s, want 0 when previous month is empty", s.MonthOverMonthPct)
	}
}

func TestPreviousMonthAcrossYearBoundary(t *testing.T) {
	records := []core.Expense{
		record("1", "2023-12-20", "a", "80", core.Food),
		record("2", "2024-01-10", "b", "40", core.Food),
	}
	s := Aggregate(records, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	if !s.PreviousMonthTotal.Equal(mustDecimal(t, "80")) {
		t.Fatalf("PreviousMonthTotal = %s, want 80", s.PreviousMonthTotal)
	}
	if !s.CurrentMonthTotal.Equal(mustDecimal(t, "40")) {
		t.Fatalf("CurrentMonthTotal = %s, want 40", s.CurrentMonthTotal)
	}
}

func TestCategoryTotalsOrderAndSums(t *testing.T) {
	records := []core.Expense{
		record("1", "2024-01-01", "a", "10", core.Food),
		record("2", "2024-01-02", "b", "20", core.Travel),
		record("3", "2024-01-03", "c", "5", core.Food),
	}
	totals := CategoryTotals(records)
	if len(totals) != 2 {
		t.Fatalf("len(totals) = %d, want 2", len(totals))
	}
	if totals[0].Category != core.Food || !totals[0].Total.Equal(mustDecimal(t, "15")) {
		t.Fatalf("totals[0] = %+v", totals[0])
	}
	if totals[1].Category != core.Travel || !totals[1].Total.Equal(mustDecimal(t, "20")) {
		t.Fatalf("totals[1] = %+v", totals[1])
	}
}

func TestMonthlyTotals(t *testing.T) {
	records := []core.Expense{
		record("1", "2024-01-05", "a", "100", core.Food),
		record("2", "2024-01-10", "b", "200", core.Food),
		record("3", "2024-02-01", "c", "50", core.Transportation),
	}
	totals := MonthlyTotals(records)
	if len(totals) != 2 {
		t.Fatalf("len(totals) = %d, want 2", len(totals))
	}
	if !totals["2024-01"].Equal(mustDecimal(t, "300")) {
		t.Fatalf("2024-01 = %s, want 300", totals["2024-01"])
	}
	if !totals["2024-02"].Equal(mustDecimal(t, "50")) {
		t.Fatalf("2024-02 = %s, want 50", totals["2024-02"])
	}
}
