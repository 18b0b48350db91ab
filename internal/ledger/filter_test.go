package ledger

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"spendlog/internal/core"
)

func record(id, date, desc, amount string, cat core.Category) core.Expense {
	return core.Expense{
		ID:          id,
		Date:        date,
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Category:    cat,
	}
}

func sampleRecords() []core.Expense {
	return []core.Expense{
		record("a", "2024-01-05", "Groceries at the market", "100", core.Food),
		record("b", "2024-01-10", "Pizza night", "200", core.Food),
		record("c", "2024-02-01", "Bus ticket", "50", core.Transportation),
		record("d", "2024-02-14", "Cinema", "30", core.Entertainment),
	}
}

func ids(records []core.Expense) []string {
	out := make([]string, len(records))
	for i, e := range records {
		out[i] = e.ID
	}
	return out
}

func TestFilterDimensions(t *testing.T) {
	records := sampleRecords()

	tests := []struct {
		name string
		f    Filter
		want []string
	}{
		{"zero filter matches all", Filter{}, []string{"a", "b", "c", "d"}},
		{"start date inclusive", Filter{StartDate: "2024-01-10"}, []string{"b", "c", "d"}},
		{"end date inclusive", Filter{EndDate: "2024-01-10"}, []string{"a", "b"}},
		{"date range", Filter{StartDate: "2024-01-06", EndDate: "2024-02-01"}, []string{"b", "c"}},
		{"category", Filter{Category: core.Food}, []string{"a", "b"}},
		{"search matches description", Filter{Search: "pizza"}, []string{"b"}},
		{"search matches category", Filter{Search: "transport"}, []string{"c"}},
		{"search is case insensitive", Filter{Search: "CINEMA"}, []string{"d"}},
		{"all criteria conjunctive", Filter{StartDate: "2024-01-01", EndDate: "2024-01-31", Category: core.Food, Search: "market"}, []string{"a"}},
		{"no match", Filter{Category: core.Travel}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(records, tt.f))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterIsZero(t *testing.T) {
	if !(Filter{}).IsZero() {
		t.Fatal("empty filter not zero")
	}
	for name, f := range map[string]Filter{
		"start":    {StartDate: "2024-01-01"},
		"end":      {EndDate: "2024-01-31"},
		"category": {Category: core.Food},
		"search":   {Search: "pizza"},
	} {
		if f.IsZero() {
			t.Errorf("filter with %s reported zero", name)
		}
	}
}

func TestApplyZeroFilterCopies(t *testing.T) {
	records := sampleRecords()
	got := Apply(records, Filter{})
	if !reflect.DeepEqual(ids(got), ids(records)) {
		t.Fatalf("Apply() = %v, want all records", ids(got))
	}
	got[0].Description = "mutated"
	if records[0].Description == "mutated" {
		t.Fatal("result aliases the input slice")
	}
}

func TestFilterComposition(t *testing.T) {
	// Filtering twice with split criteria must equal filtering once with
	// the combined filter.
	records := sampleRecords()

	first := Apply(records, Filter{Category: core.Food})
	chained := Apply(first, Filter{StartDate: "2024-01-10"})
	combined := Apply(records, Filter{Category: core.Food, StartDate: "2024-01-10"})

	if !reflect.DeepEqual(ids(chained), ids(combined)) {
		t.Fatalf("chained = %v, combined = %v", ids(chained), ids(combined))
	}
}

func TestApplyPreservesOrder(t *testing.T) {
	records := sampleRecords()
	got := Apply(records, Filter{StartDate: "2024-01-01"})
	if !reflect.DeepEqual(ids(got), []string{"a", "b", "c", "d"}) {
		t.Fatalf("order changed: %v", ids(got))
	}
}
