package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"spendlog/internal/core"
)

// NoCategory is reported as the top category of an empty collection.
const NoCategory = "None"

var hundred = decimal.NewFromInt(100)

// Stats are the derived statistics of a record collection. They are never
// persisted; callers recompute them on demand.
type Stats struct {
	Total              decimal.Decimal `json:"total"`
	Count              int             `json:"count"`
	Average            decimal.Decimal `json:"average"`
	CurrentMonthTotal  decimal.Decimal `json:"currentMonthTotal"`
	PreviousMonthTotal decimal.Decimal `json:"previousMonthTotal"`
	MonthOverMonthPct  decimal.Decimal `json:"monthOverMonthPct"`
	TopCategory        string          `json:"topCategory"`
	TopCategoryTotal   decimal.Decimal `json:"topCategoryTotal"`
	DailyAverage       decimal.Decimal `json:"dailyAverage"`
}

// CategoryTotal is a per-category running total.
type CategoryTotal struct {
	Category core.Category   `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// Sum returns the total amount of the collection.
func Sum(records []core.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range records {
		total = total.Add(e.Amount)
	}
	return total
}

// Average returns the arithmetic mean amount, or zero for an empty input.
func Average(records []core.Expense) decimal.Decimal {
	if len(records) == 0 {
		return decimal.Zero
	}
	return Sum(records).Div(decimal.NewFromInt(int64(len(records))))
}

// CategoryTotals groups amounts by category, preserving the order in which
// each category is first encountered.
func CategoryTotals(records []core.Expense) []CategoryTotal {
	totals := map[core.Category]decimal.Decimal{}
	var order []core.Category
	for _, e := range records {
		if _, seen := totals[e.Category]; !seen {
			order = append(order, e.Category)
		}
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	out := make([]CategoryTotal, 0, len(order))
	for _, c := range order {
		out = append(out, CategoryTotal{Category: c, Total: totals[c]})
	}
	return out
}

// TopCategory returns the category with the highest total spend. Exact ties
// go to the category encountered first. Empty input yields NoCategory.
func TopCategory(records []core.Expense) (string, decimal.Decimal) {
	totals := CategoryTotals(records)
	if len(totals) == 0 {
		return NoCategory, decimal.Zero
	}
	top := totals[0]
	for _, ct := range totals[1:] {
		if ct.Total.GreaterThan(top.Total) {
			top = ct
		}
	}
	return string(top.Category), top.Total
}

// GroupByCategory splits the collection into per-category slices, input
// order preserved within each group.
func GroupByCategory(records []core.Expense) map[core.Category][]core.Expense {
	groups := map[core.Category][]core.Expense{}
	for _, e := range records {
		groups[e.Category] = append(groups[e.Category], e)
	}
	return groups
}

// GroupByMonth splits the collection by YYYY-MM month key.
func GroupByMonth(records []core.Expense) map[string][]core.Expense {
	groups := map[string][]core.Expense{}
	for _, e := range records {
		if len(e.Date) < 7 {
			continue
		}
		key := e.Date[:7]
		groups[key] = append(groups[key], e)
	}
	return groups
}

// MonthlyTotals returns the total spend per YYYY-MM month key.
func MonthlyTotals(records []core.Expense) map[string]decimal.Decimal {
	totals := map[string]decimal.Decimal{}
	for key, group := range GroupByMonth(records) {
		totals[key] = Sum(group)
	}
	return totals
}

// Aggregate computes the full derived statistics for the collection. The
// current calendar month is taken from now so the computation stays
// deterministic under test. Empty input yields all-zero stats and
// TopCategory "None".
func Aggregate(records []core.Expense, now time.Time) Stats {
	var s Stats
	s.Count = len(records)
	s.Total = Sum(records)
	s.Average = Average(records)
	s.TopCategory, s.TopCategoryTotal = TopCategory(records)

	currentMonth := now.Format("2006-01")
	// First of the month avoids end-of-month overflow when stepping back.
	previousMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -1, 0).Format("2006-01")

	monthly := MonthlyTotals(records)
	if t, ok := monthly[currentMonth]; ok {
		s.CurrentMonthTotal = t
	}
	if t, ok := monthly[previousMonth]; ok {
		s.PreviousMonthTotal = t
	}
	if !s.PreviousMonthTotal.IsZero() {
		s.MonthOverMonthPct = s.CurrentMonthTotal.Sub(s.PreviousMonthTotal).
			Div(s.PreviousMonthTotal).Mul(hundred)
	}

	s.DailyAverage = dailyAverage(records, s.Total)
	return s
}

// dailyAverage divides the total by the inclusive day span between the
// oldest and newest record, floored at one day.
func dailyAverage(records []core.Expense, total decimal.Decimal) decimal.Decimal {
	if len(records) == 0 {
		return decimal.Zero
	}
	oldest, newest := records[0].Date, records[0].Date
	for _, e := range records[1:] {
		if e.Date < oldest {
			oldest = e.Date
		}
		if e.Date > newest {
			newest = e.Date
		}
	}
	days := int64(1)
	from, errFrom := time.Parse(core.DateLayout, oldest)
	to, errTo := time.Parse(core.DateLayout, newest)
	if errFrom == nil && errTo == nil {
		if span := int64(to.Sub(from).Hours()/24) + 1; span > days {
			days = span
		}
	}
	return total.Div(decimal.NewFromInt(days))
}
