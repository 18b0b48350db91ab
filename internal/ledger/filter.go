package ledger

import (
	"strings"

	"spendlog/internal/core"
)

// Filter describes a conjunctive record filter. Every field is optional;
// a zero field places no constraint. Date bounds are inclusive and compared
// lexicographically, which is correct because dates are zero-padded
// YYYY-MM-DD strings.
type Filter struct {
	StartDate string
	EndDate   string
	Category  core.Category
	Search    string
}

// IsZero reports whether the filter constrains nothing.
func (f Filter) IsZero() bool {
	return f.StartDate == "" && f.EndDate == "" && f.Category == "" && f.Search == ""
}

// Matches reports whether e satisfies every set criterion.
func (f Filter) Matches(e core.Expense) bool {
	if f.StartDate != "" && e.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && e.Date > f.EndDate {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Description), term) &&
			!strings.Contains(strings.ToLower(string(e.Category)), term) {
			return false
		}
	}
	return true
}

// Apply returns the records matching f, preserving input order. The result
// is always a fresh slice, never an alias of the input.
func Apply(records []core.Expense, f Filter) []core.Expense {
	out := make([]core.Expense, 0, len(records))
	if f.IsZero() {
		return append(out, records...)
	}
	for _, e := range records {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}
