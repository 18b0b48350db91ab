package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire form of every expense date. Zero-padded so that
// lexicographic comparison of two dates matches chronological order.
const DateLayout = "2006-01-02"

// SchemaVersion tags every persisted ledger snapshot.
const SchemaVersion = "1.0.0"

// MaxDescriptionLen bounds the free-text label after trimming.
const MaxDescriptionLen = 100

type Category string

const (
	Food           Category = "Food"
	Transportation Category = "Transportation"
	Housing        Category = "Housing"
	Utilities      Category = "Utilities"
	Entertainment  Category = "Entertainment"
	Shopping       Category = "Shopping"
	Healthcare     Category = "Healthcare"
	Education      Category = "Education"
	Travel         Category = "Travel"
	Insurance      Category = "Insurance"
	Savings        Category = "Savings"
	Other          Category = "Other"
)

// Categories returns the fixed category set in display order.
func Categories() []Category {
	return []Category{
		Food, Transportation, Housing, Utilities, Entertainment, Shopping,
		Healthcare, Education, Travel, Insurance, Savings, Other,
	}
}

func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

var (
	ErrInvalidDate        = errors.New("invalid date, want YYYY-MM-DD")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 100 characters)")
	ErrDescriptionNewline = errors.New("description must not contain line breaks")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidCategory    = errors.New("unknown category")
)

// ValidateDescription checks the free-text label after trimming: non-empty,
// at most MaxDescriptionLen runes, single line. The single-line rule keeps the
// CSV form line-oriented.
func ValidateDescription(s string) error {
	desc := strings.TrimSpace(s)
	if desc == "" {
		return ErrEmptyDescription
	}
	if len([]rune(desc)) > MaxDescriptionLen {
		return ErrDescriptionTooLong
	}
	if strings.ContainsAny(desc, "\r\n") {
		return ErrDescriptionNewline
	}
	return nil
}

// Expense is one recorded transaction. IDs are generated once at creation
// and never change or get reused.
type Expense struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"category"`
}

// NewExpense validates the user-supplied fields and mints a fresh record.
// The description is stored trimmed.
func NewExpense(date, description string, amount decimal.Decimal, category Category) (Expense, error) {
	e := Expense{
		ID:          uuid.NewString(),
		Date:        date,
		Description: strings.TrimSpace(description),
		Amount:      amount,
		Category:    category,
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

func (e Expense) Validate() error {
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return ErrInvalidDate
	}
	if err := ValidateDescription(e.Description); err != nil {
		return err
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// ExpensePatch carries a partial update; nil fields are left untouched.
type ExpensePatch struct {
	Date        *string          `json:"date,omitempty"`
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Category    *Category        `json:"category,omitempty"`
}

// ApplyTo returns a copy of e with the patched fields replaced.
func (p ExpensePatch) ApplyTo(e Expense) Expense {
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Description != nil {
		e.Description = strings.TrimSpace(*p.Description)
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	return e
}

// Snapshot is the full persisted collection plus metadata. It is replaced
// wholesale on every mutation, never partially written.
type Snapshot struct {
	Expenses    []Expense `json:"expenses"`
	LastUpdated time.Time `json:"lastUpdated"`
	Version     string    `json:"version"`
}
