// Package csvio encodes and decodes the expense collection as CSV with the
// fixed column order Date,Description,Amount,Category,ID.
package csvio

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spendlog/internal/core"
	"spendlog/internal/ledger"
)

const Header = "Date,Description,Amount,Category,ID"

const minFields = 5

// Encode serializes the collection. The header row is always present, even
// for an empty collection. Description is always double-quoted with internal
// quotes doubled; the remaining fields cannot contain commas or quotes by
// the data model's constraints and are written bare. Row order follows
// input order.
func Encode(records []core.Expense) string {
	if len(records) == 0 {
		return Header + "\n"
	}
	var b strings.Builder
	b.WriteString(Header)
	for _, e := range records {
		b.WriteByte('\n')
		b.WriteString(e.Date)
		b.WriteString(`,"`)
		b.WriteString(strings.ReplaceAll(e.Description, `"`, `""`))
		b.WriteString(`",`)
		b.WriteString(e.Amount.String())
		b.WriteByte(',')
		b.WriteString(string(e.Category))
		b.WriteByte(',')
		b.WriteString(e.ID)
	}
	return b.String()
}

// Decode parses CSV text back into records. The first line is always treated
// as the header and skipped. Rows with fewer than five fields are dropped;
// an unparseable amount becomes zero instead of failing the import.
//
// Splitting is line-based before quote handling, so a quoted field spanning
// lines is not supported. Valid records never produce one: descriptions are
// single-line by the data model's constraints.
func Decode(text string) []core.Expense {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) <= 1 {
		return nil
	}
	var out []core.Expense
	for _, line := range lines[1:] {
		fields := splitLine(strings.TrimSuffix(line, "\r"))
		if len(fields) < minFields {
			continue
		}
		amount, err := decimal.NewFromString(fields[2])
		if err != nil {
			amount = decimal.Zero
		}
		out = append(out, core.Expense{
			Date:        fields[0],
			Description: fields[1],
			Amount:      amount,
			Category:    core.Category(fields[3]),
			ID:          fields[4],
		})
	}
	return out
}

// splitLine tokenizes one CSV line. A comma inside double quotes is not a
// separator; a doubled quote inside a quoted field decodes to one literal
// quote. The surrounding quotes themselves are consumed.
func splitLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; {
		case c == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}
	fields = append(fields, current.String())
	return fields
}

// Filename derives a descriptive export name from the active filter, falling
// back to expenses_<today>.csv when no date bound is set.
func Filename(f ledger.Filter, now time.Time) string {
	name := "expenses_" + now.Format(core.DateLayout)
	switch {
	case f.StartDate != "" && f.EndDate != "":
		name = "expenses_" + f.StartDate + "_to_" + f.EndDate
	case f.StartDate != "":
		name = "expenses_from_" + f.StartDate
	}
	if f.Category != "" {
		slug := strings.Join(strings.Fields(strings.ToLower(string(f.Category))), "_")
		name += "_" + slug
	}
	return name + ".csv"
}
