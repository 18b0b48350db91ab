// Package google mirrors expense records to a Google Sheets spreadsheet
// through the Sheets v4 API, authenticated with a plain API key. The sheet
// holds one record per row in the column order Date, Description, Amount,
// Category, ID with a header in row one.
package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"spendlog/internal/core"
	ports "spendlog/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const defaultSheetName = "Expenses"

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	readRange     string
}

// Ensure interface conformance
var (
	_ ports.RecordAppender = (*Client)(nil)
	_ ports.RecordReader   = (*Client)(nil)
)

// New creates a Sheets mirror client. Both the API key and the spreadsheet id
// are required; the sheet name defaults to "Expenses".
func New(ctx context.Context, apiKey, spreadsheetID, sheetName string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing sheets API key")
	}
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(sheetName) == "" {
		sheetName = defaultSheetName
	}

	svc, err := gsheet.NewService(ctx, goption.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		readRange:     fmt.Sprintf("%s!A:E", sheetName),
	}, nil
}

// Append pushes the records onto the sheet in one call. Failure is reported
// as a single error with no partial-success detail.
func (c *Client) Append(ctx context.Context, records []core.Expense) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if len(records) == 0 {
		return nil
	}

	rows := make([][]any, len(records))
	for i, e := range records {
		rows[i] = expenseRow(e)
	}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.readRange,
		&gsheet.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", c.readRange, err)
	}
	return nil
}

// ReadAll fetches every row from the sheet. The first row is treated as the
// header; rows with fewer than five cells are dropped.
func (c *Client) ReadAll(ctx context.Context) ([]core.Expense, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.readRange).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.readRange, err)
	}

	var out []core.Expense
	for i, row := range resp.Values {
		if i == 0 {
			continue
		}
		if e, ok := rowToExpense(row); ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// expenseRow maps a record to its positional sheet row.
func expenseRow(e core.Expense) []any {
	return []any{e.Date, e.Description, e.Amount.String(), string(e.Category), e.ID}
}

// rowToExpense maps a sheet row back positionally. An unparseable amount
// becomes zero; a row that is too short is rejected.
func rowToExpense(row []any) (core.Expense, bool) {
	if len(row) < 5 {
		return core.Expense{}, false
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(fmt.Sprint(row[2])))
	if err != nil {
		amount = decimal.Zero
	}
	return core.Expense{
		Date:        fmt.Sprint(row[0]),
		Description: fmt.Sprint(row[1]),
		Amount:      amount,
		Category:    core.Category(fmt.Sprint(row[3])),
		ID:          fmt.Sprint(row[4]),
	}, true
}
