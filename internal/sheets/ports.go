// Package sheets defines the outbound ports for the best-effort spreadsheet
// mirror. The mirror is one-directional glue: records are appended at least
// once, duplicates are only avoided through id-based set difference, and
// neither updates nor deletions propagate.
package sheets

import (
	"context"

	"spendlog/internal/core"
)

type (
	// RecordAppender pushes records onto the external sheet.
	RecordAppender interface {
		Append(ctx context.Context, records []core.Expense) error
	}

	// RecordReader fetches every record currently visible on the sheet.
	// Malformed rows are dropped, not reported.
	RecordReader interface {
		ReadAll(ctx context.Context) ([]core.Expense, error)
	}
)
