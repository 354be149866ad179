// Package sheets defines the outbound export contract: committed ledger
// transactions are appended, one row each, to an external spreadsheet.
package sheets

import (
	"context"
	"time"
)

// ExportRow is one exported ledger transaction.
type ExportRow struct {
	Kind        string // "income" or "expense"
	Action      string
	ID          string
	UserID      string
	Description string
	Amount      float64
	Date        time.Time
}

// RowAppender appends rows to the export destination.
type RowAppender interface {
	AppendRow(ctx context.Context, row ExportRow) error
}
