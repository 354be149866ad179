// Package memory provides an in-process RowAppender for tests and local
// development without Google credentials.
package memory

import (
	"context"
	"sync"

	"github.com/Rohttz/GestorDeFinancas/internal/sheets"
)

type Appender struct {
	mu   sync.Mutex
	rows []sheets.ExportRow
}

var _ sheets.RowAppender = (*Appender)(nil)

func New() *Appender {
	return &Appender{}
}

func (a *Appender) AppendRow(_ context.Context, row sheets.ExportRow) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rows = append(a.rows, row)
	return nil
}

// Rows returns a copy of everything appended so far.
func (a *Appender) Rows() []sheets.ExportRow {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]sheets.ExportRow, len(a.rows))
	copy(out, a.rows)
	return out
}
