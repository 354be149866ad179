// Package worker consumes ledger events and exports the affected
// transactions to the configured spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Rohttz/GestorDeFinancas/internal/amqp"
	"github.com/Rohttz/GestorDeFinancas/internal/core"
	"github.com/Rohttz/GestorDeFinancas/internal/metrics"
	"github.com/Rohttz/GestorDeFinancas/internal/services"
	"github.com/Rohttz/GestorDeFinancas/internal/sheets"
)

type ExportWorker struct {
	store    services.Store
	appender sheets.RowAppender
}

func NewExportWorker(store services.Store, appender sheets.RowAppender) *ExportWorker {
	return &ExportWorker{store: store, appender: appender}
}

// HandleLedgerEvent exports the transaction named by the message. The
// message carries identifiers only; the current amounts come from the
// database, so out-of-order deliveries never export stale values.
func (w *ExportWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	row := sheets.ExportRow{
		Kind:   msg.Kind,
		Action: msg.Action,
		ID:     msg.ID,
		UserID: msg.UserID,
		Date:   time.Now().UTC(),
	}

	if msg.Action != "deleted" {
		switch msg.Kind {
		case "income":
			income, err := w.store.FindIncomeByID(ctx, msg.ID)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					// removed before we got to it; nothing to export
					slog.WarnContext(ctx, "Income gone before export, skipping", "id", msg.ID)
					return nil
				}
				return fmt.Errorf("load income: %w", err)
			}
			row.Description = income.Description
			row.Amount = income.Amount
			row.Date = income.Date
		case "expense":
			expense, err := w.store.FindExpenseByID(ctx, msg.ID)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					slog.WarnContext(ctx, "Expense gone before export, skipping", "id", msg.ID)
					return nil
				}
				return fmt.Errorf("load expense: %w", err)
			}
			row.Description = expense.Description
			row.Amount = expense.Amount
			row.Date = expense.Date
		default:
			slog.WarnContext(ctx, "Unknown ledger event kind, skipping", "kind", msg.Kind, "id", msg.ID)
			return nil
		}
	}

	if err := w.appender.AppendRow(ctx, row); err != nil {
		return fmt.Errorf("append export row: %w", err)
	}
	metrics.ExportedRows.Inc()

	slog.InfoContext(ctx, "Ledger event exported",
		"kind", msg.Kind,
		"action", msg.Action,
		"id", msg.ID)
	return nil
}
