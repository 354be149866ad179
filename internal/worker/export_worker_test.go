package worker

import (
	"context"
	"testing"
	"time"

	"github.com/Rohttz/GestorDeFinancas/internal/amqp"
	"github.com/Rohttz/GestorDeFinancas/internal/core"
	sheetsmem "github.com/Rohttz/GestorDeFinancas/internal/sheets/memory"
	storagemem "github.com/Rohttz/GestorDeFinancas/internal/storage/memory"
)

func TestHandleLedgerEventExportsExpense(t *testing.T) {
	store := storagemem.New()
	appender := sheetsmem.New()
	w := NewExportWorker(store, appender)

	accountID := "a1"
	err := store.SaveExpense(context.Background(), &core.Expense{
		ID:           "e1",
		UserID:       "u1",
		Description:  "Mercado",
		Amount:       55.5,
		Date:         time.Date(2026, time.August, 7, 0, 0, 0, 0, time.UTC),
		Installments: 1,
		AccountID:    &accountID,
	})
	if err != nil {
		t.Fatalf("seed expense: %v", err)
	}

	msg := amqp.NewLedgerEventMessage("expense", "created", "e1", "u1")
	if err := w.HandleLedgerEvent(context.Background(), msg); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	rows := appender.Rows()
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Description != "Mercado" || rows[0].Amount != 55.5 {
		t.Errorf("row = %+v, want Mercado/55.5", rows[0])
	}
}

func TestHandleLedgerEventSkipsMissingTransaction(t *testing.T) {
	store := storagemem.New()
	appender := sheetsmem.New()
	w := NewExportWorker(store, appender)

	msg := amqp.NewLedgerEventMessage("income", "updated", "ghost", "u1")
	if err := w.HandleLedgerEvent(context.Background(), msg); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(appender.Rows()) != 0 {
		t.Error("missing transaction should not be exported")
	}
}

func TestHandleLedgerEventExportsDeletion(t *testing.T) {
	store := storagemem.New()
	appender := sheetsmem.New()
	w := NewExportWorker(store, appender)

	msg := amqp.NewLedgerEventMessage("income", "deleted", "i1", "u1")
	if err := w.HandleLedgerEvent(context.Background(), msg); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	rows := appender.Rows()
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Action != "deleted" || rows[0].ID != "i1" {
		t.Errorf("row = %+v, want deleted/i1", rows[0])
	}
}
