// financas-worker consumes ledger events and exports the affected
// transactions to Google Sheets.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Rohttz/GestorDeFinancas/internal/amqp"
	"github.com/Rohttz/GestorDeFinancas/internal/config"
	"github.com/Rohttz/GestorDeFinancas/internal/log"
	"github.com/Rohttz/GestorDeFinancas/internal/services"
	"github.com/Rohttz/GestorDeFinancas/internal/sheets"
	"github.com/Rohttz/GestorDeFinancas/internal/sheets/google"
	sheetsmem "github.com/Rohttz/GestorDeFinancas/internal/sheets/memory"
	"github.com/Rohttz/GestorDeFinancas/internal/storage"
	"github.com/Rohttz/GestorDeFinancas/internal/storage/memory"
	"github.com/Rohttz/GestorDeFinancas/internal/worker"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Worker exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg := config.Load()
	log.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.AMQPURL == "" {
		return errors.New("AMQP_URL is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store services.Store
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer repo.Close()
		store = repo
	default:
		store = memory.New()
	}

	var appender sheets.RowAppender
	if cfg.GoogleSpreadsheetID != "" {
		client, err := google.NewFromEnv(ctx)
		if err != nil {
			return fmt.Errorf("init sheets client: %w", err)
		}
		appender = client
		slog.Info("Exporting to Google Sheets", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		appender = sheetsmem.New()
		slog.Warn("GOOGLE_SPREADSHEET_ID not set, exported rows stay in memory")
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}
	defer client.Close()

	w := worker.NewExportWorker(store, appender)

	slog.Info("Worker consuming ledger events", "queue", cfg.AMQPQueue)
	if err := client.ConsumeLedgerEvents(ctx, func(msg *amqp.LedgerEventMessage) error {
		return w.HandleLedgerEvent(ctx, msg)
	}); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
