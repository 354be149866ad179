// financas serves the personal finance ledger REST API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Rohttz/GestorDeFinancas/internal/amqp"
	"github.com/Rohttz/GestorDeFinancas/internal/config"
	api "github.com/Rohttz/GestorDeFinancas/internal/http"
	"github.com/Rohttz/GestorDeFinancas/internal/log"
	"github.com/Rohttz/GestorDeFinancas/internal/services"
	"github.com/Rohttz/GestorDeFinancas/internal/storage"
	"github.com/Rohttz/GestorDeFinancas/internal/storage/memory"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
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

	var (
		store services.Store
		ready func(context.Context) error
	)
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer repo.Close()
		store = repo
		ready = repo.Ping
		slog.Info("Using SQLite storage", "path", cfg.SQLiteDBPath)
	default:
		store = memory.New()
		slog.Info("Using in-memory storage, data will not survive restarts")
	}

	var events services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// the API stays usable without the broker
			slog.Warn("AMQP broker unavailable, ledger events disabled", "error", err)
		} else {
			defer client.Close()
			events = client
		}
	}

	categories := services.NewCategoryService(store)
	srv := api.NewServer(":"+cfg.Port, api.Services{
		Users:      services.NewUserService(store, categories),
		Accounts:   services.NewAccountService(store),
		Categories: categories,
		Goals:      services.NewGoalService(store),
		Incomes:    services.NewIncomeService(store, events),
		Expenses:   services.NewExpenseService(store, events),
		Dashboard:  services.NewDashboardService(store),
		Ready:      ready,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
