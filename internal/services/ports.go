// Package services orchestrates the ledger consistency engine: it resolves
// entities, validates business rules and coordinates atomic application of
// balance and goal deltas around every income/expense mutation.
package services

import (
	"context"
	"time"

	"github.com/Rohttz/GestorDeFinancas/internal/core"
)

// Ports for the persistence collaborators. Implementations: the SQLite
// repository (system of record) and the in-memory store (tests, dev).
type (
	EntityFinder interface {
		FindUserByID(ctx context.Context, id string) (*core.User, error)
		FindAccountByID(ctx context.Context, id string) (*core.Account, error)
		FindCategoryByID(ctx context.Context, id string) (*core.Category, error)
		FindGoalByID(ctx context.Context, id string) (*core.Goal, error)
		FindIncomeByID(ctx context.Context, id string) (*core.Income, error)
		FindExpenseByID(ctx context.Context, id string) (*core.Expense, error)
	}

	EntityLister interface {
		ListAccounts(ctx context.Context, userID string) ([]core.Account, error)
		ListCategories(ctx context.Context, userID string) ([]core.Category, error)
		ListGoals(ctx context.Context, userID string) ([]core.Goal, error)
		ListIncomes(ctx context.Context, userID string) ([]core.Income, error)
		ListExpenses(ctx context.Context, userID string) ([]core.Expense, error)
	}

	EntityWriter interface {
		SaveUser(ctx context.Context, u *core.User) error
		SaveAccount(ctx context.Context, a *core.Account) error
		SaveCategory(ctx context.Context, c *core.Category) error
		SaveGoal(ctx context.Context, g *core.Goal) error
		SaveIncome(ctx context.Context, i *core.Income) error
		SaveExpense(ctx context.Context, e *core.Expense) error

		// DeleteAccount with cascade also removes the account's
		// transactions; without it the caller must have verified the
		// account has no movements.
		DeleteAccount(ctx context.Context, id string, cascade bool) error
		DeleteCategory(ctx context.Context, id string) error
		DeleteGoal(ctx context.Context, id string) error
		DeleteIncome(ctx context.Context, id string) error
		DeleteExpense(ctx context.Context, id string) error
	}

	// Aggregator covers the range queries the limit guard and dashboard
	// need. excludeID, when non-empty, leaves that expense out of the sum
	// (used while editing to avoid double counting).
	Aggregator interface {
		SumExpensesInRange(ctx context.Context, categoryID string, start, end time.Time, excludeID string) (float64, error)
		SumIncomesByUserInRange(ctx context.Context, userID string, start, end time.Time) (float64, error)
		SumExpensesByUserInRange(ctx context.Context, userID string, start, end time.Time) (float64, error)
		CountAccountMovements(ctx context.Context, accountID string) (int64, error)
		NextExpenses(ctx context.Context, userID string, limit int) ([]core.Expense, error)
	}

	// Store is the full persistence contract. InTx runs fn against a
	// transactional view of the store; every write inside either commits
	// as a whole or leaves no trace.
	Store interface {
		EntityFinder
		EntityLister
		EntityWriter
		Aggregator
		InTx(ctx context.Context, fn func(Store) error) error
	}

	// EventPublisher emits ledger events after a successful commit.
	// Publishing is best effort: a broker outage never fails the request.
	EventPublisher interface {
		PublishLedgerEvent(ctx context.Context, evt LedgerEvent) error
	}
)

// LedgerEvent describes a committed transaction mutation.
type LedgerEvent struct {
	Kind   string // "income" or "expense"
	Action string // "created", "updated" or "deleted"
	ID     string
	UserID string
}
