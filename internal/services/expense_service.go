package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Rohttz/GestorDeFinancas/internal/core"
)

// ExpenseService orchestrates expense transactions. An expense debits
// exactly one funding source: either an account or a goal, never both and
// never neither.
type ExpenseService struct {
	store  Store
	events EventPublisher
}

func NewExpenseService(store Store, events EventPublisher) *ExpenseService {
	return &ExpenseService{store: store, events: events}
}

type CreateExpenseInput struct {
	UserID           string  `json:"userId"`
	Description      string  `json:"description"`
	Amount           Amount  `json:"amount"`
	Date             string  `json:"date"`
	Installments     *int    `json:"installments"`
	PaidInstallments *int    `json:"paidInstallments"`
	Recurrent        bool    `json:"recurrent"`
	AccountID        *string `json:"accountId"`
	GoalID           *string `json:"goalId"`
	CategoryID       *string `json:"categoryId"`
}

type ExpensePatch struct {
	UserID           Field[string]  `json:"userId"`
	Description      Field[string]  `json:"description"`
	Amount           Field[Amount]  `json:"amount"`
	Date             Field[string]  `json:"date"`
	Installments     Field[int]     `json:"installments"`
	PaidInstallments Field[int]     `json:"paidInstallments"`
	Recurrent        Field[bool]    `json:"recurrent"`
	AccountID        Field[*string] `json:"accountId"`
	GoalID           Field[*string] `json:"goalId"`
	CategoryID       Field[*string] `json:"categoryId"`
}

func ensureSingleBinding(account *core.Account, goal *core.Goal) error {
	if (account != nil) == (goal != nil) {
		return fmt.Errorf("%w: expense must debit exactly one of account or goal", core.ErrSingleBindingViolation)
	}
	return nil
}

// Create validates the payload, enforces the category spending limit,
// debits the funding source and persists the expense atomically.
func (s *ExpenseService) Create(ctx context.Context, in CreateExpenseInput) (*core.Expense, error) {
	user, err := loadActiveUser(ctx, s.store, in.UserID)
	if err != nil {
		return nil, err
	}

	var account *core.Account
	if in.AccountID != nil && strings.TrimSpace(*in.AccountID) != "" {
		if account, err = resolveAccount(ctx, s.store, *in.AccountID, user.ID); err != nil {
			return nil, err
		}
	}
	var goal *core.Goal
	if in.GoalID != nil && strings.TrimSpace(*in.GoalID) != "" {
		if goal, err = resolveGoal(ctx, s.store, *in.GoalID, user.ID, true); err != nil {
			return nil, err
		}
	}
	if err := ensureSingleBinding(account, goal); err != nil {
		return nil, err
	}

	installments := 1
	if in.Installments != nil {
		installments = *in.Installments
	}
	if installments < 1 {
		return nil, fmt.Errorf("%w: %d", core.ErrInvalidInstallments, installments)
	}
	paid := 0
	if in.PaidInstallments != nil {
		paid = *in.PaidInstallments
	}
	if paid < 0 || paid > installments {
		return nil, fmt.Errorf("%w: %d of %d paid", core.ErrInvalidInstallments, paid, installments)
	}

	amount, err := in.Amount.Normalize()
	if err != nil {
		return nil, err
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidAmount, err)
	}

	var category *core.Category
	if in.CategoryID != nil && strings.TrimSpace(*in.CategoryID) != "" {
		if category, err = resolveCategory(ctx, s.store, *in.CategoryID, user.ID, core.CategoryExpense); err != nil {
			return nil, err
		}
		if err := enforceSpendingLimit(ctx, s.store, category, amount, date, ""); err != nil {
			return nil, err
		}
	}

	expense := &core.Expense{
		ID:               uuid.NewString(),
		UserID:           user.ID,
		Description:      strings.TrimSpace(in.Description),
		Amount:           amount,
		Date:             date,
		Installments:     installments,
		PaidInstallments: paid,
		Recurrent:        in.Recurrent,
		CreatedAt:        time.Now().UTC(),
	}
	if account != nil {
		expense.AccountID = &account.ID
	}
	if goal != nil {
		expense.GoalID = &goal.ID
	}
	if category != nil {
		expense.CategoryID = &category.ID
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		if account != nil {
			if err := account.ApplyDelta(-amount); err != nil {
				return err
			}
			if err := tx.SaveAccount(ctx, account); err != nil {
				return fmt.Errorf("save account: %w", err)
			}
		}
		if goal != nil {
			if err := goal.DecreaseProgress(amount); err != nil {
				return err
			}
			if err := tx.SaveGoal(ctx, goal); err != nil {
				return fmt.Errorf("save goal: %w", err)
			}
		}
		if err := tx.SaveExpense(ctx, expense); err != nil {
			return fmt.Errorf("save expense: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Expense created",
		"id", expense.ID,
		"user_id", expense.UserID,
		"amount", expense.Amount)
	publishEvent(ctx, s.events, LedgerEvent{Kind: "expense", Action: "created", ID: expense.ID, UserID: expense.UserID})
	return expense, nil
}

func (s *ExpenseService) Get(ctx context.Context, id string) (*core.Expense, error) {
	return s.store.FindExpenseByID(ctx, id)
}

func (s *ExpenseService) List(ctx context.Context, userID string) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, userID)
}

// Update reworks an expense with the two-phase reversal: the original
// debit is credited back to the original funding source, the patched
// payload is re-validated from scratch (single binding, installments,
// spending limit with this expense excluded from the month sum), and the
// new debit lands on the new source.
func (s *ExpenseService) Update(ctx context.Context, id string, patch ExpensePatch) (*core.Expense, error) {
	expense, err := s.store.FindExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.UserID.Set && patch.UserID.Value != expense.UserID {
		return nil, fmt.Errorf("%w: transaction owner is fixed", core.ErrInvalidBinding)
	}
	prevAmount := core.Round(expense.Amount)

	var origAccount *core.Account
	if expense.AccountID != nil {
		if origAccount, err = resolveAccount(ctx, s.store, *expense.AccountID, expense.UserID); err != nil {
			return nil, err
		}
	}
	var origGoal *core.Goal
	if expense.GoalID != nil {
		if origGoal, err = resolveGoal(ctx, s.store, *expense.GoalID, expense.UserID, false); err != nil {
			return nil, err
		}
	}

	targetAccount := origAccount
	if patch.AccountID.Set {
		switch {
		case patch.AccountID.Value == nil:
			targetAccount = nil
		case origAccount != nil && *patch.AccountID.Value == origAccount.ID:
			targetAccount = origAccount
		default:
			if targetAccount, err = resolveAccount(ctx, s.store, *patch.AccountID.Value, expense.UserID); err != nil {
				return nil, err
			}
		}
	}

	targetGoal := origGoal
	if patch.GoalID.Set {
		switch {
		case patch.GoalID.Value == nil:
			targetGoal = nil
		case origGoal != nil && *patch.GoalID.Value == origGoal.ID:
			targetGoal = origGoal
		default:
			if targetGoal, err = resolveGoal(ctx, s.store, *patch.GoalID.Value, expense.UserID, true); err != nil {
				return nil, err
			}
		}
	}
	if err := ensureSingleBinding(targetAccount, targetGoal); err != nil {
		return nil, err
	}

	installments := expense.Installments
	if patch.Installments.Set {
		installments = patch.Installments.Value
		if installments < 1 {
			return nil, fmt.Errorf("%w: %d", core.ErrInvalidInstallments, installments)
		}
	}
	paid := expense.PaidInstallments
	if patch.PaidInstallments.Set {
		paid = patch.PaidInstallments.Value
	}
	if paid < 0 || paid > installments {
		return nil, fmt.Errorf("%w: %d of %d paid", core.ErrInvalidInstallments, paid, installments)
	}

	amount := prevAmount
	if patch.Amount.Set {
		if amount, err = patch.Amount.Value.Normalize(); err != nil {
			return nil, err
		}
		if amount <= 0 {
			return nil, core.ErrInvalidAmount
		}
	}
	date := expense.Date
	if patch.Date.Set {
		if date, err = parseDate(patch.Date.Value); err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrInvalidAmount, err)
		}
	}
	description := expense.Description
	if patch.Description.Set {
		description = strings.TrimSpace(patch.Description.Value)
		if description == "" {
			return nil, core.ErrEmptyDescription
		}
	}
	recurrent := expense.Recurrent
	if patch.Recurrent.Set {
		recurrent = patch.Recurrent.Value
	}

	// the guard re-runs against the final category, with this expense
	// excluded from the month-to-date sum so its old amount is not
	// double counted
	var category *core.Category
	switch {
	case patch.CategoryID.Set && patch.CategoryID.Value == nil:
		category = nil
	case patch.CategoryID.Set:
		if category, err = resolveCategory(ctx, s.store, *patch.CategoryID.Value, expense.UserID, core.CategoryExpense); err != nil {
			return nil, err
		}
	case expense.CategoryID != nil:
		if category, err = s.store.FindCategoryByID(ctx, *expense.CategoryID); err != nil {
			return nil, fmt.Errorf("find category %s: %w", *expense.CategoryID, err)
		}
	}
	if err := enforceSpendingLimit(ctx, s.store, category, amount, date, expense.ID); err != nil {
		return nil, err
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		// phase one: credit the original debit back
		if origAccount != nil {
			origAccount.RevertDelta(prevAmount)
		}
		if origGoal != nil {
			origGoal.IncreaseProgress(prevAmount)
		}

		// phase two: debit the new funding source
		if targetAccount != nil {
			if err := targetAccount.ApplyDelta(-amount); err != nil {
				return err
			}
		}
		if targetGoal != nil {
			if err := targetGoal.DecreaseProgress(amount); err != nil {
				return err
			}
		}

		if origAccount != nil {
			if err := tx.SaveAccount(ctx, origAccount); err != nil {
				return fmt.Errorf("save account: %w", err)
			}
		}
		if targetAccount != nil && targetAccount != origAccount {
			if err := tx.SaveAccount(ctx, targetAccount); err != nil {
				return fmt.Errorf("save account: %w", err)
			}
		}
		if origGoal != nil {
			if err := tx.SaveGoal(ctx, origGoal); err != nil {
				return fmt.Errorf("save goal: %w", err)
			}
		}
		if targetGoal != nil && targetGoal != origGoal {
			if err := tx.SaveGoal(ctx, targetGoal); err != nil {
				return fmt.Errorf("save goal: %w", err)
			}
		}

		expense.Description = description
		expense.Amount = amount
		expense.Date = date
		expense.Installments = installments
		expense.PaidInstallments = paid
		expense.Recurrent = recurrent
		if targetAccount != nil {
			expense.AccountID = &targetAccount.ID
		} else {
			expense.AccountID = nil
		}
		if targetGoal != nil {
			expense.GoalID = &targetGoal.ID
		} else {
			expense.GoalID = nil
		}
		if category != nil {
			expense.CategoryID = &category.ID
		} else {
			expense.CategoryID = nil
		}
		if err := tx.SaveExpense(ctx, expense); err != nil {
			return fmt.Errorf("save expense: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.events, LedgerEvent{Kind: "expense", Action: "updated", ID: expense.ID, UserID: expense.UserID})
	return expense, nil
}

// Delete credits the expense's amount back to its funding source and
// removes the row.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	expense, err := s.store.FindExpenseByID(ctx, id)
	if err != nil {
		return err
	}
	amount := core.Round(expense.Amount)

	var account *core.Account
	if expense.AccountID != nil {
		if account, err = resolveAccount(ctx, s.store, *expense.AccountID, expense.UserID); err != nil {
			return err
		}
	}
	var goal *core.Goal
	if expense.GoalID != nil {
		if goal, err = resolveGoal(ctx, s.store, *expense.GoalID, expense.UserID, false); err != nil {
			return err
		}
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		if account != nil {
			account.RevertDelta(amount)
			if err := tx.SaveAccount(ctx, account); err != nil {
				return fmt.Errorf("save account: %w", err)
			}
		}
		if goal != nil {
			goal.IncreaseProgress(amount)
			if err := tx.SaveGoal(ctx, goal); err != nil {
				return fmt.Errorf("save goal: %w", err)
			}
		}
		if err := tx.DeleteExpense(ctx, expense.ID); err != nil {
			return fmt.Errorf("delete expense: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Expense deleted", "id", expense.ID, "user_id", expense.UserID, "amount", amount)
	publishEvent(ctx, s.events, LedgerEvent{Kind: "expense", Action: "deleted", ID: expense.ID, UserID: expense.UserID})
	return nil
}
