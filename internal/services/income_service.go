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

// IncomeService orchestrates income transactions: every create, update and
// delete keeps the bound account balance and optional goal progress
// consistent with the set of persisted incomes.
type IncomeService struct {
	store  Store
	events EventPublisher
}

func NewIncomeService(store Store, events EventPublisher) *IncomeService {
	return &IncomeService{store: store, events: events}
}

type CreateIncomeInput struct {
	UserID      string          `json:"userId"`
	Description string          `json:"description"`
	Amount      Amount          `json:"amount"`
	Date        string          `json:"date"`
	Recurrence  core.Recurrence `json:"recurrence"`
	AccountID   string          `json:"accountId"`
	CategoryID  *string         `json:"categoryId"`
	GoalID      *string         `json:"goalId"`
}

type IncomePatch struct {
	UserID      Field[string]          `json:"userId"`
	Description Field[string]          `json:"description"`
	Amount      Field[Amount]          `json:"amount"`
	Date        Field[string]          `json:"date"`
	Recurrence  Field[core.Recurrence] `json:"recurrence"`
	AccountID   Field[*string]         `json:"accountId"`
	CategoryID  Field[*string]         `json:"categoryId"`
	GoalID      Field[*string]         `json:"goalId"`
}

// Create validates the payload, credits the bound account, advances the
// optional goal and persists the income, all atomically.
func (s *IncomeService) Create(ctx context.Context, in CreateIncomeInput) (*core.Income, error) {
	user, err := loadActiveUser(ctx, s.store, in.UserID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.AccountID) == "" {
		return nil, fmt.Errorf("%w: income requires an account", core.ErrInvalidBinding)
	}
	account, err := resolveAccount(ctx, s.store, in.AccountID, user.ID)
	if err != nil {
		return nil, err
	}

	var category *core.Category
	if in.CategoryID != nil {
		if category, err = resolveCategory(ctx, s.store, *in.CategoryID, user.ID, core.CategoryIncome); err != nil {
			return nil, err
		}
	}

	var goal *core.Goal
	if in.GoalID != nil {
		if goal, err = resolveGoal(ctx, s.store, *in.GoalID, user.ID, true); err != nil {
			return nil, err
		}
	}

	amount, err := in.Amount.Normalize()
	if err != nil {
		return nil, err
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidAmount, err)
	}

	recurrence := in.Recurrence
	if recurrence == "" {
		recurrence = core.RecurrenceNone
	}

	income := &core.Income{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Description: strings.TrimSpace(in.Description),
		Amount:      amount,
		Date:        date,
		Recurrence:  recurrence,
		AccountID:   account.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if category != nil {
		income.CategoryID = &category.ID
	}
	if goal != nil {
		income.GoalID = &goal.ID
	}
	if err := income.Validate(); err != nil {
		return nil, err
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		if err := account.ApplyDelta(amount); err != nil {
			return err
		}
		if goal != nil {
			goal.IncreaseProgress(amount)
		}
		if err := tx.SaveAccount(ctx, account); err != nil {
			return fmt.Errorf("save account: %w", err)
		}
		if goal != nil {
			if err := tx.SaveGoal(ctx, goal); err != nil {
				return fmt.Errorf("save goal: %w", err)
			}
		}
		if err := tx.SaveIncome(ctx, income); err != nil {
			return fmt.Errorf("save income: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Income created",
		"id", income.ID,
		"user_id", income.UserID,
		"amount", income.Amount,
		"account_id", income.AccountID)
	publishEvent(ctx, s.events, LedgerEvent{Kind: "income", Action: "created", ID: income.ID, UserID: income.UserID})
	return income, nil
}

func (s *IncomeService) Get(ctx context.Context, id string) (*core.Income, error) {
	return s.store.FindIncomeByID(ctx, id)
}

func (s *IncomeService) List(ctx context.Context, userID string) ([]core.Income, error) {
	return s.store.ListIncomes(ctx, userID)
}

// Update applies a partial payload with the two-phase reversal: the
// original effect is fully backed out of the original account/goal, then
// the new effect is applied to the (possibly different) targets. Balances
// therefore reflect only the income's current state no matter how many
// fields changed.
func (s *IncomeService) Update(ctx context.Context, id string, patch IncomePatch) (*core.Income, error) {
	income, err := s.store.FindIncomeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.UserID.Set && patch.UserID.Value != income.UserID {
		return nil, fmt.Errorf("%w: transaction owner is fixed", core.ErrInvalidBinding)
	}
	prevAmount := core.Round(income.Amount)

	origAccount, err := resolveAccount(ctx, s.store, income.AccountID, income.UserID)
	if err != nil {
		return nil, err
	}
	var origGoal *core.Goal
	if income.GoalID != nil {
		if origGoal, err = resolveGoal(ctx, s.store, *income.GoalID, income.UserID, false); err != nil {
			return nil, err
		}
	}

	targetAccount := origAccount
	if patch.AccountID.Set {
		if patch.AccountID.Value == nil || strings.TrimSpace(*patch.AccountID.Value) == "" {
			return nil, fmt.Errorf("%w: income requires an account", core.ErrInvalidBinding)
		}
		if *patch.AccountID.Value != origAccount.ID {
			if targetAccount, err = resolveAccount(ctx, s.store, *patch.AccountID.Value, income.UserID); err != nil {
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
			if targetGoal, err = resolveGoal(ctx, s.store, *patch.GoalID.Value, income.UserID, true); err != nil {
				return nil, err
			}
		}
	}

	categoryID := income.CategoryID
	if patch.CategoryID.Set {
		if patch.CategoryID.Value == nil {
			categoryID = nil
		} else {
			cat, err := resolveCategory(ctx, s.store, *patch.CategoryID.Value, income.UserID, core.CategoryIncome)
			if err != nil {
				return nil, err
			}
			categoryID = &cat.ID
		}
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
	date := income.Date
	if patch.Date.Set {
		if date, err = parseDate(patch.Date.Value); err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrInvalidAmount, err)
		}
	}
	description := income.Description
	if patch.Description.Set {
		description = strings.TrimSpace(patch.Description.Value)
		if description == "" {
			return nil, core.ErrEmptyDescription
		}
	}
	recurrence := income.Recurrence
	if patch.Recurrence.Set {
		recurrence = patch.Recurrence.Value
		if !recurrence.Valid() {
			return nil, core.ErrInvalidRecurrence
		}
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		// phase one: back out the original effect
		origAccount.RevertDelta(-prevAmount)
		if origGoal != nil {
			origGoal.RevertProgress(prevAmount)
		}

		// phase two: apply the new effect to the new targets
		if err := targetAccount.ApplyDelta(amount); err != nil {
			return err
		}
		if targetGoal != nil {
			targetGoal.IncreaseProgress(amount)
		}

		if err := tx.SaveAccount(ctx, origAccount); err != nil {
			return fmt.Errorf("save account: %w", err)
		}
		if targetAccount != origAccount {
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

		income.Description = description
		income.Amount = amount
		income.Date = date
		income.Recurrence = recurrence
		income.AccountID = targetAccount.ID
		income.CategoryID = categoryID
		if targetGoal != nil {
			income.GoalID = &targetGoal.ID
		} else {
			income.GoalID = nil
		}
		if err := tx.SaveIncome(ctx, income); err != nil {
			return fmt.Errorf("save income: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.events, LedgerEvent{Kind: "income", Action: "updated", ID: income.ID, UserID: income.UserID})
	return income, nil
}

// Delete reverses the income's effect and removes the row.
func (s *IncomeService) Delete(ctx context.Context, id string) error {
	income, err := s.store.FindIncomeByID(ctx, id)
	if err != nil {
		return err
	}
	amount := core.Round(income.Amount)

	account, err := resolveAccount(ctx, s.store, income.AccountID, income.UserID)
	if err != nil {
		return err
	}
	var goal *core.Goal
	if income.GoalID != nil {
		if goal, err = resolveGoal(ctx, s.store, *income.GoalID, income.UserID, false); err != nil {
			return err
		}
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		account.RevertDelta(-amount)
		if goal != nil {
			goal.RevertProgress(amount)
		}
		if err := tx.SaveAccount(ctx, account); err != nil {
			return fmt.Errorf("save account: %w", err)
		}
		if goal != nil {
			if err := tx.SaveGoal(ctx, goal); err != nil {
				return fmt.Errorf("save goal: %w", err)
			}
		}
		if err := tx.DeleteIncome(ctx, income.ID); err != nil {
			return fmt.Errorf("delete income: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Income deleted", "id", income.ID, "user_id", income.UserID, "amount", amount)
	publishEvent(ctx, s.events, LedgerEvent{Kind: "income", Action: "deleted", ID: income.ID, UserID: income.UserID})
	return nil
}
