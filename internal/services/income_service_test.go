package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Rohttz/GestorDeFinancas/internal/core"
	"github.com/Rohttz/GestorDeFinancas/internal/services"
)

func TestIncomeCreateCreditsAccount(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", true)
	f.seedAccount(t, core.Account{ID: "a1", UserID: "u1", Balance: 100})

	income, err := f.incomes.Create(context.Background(), services.CreateIncomeInput{
		UserID:      "u1",
		Description: "Salary",
		Amount:      services.AmountOf(1500.50),
		Date:        "2026-08-05",
		AccountID:   "a1",
	})
	if err != nil {
		t.Fatalf("create income: %v", err)
	}
	if income.Amount != 1500.50 {
		t.Errorf("amount = %v, want 1500.50", income.Amount)
	}
	if got := f.accountBalance(t, "a1"); got != 1600.50 {
		t.Errorf("balance = %v, want 1600.50", got)
	}
}

func TestIncomeCreateValidation(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", true)
	f.seedUser(t, "u2", false)
	f.seedAccount(t, core.Account{ID: "a1", UserID: "u1"})
	f.seedAccount(t, core.Account{ID: "other", UserID: "u9"})
	f.seedCategory(t, core.Category{ID: "c-exp", UserID: "u1", Type: core.CategoryExpense})
	f.seedGoal(t, core.Goal{ID: "g-done", UserID: "u1", TargetValue: 100, CurrentValue: 100, Status: core.GoalCompleted})

	tests := []struct {
		name    string
		in      services.CreateIncomeInput
		wantErr error
	}{
		{
			name:    "unknown user",
			in:      services.CreateIncomeInput{UserID: "missing", Description: "x", Amount: services.AmountOf(10), Date: "2026-08-01", AccountID: "a1"},
			wantErr: core.ErrNotFound,
		},
		{
			name:    "inactive user",
			in:      services.CreateIncomeInput{UserID: "u2", Description: "x", Amount: services.AmountOf(10), Date: "2026-08-01", AccountID: "a1"},
			wantErr: core.ErrInactiveUser,
		},
		{
			name:    "missing account",
			in:      services.CreateIncomeInput{UserID: "u1", Description: "x", Amount: services.AmountOf(10), Date: "2026-08-01"},
			wantErr: core.ErrInvalidBinding,
		},
		{
			name:    "foreign account",
			in:      services.CreateIncomeInput{UserID: "u1", Description: "x", Amount: services.AmountOf(10), Date: "2026-08-01", AccountID: "other"},
			wantErr: core.ErrInvalidBinding,
		},
		{
			name:    "expense category on income",
			in:      services.CreateIncomeInput{UserID: "u1", Description: "x", Amount: services.AmountOf(10), Date: "2026-08-01", AccountID: "a1", CategoryID: strPtr("c-exp")},
			wantErr: core.ErrCategoryTypeMismatch,
		},
		{
			name:    "completed goal",
			in:      services.CreateIncomeInput{UserID: "u1", Description: "x", Amount: services.AmountOf(10), Date: "2026-08-01", AccountID: "a1", GoalID: strPtr("g-done")},
			wantErr: core.ErrGoalAlreadyCompleted,
		},
		{
			name:    "zero amount",
			in:      services.CreateIncomeInput{UserID: "u1", Description: "x", Amount: services.AmountOf(0), Date: "2026-08-01", AccountID: "a1"},
			wantErr: core.ErrInvalidAmount,
		},
		{
			name:    "empty description",
			in:      services.CreateIncomeInput{UserID: "u1", Description: "   ", Amount: services.AmountOf(10), Date: "2026-08-01", AccountID: "a1"},
			wantErr: core.ErrEmptyDescription,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.incomes.Create(context.Background(), tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIncomeAdvancesGoalWithClamp(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", true)
	f.seedAccount(t, core.Account{ID: "a1", UserID: "u1"})
	f.seedGoal(t, core.Goal{ID: "g1", UserID: "u1", TargetValue: 1000, CurrentValue: 900})

	_, err := f.incomes.Create(context.Background(), services.CreateIncomeInput{
		UserID:      "u1",
		Description: "Bonus",
		Amount:      services.AmountOf(150),
		Date:        "2026-08-10",
		AccountID:   "a1",
		GoalID:      strPtr("g1"),
	})
	if err != nil {
		t.Fatalf("create income: %v", err)
	}

	g := f.goalState(t, "g1")
	if g.CurrentValue != 1000 {
		t.Errorf("goal progress = %v, want clamped 1000", g.CurrentValue)
	}
	if g.Status != core.GoalCompleted {
		t.Errorf("goal status = %v, want completed", g.Status)
	}
	// the account still receives the full amount
	if got := f.accountBalance(t, "a1"); got != 150 {
		t.Errorf("balance = %v, want 150", got)
	}
}

func TestIncomeUpdateRebindsAccount(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", true)
	f.seedAccount(t, core.Account{ID: "a1", UserID: "u1", Balance: 50})
	f.seedAccount(t, core.Account{ID: "a2", UserID: "u1", Balance: 10})

	income, err := f.incomes.Create(context.Background(), services.CreateIncomeInput{
		UserID:      "u1",
		Description: "Freelance",
		Amount:      services.AmountOf(200),
		Date:        "2026-08-02",
		AccountID:   "a1",
	})
	if err != nil {
		t.Fatalf("create income: %v", err)
	}

	_, err = f.incomes.Update(context.Background(), income.ID, services.IncomePatch{
		AccountID: services.Field[*string]{Set: true, Value: strPtr("a2")},
	})
	if err != nil {
		t.Fatalf("update income: %v", err)
	}

	if got := f.accountBalance(t, "a1"); got != 50 {
		t.Errorf("old account balance = %v, want restored 50", got)
	}
	if got := f.accountBalance(t, "a2"); got != 210 {
		t.Errorf("new account balance = %v, want 210", got)
	}
}

func TestIncomeUpdateAmountReconciles(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", true)
	f.seedAccount(t, core.Account{ID: "a1", UserID: "u1", Balance: 100})
	f.seedGoal(t, core.Goal{ID: "g1", UserID: "u1", TargetValue: 500, CurrentValue: 0})

	income, err := f.incomes.Create(context.Background(), services.CreateIncomeInput{
		UserID:      "u1",
		Description: "Deposit",
		Amount:      services.AmountOf(300),
		Date:        "2026-08-02",
		AccountID:   "a1",
		GoalID:      strPtr("g1"),
	})
	if err != nil {
		t.Fatalf("create income: %v", err)
	}

	_, err = f.incomes.Update(context.Background(), income.ID, services.IncomePatch{
		Amount: services.Field[services.Amount]{Set: true, Value: services.AmountOf(120)},
	})
	if err != nil {
		t.Fatalf("update income: %v", err)
	}

	if got := f.accountBalance(t, "a1"); got != 220 {
		t.Errorf("balance = %v, want 220", got)
	}
	if got := f.goalState(t, "g1").CurrentValue; got != 120 {
		t.Errorf("goal progress = %v, want 120", got)
	}
}

func TestIncomeUpdateRejectsOwnerChange(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", true)
	f.seedAccount(t, core.Account{ID: "a1", UserID: "u1"})

	income, err := f.incomes.Create(context.Background(), services.CreateIncomeInput{
		UserID: "u1", Description: "x", Amount: services.AmountOf(10), Date: "2026-08-01", AccountID: "a1",
	})
	if err != nil {
		t.Fatalf("create income: %v", err)
	}

	_, err = f.incomes.Update(context.Background(), income.ID, services.IncomePatch{
		UserID: services.Field[string]{Set: true, Value: "u2"},
	})
	if !errors.Is(err, core.ErrInvalidBinding) {
		t.Errorf("err = %v, want ErrInvalidBinding", err)
	}
}

func TestIncomeDeleteRestoresBalance(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", true)
	f.seedAccount(t, core.Account{ID: "a1", UserID: "u1", Balance: 75.25})
	f.seedGoal(t, core.Goal{ID: "g1", UserID: "u1", TargetValue: 1000, CurrentValue: 200})

	income, err := f.incomes.Create(context.Background(), services.CreateIncomeInput{
		UserID:      "u1",
		Description: "Deposit",
		Amount:      services.AmountOf(99.99),
		Date:        "2026-08-03",
		AccountID:   "a1",
		GoalID:      strPtr("g1"),
	})
	if err != nil {
		t.Fatalf("create income: %v", err)
	}

	if err := f.incomes.Delete(context.Background(), income.ID); err != nil {
		t.Fatalf("delete income: %v", err)
	}

	if got := f.accountBalance(t, "a1"); got != 75.25 {
		t.Errorf("balance = %v, want restored 75.25", got)
	}
	if got := f.goalState(t, "g1").CurrentValue; got != 200 {
		t.Errorf("goal progress = %v, want restored 200", got)
	}
	if _, err := f.incomes.Get(context.Background(), income.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("get after delete: err = %v, want ErrNotFound", err)
	}
}

func TestIncomeDeleteAfterGoalClampKeepsProgressNonNegative(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", true)
	f.seedAccount(t, core.Account{ID: "a1", UserID: "u1"})
	f.seedGoal(t, core.Goal{ID: "g1", UserID: "u1", TargetValue: 100, CurrentValue: 90})

	// only 10 of the 50 actually lands on the goal
	income, err := f.incomes.Create(context.Background(), services.CreateIncomeInput{
		UserID:      "u1",
		Description: "Top up",
		Amount:      services.AmountOf(50),
		Date:        "2026-08-03",
		AccountID:   "a1",
		GoalID:      strPtr("g1"),
	})
	if err != nil {
		t.Fatalf("create income: %v", err)
	}

	if err := f.incomes.Delete(context.Background(), income.ID); err != nil {
		t.Fatalf("delete income: %v", err)
	}
	g := f.goalState(t, "g1")
	if g.CurrentValue != 50 {
		t.Errorf("goal progress = %v, want 50", g.CurrentValue)
	}
	if g.Status != core.GoalActive {
		t.Errorf("goal status = %v, want active again", g.Status)
	}
}
