package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Rohttz/GestorDeFinancas/internal/core"
	"github.com/Rohttz/GestorDeFinancas/internal/services"
)

func TestGoalCreate(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", true)

	goal, err := f.goals.Create(context.Background(), services.CreateGoalInput{
		UserID:      "u1",
		Name:        "Viagem",
		TargetValue: services.AmountOf(5000),
		StartDate:   "2026-01-01",
		EndDate:     "2026-12-31",
	})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	if goal.Status != core.GoalActive {
		t.Errorf("status = %v, want active", goal.Status)
	}
	if goal.CurrentValue != 0 {
		t.Errorf("progress = %v, want 0", goal.CurrentValue)
	}
}

func TestGoalCreateValidation(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", true)

	over := services.AmountOf(600)
	neg := services.AmountOf(-5)
	tests := []struct {
		name    string
		in      services.CreateGoalInput
		wantErr error
	}{
		{
			name: "progress over target",
			in: services.CreateGoalInput{
				UserID: "u1", Name: "X", TargetValue: services.AmountOf(500),
				CurrentValue: &over, StartDate: "2026-01-01", EndDate: "2026-06-01",
			},
			wantErr: core.ErrProgressExceedsTarget,
		},
		{
			name: "negative progress",
			in: services.CreateGoalInput{
				UserID: "u1", Name: "X", TargetValue: services.AmountOf(500),
				CurrentValue: &neg, StartDate: "2026-01-01", EndDate: "2026-06-01",
			},
			wantErr: core.ErrNegativeGoalProgress,
		},
		{
			name: "inverted dates",
			in: services.CreateGoalInput{
				UserID: "u1", Name: "X", TargetValue: services.AmountOf(500),
				StartDate: "2026-06-01", EndDate: "2026-01-01",
			},
			wantErr: core.ErrInvalidDateRange,
		},
		{
			name: "empty name",
			in: services.CreateGoalInput{
				UserID: "u1", Name: " ", TargetValue: services.AmountOf(500),
				StartDate: "2026-01-01", EndDate: "2026-06-01",
			},
			wantErr: core.ErrEmptyName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.goals.Create(context.Background(), tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGoalUpdateTargetBelowProgress(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", true)
	f.seedGoal(t, core.Goal{ID: "g1", UserID: "u1", TargetValue: 1000, CurrentValue: 600})

	_, err := f.goals.Update(context.Background(), "g1", services.GoalPatch{
		TargetValue: services.Field[services.Amount]{Set: true, Value: services.AmountOf(500)},
	})
	if !errors.Is(err, core.ErrProgressExceedsTarget) {
		t.Errorf("err = %v, want ErrProgressExceedsTarget", err)
	}
}

func TestGoalUpdateTargetToProgressCompletes(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", true)
	f.seedGoal(t, core.Goal{ID: "g1", UserID: "u1", TargetValue: 1000, CurrentValue: 600})

	goal, err := f.goals.Update(context.Background(), "g1", services.GoalPatch{
		TargetValue: services.Field[services.Amount]{Set: true, Value: services.AmountOf(600)},
	})
	if err != nil {
		t.Fatalf("update goal: %v", err)
	}
	if goal.Status != core.GoalCompleted {
		t.Errorf("status = %v, want completed", goal.Status)
	}
}

func TestGoalDeleteDetachesTransactions(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", true)
	f.seedAccount(t, core.Account{ID: "a1", UserID: "u1", Balance: 0})
	f.seedGoal(t, core.Goal{ID: "g1", UserID: "u1", TargetValue: 1000, CurrentValue: 0})

	income, err := f.incomes.Create(context.Background(), services.CreateIncomeInput{
		UserID:      "u1",
		Description: "Deposit",
		Amount:      services.AmountOf(200),
		Date:        "2026-08-01",
		AccountID:   "a1",
		GoalID:      strPtr("g1"),
	})
	if err != nil {
		t.Fatalf("create income: %v", err)
	}

	if err := f.goals.Delete(context.Background(), "g1"); err != nil {
		t.Fatalf("delete goal: %v", err)
	}

	i, err := f.incomes.Get(context.Background(), income.ID)
	if err != nil {
		t.Fatalf("get income: %v", err)
	}
	if i.GoalID != nil {
		t.Errorf("income goal = %v, want detached", *i.GoalID)
	}
	if got := f.accountBalance(t, "a1"); got != 200 {
		t.Errorf("balance = %v, want untouched 200", got)
	}
}
