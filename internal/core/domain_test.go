package core

import (
	"errors"
	"testing"
	"time"
)

func TestAccountValidate(t *testing.T) {
	acc := Account{Name: "Corrente", Type: AccountChecking, InitialBalance: 100}
	if err := acc.Validate(); err != nil {
		t.Fatalf("valid account rejected: %v", err)
	}

	acc.Name = "  "
	if err := acc.Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}

	acc = Account{Name: "X", Type: "wallet"}
	if err := acc.Validate(); !errors.Is(err, ErrInvalidAccountType) {
		t.Fatalf("expected ErrInvalidAccountType, got %v", err)
	}

	acc = Account{Name: "X", Type: AccountCash, InitialBalance: -1}
	if err := acc.Validate(); !errors.Is(err, ErrNegativeInitialBalance) {
		t.Fatalf("expected ErrNegativeInitialBalance, got %v", err)
	}
}

func TestGoalValidate(t *testing.T) {
	g := Goal{Name: "Viagem", TargetValue: 1000, CurrentValue: 100}
	if err := g.Validate(); err != nil {
		t.Fatalf("valid goal rejected: %v", err)
	}

	g.CurrentValue = 1000.50
	if err := g.Validate(); !errors.Is(err, ErrProgressExceedsTarget) {
		t.Fatalf("expected ErrProgressExceedsTarget, got %v", err)
	}

	g = Goal{
		Name:        "Viagem",
		TargetValue: 10,
		StartDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := g.Validate(); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestIncomeValidate(t *testing.T) {
	inc := Income{Description: "Salário", Amount: 3500, Recurrence: RecurrenceMonthly}
	if err := inc.Validate(); err != nil {
		t.Fatalf("valid income rejected: %v", err)
	}

	inc.Amount = 0
	if err := inc.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	inc = Income{Description: "Bônus", Amount: 10, Recurrence: "biweekly"}
	if err := inc.Validate(); !errors.Is(err, ErrInvalidRecurrence) {
		t.Fatalf("expected ErrInvalidRecurrence, got %v", err)
	}
}

func TestExpenseValidate(t *testing.T) {
	exp := Expense{Description: "Mercado", Amount: 250, Installments: 1}
	if err := exp.Validate(); err != nil {
		t.Fatalf("valid expense rejected: %v", err)
	}

	exp.Installments = 0
	if err := exp.Validate(); !errors.Is(err, ErrInvalidInstallments) {
		t.Fatalf("expected ErrInvalidInstallments, got %v", err)
	}

	exp = Expense{Description: "", Amount: 10, Installments: 1}
	if err := exp.Validate(); !errors.Is(err, ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}
}
