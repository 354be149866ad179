package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Rohttz/GestorDeFinancas/internal/core"
	"github.com/Rohttz/GestorDeFinancas/internal/services"
)

func TestCategoryCreateAndUpdate(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", true)

	limit := services.AmountOf(300)
	category, err := f.categories.Create(context.Background(), services.CreateCategoryInput{
		UserID:        "u1",
		Name:          "Mercado",
		Type:          core.CategoryExpense,
		SpendingLimit: &limit,
	})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if category.SpendingLimit == nil || *category.SpendingLimit != 300 {
		t.Errorf("spending limit = %v, want 300", category.SpendingLimit)
	}

	category, err = f.categories.Update(context.Background(), category.ID, services.CategoryPatch{
		SpendingLimit: services.Field[*services.Amount]{Set: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("update category: %v", err)
	}
	if category.SpendingLimit != nil {
		t.Errorf("spending limit = %v, want cleared", *category.SpendingLimit)
	}
}

func TestCategoryCreateRejectsBadType(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", true)

	_, err := f.categories.Create(context.Background(), services.CreateCategoryInput{
		UserID: "u1", Name: "X", Type: "transfer",
	})
	if !errors.Is(err, core.ErrInvalidCategoryType) {
		t.Errorf("err = %v, want ErrInvalidCategoryType", err)
	}
}

func TestCategorySeedDefaultsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", true)

	if err := f.categories.SeedDefaults(context.Background(), "u1"); err != nil {
		t.Fatalf("seed defaults: %v", err)
	}
	first, err := f.categories.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(first) != 7 {
		t.Fatalf("seeded categories = %d, want 7", len(first))
	}

	byName := make(map[string]core.Category, len(first))
	for _, c := range first {
		byName[c.Name] = c
	}
	rent, ok := byName["Aluguel"]
	if !ok {
		t.Fatal("missing default category Aluguel")
	}
	if rent.Type != core.CategoryExpense || rent.SpendingLimit == nil || *rent.SpendingLimit != 2000 {
		t.Errorf("Aluguel = %+v, want expense with limit 2000", rent)
	}
	salary, ok := byName["Salário"]
	if !ok {
		t.Fatal("missing default category Salário")
	}
	if salary.Type != core.CategoryIncome || salary.SpendingLimit != nil {
		t.Errorf("Salário = %+v, want income without limit", salary)
	}

	// a second run creates nothing new
	if err := f.categories.SeedDefaults(context.Background(), "u1"); err != nil {
		t.Fatalf("reseed defaults: %v", err)
	}
	second, err := f.categories.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(second) != len(first) {
		t.Errorf("categories after reseed = %d, want %d", len(second), len(first))
	}
}

func TestCategoryDeleteDetachesTransactions(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "u1", true)
	f.seedAccount(t, core.Account{ID: "a1", UserID: "u1", Balance: 100})
	f.seedCategory(t, core.Category{ID: "c1", UserID: "u1", Type: core.CategoryExpense})

	expense, err := f.expenses.Create(context.Background(), services.CreateExpenseInput{
		UserID:      "u1",
		Description: "Tagged",
		Amount:      services.AmountOf(10),
		Date:        "2026-08-01",
		AccountID:   strPtr("a1"),
		CategoryID:  strPtr("c1"),
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}

	if err := f.categories.Delete(context.Background(), "c1"); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	e, err := f.expenses.Get(context.Background(), expense.ID)
	if err != nil {
		t.Fatalf("get expense: %v", err)
	}
	if e.CategoryID != nil {
		t.Errorf("expense category = %v, want detached", *e.CategoryID)
	}
	if got := f.accountBalance(t, "a1"); got != 90 {
		t.Errorf("balance = %v, want untouched 90", got)
	}
}
