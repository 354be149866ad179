package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/Rohttz/GestorDeFinancas/internal/core"
	"github.com/Rohttz/GestorDeFinancas/internal/services"
	"github.com/Rohttz/GestorDeFinancas/internal/storage/memory"
)

type fixture struct {
	store      *memory.Store
	incomes    *services.IncomeService
	expenses   *services.ExpenseService
	accounts   *services.AccountService
	categories *services.CategoryService
	goals      *services.GoalService
	dashboard  *services.DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	return &fixture{
		store:      store,
		incomes:    services.NewIncomeService(store, nil),
		expenses:   services.NewExpenseService(store, nil),
		accounts:   services.NewAccountService(store),
		categories: services.NewCategoryService(store),
		goals:      services.NewGoalService(store),
		dashboard:  services.NewDashboardService(store),
	}
}

func (f *fixture) seedUser(t *testing.T, id string, active bool) {
	t.Helper()
	err := f.store.SaveUser(context.Background(), &core.User{
		ID: id, Name: "Test User", Email: id + "@example.com", Active: active,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func (f *fixture) seedAccount(t *testing.T, a core.Account) {
	t.Helper()
	if a.Type == "" {
		a.Type = core.AccountChecking
	}
	if a.Name == "" {
		a.Name = "Account " + a.ID
	}
	a.Active = true
	if err := f.store.SaveAccount(context.Background(), &a); err != nil {
		t.Fatalf("seed account: %v", err)
	}
}

func (f *fixture) seedCategory(t *testing.T, c core.Category) {
	t.Helper()
	if c.Name == "" {
		c.Name = "Category " + c.ID
	}
	if err := f.store.SaveCategory(context.Background(), &c); err != nil {
		t.Fatalf("seed category: %v", err)
	}
}

func (f *fixture) seedGoal(t *testing.T, g core.Goal) {
	t.Helper()
	if g.Name == "" {
		g.Name = "Goal " + g.ID
	}
	if g.Status == "" {
		g.Status = core.GoalActive
	}
	if err := f.store.SaveGoal(context.Background(), &g); err != nil {
		t.Fatalf("seed goal: %v", err)
	}
}

func (f *fixture) accountBalance(t *testing.T, id string) float64 {
	t.Helper()
	a, err := f.store.FindAccountByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find account %s: %v", id, err)
	}
	return a.Balance
}

func (f *fixture) goalState(t *testing.T, id string) *core.Goal {
	t.Helper()
	g, err := f.store.FindGoalByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find goal %s: %v", id, err)
	}
	return g
}

func strPtr(s string) *string { return &s }

func floatPtr(v float64) *float64 { return &v }

func intPtr(n int) *int { return &n }

func dateStr(t time.Time) string { return t.Format("2006-01-02") }
