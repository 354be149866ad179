package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Rohttz/GestorDeFinancas/internal/core"
)

// DashboardService assembles the per-user summary: consolidated balance,
// current-month totals, goal progress and the next upcoming expenses.
type DashboardService struct {
	store Store
}

func NewDashboardService(store Store) *DashboardService {
	return &DashboardService{store: store}
}

type GoalProgress struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	TargetValue  float64         `json:"targetValue"`
	CurrentValue float64         `json:"currentValue"`
	Percent      float64         `json:"percent"`
	Status       core.GoalStatus `json:"status"`
}

type Summary struct {
	TotalBalance  float64        `json:"totalBalance"`
	MonthIncome   float64        `json:"monthIncome"`
	MonthExpense  float64        `json:"monthExpense"`
	MonthNet      float64        `json:"monthNet"`
	Goals         []GoalProgress `json:"goals"`
	NextExpenses  []core.Expense `json:"nextExpenses"`
	ReferenceDate time.Time      `json:"referenceDate"`
}

const nextExpensesLimit = 5

// Summarize builds the dashboard for a user at the given reference time.
func (s *DashboardService) Summarize(ctx context.Context, userID string, now time.Time) (*Summary, error) {
	user, err := loadActiveUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	accounts, err := s.store.ListAccounts(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	total := 0.0
	for _, a := range accounts {
		total = core.Add(total, a.Balance)
	}

	start, end := monthWindow(now)
	income, err := s.store.SumIncomesByUserInRange(ctx, user.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("sum incomes: %w", err)
	}
	expense, err := s.store.SumExpensesByUserInRange(ctx, user.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}

	goals, err := s.store.ListGoals(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	progress := make([]GoalProgress, 0, len(goals))
	for _, g := range goals {
		pct := 0.0
		if g.TargetValue > 0 {
			pct = g.CurrentValue / g.TargetValue * 100
			if pct > 100 {
				pct = 100
			}
		}
		progress = append(progress, GoalProgress{
			ID:           g.ID,
			Name:         g.Name,
			TargetValue:  g.TargetValue,
			CurrentValue: g.CurrentValue,
			Percent:      core.Round(pct),
			Status:       g.Status,
		})
	}

	next, err := s.store.NextExpenses(ctx, user.ID, nextExpensesLimit)
	if err != nil {
		return nil, fmt.Errorf("next expenses: %w", err)
	}

	return &Summary{
		TotalBalance:  core.Round(total),
		MonthIncome:   core.Round(income),
		MonthExpense:  core.Round(expense),
		MonthNet:      core.Add(income, -expense),
		Goals:         progress,
		NextExpenses:  next,
		ReferenceDate: now.UTC(),
	}, nil
}
