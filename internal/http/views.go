package http

import (
	"time"

	"github.com/Rohttz/GestorDeFinancas/internal/core"
	"github.com/Rohttz/GestorDeFinancas/internal/services"
)

// Response shapes. The domain structs carry no serialization concerns,
// so each resource gets an explicit view here.

type userView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserView(u *core.User) userView {
	return userView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

type accountView struct {
	ID             string   `json:"id"`
	UserID         string   `json:"userId"`
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	InitialBalance float64  `json:"initialBalance"`
	Balance        float64  `json:"balance"`
	CreditLimit    *float64 `json:"creditLimit,omitempty"`
	Active         bool     `json:"active"`
}

func newAccountView(a *core.Account) accountView {
	return accountView{
		ID:             a.ID,
		UserID:         a.UserID,
		Name:           a.Name,
		Type:           string(a.Type),
		InitialBalance: a.InitialBalance,
		Balance:        a.Balance,
		CreditLimit:    a.CreditLimit,
		Active:         a.Active,
	}
}

func newAccountViews(accounts []core.Account) []accountView {
	views := make([]accountView, len(accounts))
	for i := range accounts {
		views[i] = newAccountView(&accounts[i])
	}
	return views
}

type categoryView struct {
	ID            string   `json:"id"`
	UserID        string   `json:"userId"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	SpendingLimit *float64 `json:"spendingLimit,omitempty"`
}

func newCategoryView(c *core.Category) categoryView {
	return categoryView{
		ID:            c.ID,
		UserID:        c.UserID,
		Name:          c.Name,
		Type:          string(c.Type),
		SpendingLimit: c.SpendingLimit,
	}
}

func newCategoryViews(categories []core.Category) []categoryView {
	views := make([]categoryView, len(categories))
	for i := range categories {
		views[i] = newCategoryView(&categories[i])
	}
	return views
}

type goalView struct {
	ID           string  `json:"id"`
	UserID       string  `json:"userId"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	TargetValue  float64 `json:"targetValue"`
	CurrentValue float64 `json:"currentValue"`
	Status       string  `json:"status"`
	StartDate    string  `json:"startDate,omitempty"`
	EndDate      string  `json:"endDate,omitempty"`
}

func newGoalView(g *core.Goal) goalView {
	view := goalView{
		ID:           g.ID,
		UserID:       g.UserID,
		Name:         g.Name,
		Description:  g.Description,
		TargetValue:  g.TargetValue,
		CurrentValue: g.CurrentValue,
		Status:       string(g.Status),
	}
	if !g.StartDate.IsZero() {
		view.StartDate = g.StartDate.Format("2006-01-02")
	}
	if !g.EndDate.IsZero() {
		view.EndDate = g.EndDate.Format("2006-01-02")
	}
	return view
}

func newGoalViews(goals []core.Goal) []goalView {
	views := make([]goalView, len(goals))
	for i := range goals {
		views[i] = newGoalView(&goals[i])
	}
	return views
}

type incomeView struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        string    `json:"date"`
	Recurrence  string    `json:"recurrence"`
	AccountID   string    `json:"accountId"`
	CategoryID  *string   `json:"categoryId,omitempty"`
	GoalID      *string   `json:"goalId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newIncomeView(i *core.Income) incomeView {
	return incomeView{
		ID:          i.ID,
		UserID:      i.UserID,
		Description: i.Description,
		Amount:      i.Amount,
		Date:        i.Date.Format("2006-01-02"),
		Recurrence:  string(i.Recurrence),
		AccountID:   i.AccountID,
		CategoryID:  i.CategoryID,
		GoalID:      i.GoalID,
		CreatedAt:   i.CreatedAt,
	}
}

func newIncomeViews(incomes []core.Income) []incomeView {
	views := make([]incomeView, len(incomes))
	for i := range incomes {
		views[i] = newIncomeView(&incomes[i])
	}
	return views
}

type expenseView struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	Description      string    `json:"description"`
	Amount           float64   `json:"amount"`
	Date             string    `json:"date"`
	Installments     int       `json:"installments"`
	PaidInstallments int       `json:"paidInstallments"`
	Recurrent        bool      `json:"recurrent"`
	AccountID        *string   `json:"accountId,omitempty"`
	GoalID           *string   `json:"goalId,omitempty"`
	CategoryID       *string   `json:"categoryId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

func newExpenseView(e *core.Expense) expenseView {
	return expenseView{
		ID:               e.ID,
		UserID:           e.UserID,
		Description:      e.Description,
		Amount:           e.Amount,
		Date:             e.Date.Format("2006-01-02"),
		Installments:     e.Installments,
		PaidInstallments: e.PaidInstallments,
		Recurrent:        e.Recurrent,
		AccountID:        e.AccountID,
		GoalID:           e.GoalID,
		CategoryID:       e.CategoryID,
		CreatedAt:        e.CreatedAt,
	}
}

func newExpenseViews(expenses []core.Expense) []expenseView {
	views := make([]expenseView, len(expenses))
	for i := range expenses {
		views[i] = newExpenseView(&expenses[i])
	}
	return views
}

type summaryView struct {
	TotalBalance  float64                 `json:"totalBalance"`
	MonthIncome   float64                 `json:"monthIncome"`
	MonthExpense  float64                 `json:"monthExpense"`
	MonthNet      float64                 `json:"monthNet"`
	Goals         []services.GoalProgress `json:"goals"`
	NextExpenses  []expenseView           `json:"nextExpenses"`
	ReferenceDate time.Time               `json:"referenceDate"`
}

func newSummaryView(s *services.Summary) summaryView {
	return summaryView{
		TotalBalance:  s.TotalBalance,
		MonthIncome:   s.MonthIncome,
		MonthExpense:  s.MonthExpense,
		MonthNet:      s.MonthNet,
		Goals:         s.Goals,
		NextExpenses:  newExpenseViews(s.NextExpenses),
		ReferenceDate: s.ReferenceDate,
	}
}
