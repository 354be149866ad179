// Package core holds the domain model and the ledger consistency rules:
// currency arithmetic, account balance deltas, goal progress transitions
// and the business error taxonomy shared by every service.
package core

import (
	"errors"
	"strings"
	"time"
)

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountInvestment AccountType = "investment"
	AccountCash       AccountType = "cash"
	AccountCredit     AccountType = "credit"
)

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
	CategoryGoal    CategoryType = "goal"
)

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalCancelled GoalStatus = "cancelled"
)

const (
	RecurrenceNone      Recurrence = "none"
	RecurrenceWeekly    Recurrence = "weekly"
	RecurrenceMonthly   Recurrence = "monthly"
	RecurrenceQuarterly Recurrence = "quarterly"
	RecurrenceYearly    Recurrence = "yearly"
)

type (
	AccountType  string
	CategoryType string
	GoalStatus   string
	Recurrence   string

	User struct {
		ID        string
		Name      string
		Email     string
		Active    bool
		CreatedAt time.Time
	}

	Account struct {
		ID             string
		UserID         string
		Name           string
		Type           AccountType
		InitialBalance float64
		Balance        float64
		CreditLimit    *float64 // meaningful only for credit accounts
		Active         bool
	}

	Category struct {
		ID            string
		UserID        string
		Name          string
		Type          CategoryType
		SpendingLimit *float64 // expense categories only, monthly
	}

	Goal struct {
		ID           string
		UserID       string
		Name         string
		Description  string
		TargetValue  float64
		CurrentValue float64
		Status       GoalStatus
		StartDate    time.Time
		EndDate      time.Time
	}

	Income struct {
		ID          string
		UserID      string
		Description string
		Amount      float64
		Date        time.Time
		Recurrence  Recurrence
		AccountID   string
		CategoryID  *string
		GoalID      *string
		CreatedAt   time.Time
	}

	Expense struct {
		ID               string
		UserID           string
		Description      string
		Amount           float64
		Date             time.Time
		Installments     int
		PaidInstallments int
		Recurrent        bool
		AccountID        *string
		GoalID           *string
		CategoryID       *string
		CreatedAt        time.Time
	}
)

// Caller-correctable failures. Every rule violation surfaces as one of
// these, wrapped with context by the layer that detected it.
var (
	ErrNotFound               = errors.New("not found")
	ErrInactiveUser           = errors.New("user is inactive")
	ErrInvalidBinding         = errors.New("entity does not belong to the requesting user")
	ErrSingleBindingViolation = errors.New("expense must bind exactly one of account or goal")
	ErrCategoryTypeMismatch   = errors.New("category type does not match transaction kind")
	ErrInvalidInstallments    = errors.New("installments must be at least 1")
	ErrSpendingLimitExceeded  = errors.New("category spending limit exceeded")
	ErrCreditLimitExceeded    = errors.New("credit limit exceeded")
	ErrNegativeGoalProgress   = errors.New("goal progress cannot go below zero")
	ErrGoalAlreadyCompleted   = errors.New("goal is already completed")

	ErrInvalidAmount          = errors.New("invalid amount")
	ErrEmptyDescription       = errors.New("empty description")
	ErrEmptyName              = errors.New("empty name")
	ErrNegativeInitialBalance = errors.New("initial balance must be zero or positive")
	ErrProgressExceedsTarget  = errors.New("goal progress cannot exceed the target value")
	ErrInvalidDateRange       = errors.New("start date must not be after end date")
	ErrInvalidAccountType     = errors.New("invalid account type")
	ErrInvalidCategoryType    = errors.New("invalid category type")
	ErrInvalidRecurrence      = errors.New("invalid recurrence")
	ErrAccountHasMovements    = errors.New("account has movements; removal requires cascade")
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountInvestment, AccountCash, AccountCredit:
		return true
	}
	return false
}

func (t CategoryType) Valid() bool {
	switch t {
	case CategoryIncome, CategoryExpense, CategoryGoal:
		return true
	}
	return false
}

func (s GoalStatus) Valid() bool {
	switch s {
	case GoalActive, GoalCompleted, GoalCancelled:
		return true
	}
	return false
}

func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceWeekly, RecurrenceMonthly, RecurrenceQuarterly, RecurrenceYearly:
		return true
	}
	return false
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Type.Valid() {
		return ErrInvalidAccountType
	}
	if a.InitialBalance < 0 {
		return ErrNegativeInitialBalance
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return ErrInvalidCategoryType
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if Round(g.CurrentValue) > Round(g.TargetValue) {
		return ErrProgressExceedsTarget
	}
	if !g.StartDate.IsZero() && !g.EndDate.IsZero() && g.StartDate.After(g.EndDate) {
		return ErrInvalidDateRange
	}
	return nil
}

func (i Income) Validate() error {
	if strings.TrimSpace(i.Description) == "" {
		return ErrEmptyDescription
	}
	if i.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !i.Recurrence.Valid() {
		return ErrInvalidRecurrence
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if e.Installments < 1 {
		return ErrInvalidInstallments
	}
	if e.PaidInstallments < 0 {
		return ErrInvalidInstallments
	}
	return nil
}
