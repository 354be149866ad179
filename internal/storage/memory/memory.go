// Package memory provides an in-process Store used by tests and the
// "memory" backend. Data lives in maps guarded by a mutex; InTx gets
// rollback semantics by snapshotting the maps before running the
// function and restoring them on error.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Rohttz/GestorDeFinancas/internal/core"
	"github.com/Rohttz/GestorDeFinancas/internal/services"
)

type Store struct {
	mu         sync.RWMutex
	users      map[string]core.User
	accounts   map[string]core.Account
	categories map[string]core.Category
	goals      map[string]core.Goal
	incomes    map[string]core.Income
	expenses   map[string]core.Expense
}

var _ services.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:      make(map[string]core.User),
		accounts:   make(map[string]core.Account),
		categories: make(map[string]core.Category),
		goals:      make(map[string]core.Goal),
		incomes:    make(map[string]core.Income),
		expenses:   make(map[string]core.Expense),
	}
}

func (s *Store) FindUserByID(_ context.Context, id string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}
	return &u, nil
}

func (s *Store) FindAccountByID(_ context.Context, id string) (*core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	return &a, nil
}

func (s *Store) FindCategoryByID(_ context.Context, id string) (*core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}
	return &c, nil
}

func (s *Store) FindGoalByID(_ context.Context, id string) (*core.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.goals[id]
	if !ok {
		return nil, fmt.Errorf("goal %s: %w", id, core.ErrNotFound)
	}
	return &g, nil
}

func (s *Store) FindIncomeByID(_ context.Context, id string) (*core.Income, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.incomes[id]
	if !ok {
		return nil, fmt.Errorf("income %s: %w", id, core.ErrNotFound)
	}
	return &i, nil
}

func (s *Store) FindExpenseByID(_ context.Context, id string) (*core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.expenses[id]
	if !ok {
		return nil, fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
	}
	return &e, nil
}

func (s *Store) ListAccounts(_ context.Context, userID string) ([]core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Account
	for _, a := range s.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) ListCategories(_ context.Context, userID string) ([]core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Category
	for _, c := range s.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) ListGoals(_ context.Context, userID string) ([]core.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Goal
	for _, g := range s.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) ListIncomes(_ context.Context, userID string) ([]core.Income, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Income
	for _, i := range s.incomes {
		if i.UserID == userID {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) ListExpenses(_ context.Context, userID string) ([]core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Expense
	for _, e := range s.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) SaveUser(_ context.Context, u *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
	return nil
}

func (s *Store) SaveAccount(_ context.Context, a *core.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.ID] = *a
	return nil
}

func (s *Store) SaveCategory(_ context.Context, c *core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = *c
	return nil
}

func (s *Store) SaveGoal(_ context.Context, g *core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = *g
	return nil
}

func (s *Store) SaveIncome(_ context.Context, i *core.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incomes[i.ID] = *i
	return nil
}

func (s *Store) SaveExpense(_ context.Context, e *core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses[e.ID] = *e
	return nil
}

func (s *Store) DeleteAccount(_ context.Context, id string, cascade bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	if cascade {
		for iid, i := range s.incomes {
			if i.AccountID == id {
				delete(s.incomes, iid)
			}
		}
		for eid, e := range s.expenses {
			if e.AccountID != nil && *e.AccountID == id {
				delete(s.expenses, eid)
			}
		}
	}
	delete(s.accounts, id)
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}
	for iid, i := range s.incomes {
		if i.CategoryID != nil && *i.CategoryID == id {
			i.CategoryID = nil
			s.incomes[iid] = i
		}
	}
	for eid, e := range s.expenses {
		if e.CategoryID != nil && *e.CategoryID == id {
			e.CategoryID = nil
			s.expenses[eid] = e
		}
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[id]; !ok {
		return fmt.Errorf("goal %s: %w", id, core.ErrNotFound)
	}
	for iid, i := range s.incomes {
		if i.GoalID != nil && *i.GoalID == id {
			i.GoalID = nil
			s.incomes[iid] = i
		}
	}
	for eid, e := range s.expenses {
		if e.GoalID != nil && *e.GoalID == id {
			e.GoalID = nil
			s.expenses[eid] = e
		}
	}
	delete(s.goals, id)
	return nil
}

func (s *Store) DeleteIncome(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.incomes[id]; !ok {
		return fmt.Errorf("income %s: %w", id, core.ErrNotFound)
	}
	delete(s.incomes, id)
	return nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[id]; !ok {
		return fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
	}
	delete(s.expenses, id)
	return nil
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

func (s *Store) SumExpensesInRange(_ context.Context, categoryID string, start, end time.Time, excludeID string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0.0
	for _, e := range s.expenses {
		if e.ID == excludeID || e.CategoryID == nil || *e.CategoryID != categoryID {
			continue
		}
		if inRange(e.Date, start, end) {
			total = core.Add(total, e.Amount)
		}
	}
	return total, nil
}

func (s *Store) SumIncomesByUserInRange(_ context.Context, userID string, start, end time.Time) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0.0
	for _, i := range s.incomes {
		if i.UserID == userID && inRange(i.Date, start, end) {
			total = core.Add(total, i.Amount)
		}
	}
	return total, nil
}

func (s *Store) SumExpensesByUserInRange(_ context.Context, userID string, start, end time.Time) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0.0
	for _, e := range s.expenses {
		if e.UserID == userID && inRange(e.Date, start, end) {
			total = core.Add(total, e.Amount)
		}
	}
	return total, nil
}

func (s *Store) CountAccountMovements(_ context.Context, accountID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, i := range s.incomes {
		if i.AccountID == accountID {
			n++
		}
	}
	for _, e := range s.expenses {
		if e.AccountID != nil && *e.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (s *Store) NextExpenses(_ context.Context, userID string, limit int) ([]core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	today := time.Now().UTC().Truncate(24 * time.Hour)
	var out []core.Expense
	for _, e := range s.expenses {
		if e.UserID == userID && !e.Date.Before(today) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// InTx snapshots all maps, runs fn against the store itself and restores
// the snapshot if fn fails. Concurrent writers are not excluded for the
// duration of fn; the SQLite backend is the one that provides real
// transaction isolation.
func (s *Store) InTx(_ context.Context, fn func(services.Store) error) error {
	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	users      map[string]core.User
	accounts   map[string]core.Account
	categories map[string]core.Category
	goals      map[string]core.Goal
	incomes    map[string]core.Income
	expenses   map[string]core.Expense
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		users:      copyMap(s.users),
		accounts:   copyMap(s.accounts),
		categories: copyMap(s.categories),
		goals:      copyMap(s.goals),
		incomes:    copyMap(s.incomes),
		expenses:   copyMap(s.expenses),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.accounts = snap.accounts
	s.categories = snap.categories
	s.goals = snap.goals
	s.incomes = snap.incomes
	s.expenses = snap.expenses
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
