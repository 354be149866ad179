// Package storage persists the ledger in SQLite. The repository is the
// system of record: InTx wraps every orchestrated mutation in a single
// database transaction.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Rohttz/GestorDeFinancas/internal/core"
	"github.com/Rohttz/GestorDeFinancas/internal/services"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type SQLiteRepository struct {
	db *sql.DB
	q  querier
}

var _ services.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, q: db}, nil
}

// Ping backs the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InTx runs fn against a transaction-backed view of the repository. A
// nested call reuses the surrounding transaction.
func (r *SQLiteRepository) InTx(ctx context.Context, fn func(services.Store) error) error {
	if _, nested := r.q.(*sql.Tx); nested {
		return fn(r)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(&SQLiteRepository{db: r.db, q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func notFound(kind, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, core.ErrNotFound)
	}
	return fmt.Errorf("find %s %s: %w", kind, id, err)
}

func parseDay(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseStamp(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func strPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}

func (r *SQLiteRepository) FindUserByID(ctx context.Context, id string) (*core.User, error) {
	var (
		u       core.User
		created string
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name, email, active, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Active, &created)
	if err != nil {
		return nil, notFound("user", id, err)
	}
	u.CreatedAt = parseStamp(created)
	return &u, nil
}

func (r *SQLiteRepository) FindAccountByID(ctx context.Context, id string) (*core.Account, error) {
	var (
		a     core.Account
		limit sql.NullFloat64
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, name, type, initial_balance, balance, credit_limit, active
		 FROM accounts WHERE id = ?`, id,
	).Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.InitialBalance, &a.Balance, &limit, &a.Active)
	if err != nil {
		return nil, notFound("account", id, err)
	}
	a.CreditLimit = floatPtr(limit)
	return &a, nil
}

func (r *SQLiteRepository) FindCategoryByID(ctx context.Context, id string) (*core.Category, error) {
	var (
		c     core.Category
		limit sql.NullFloat64
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, name, type, spending_limit FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &limit)
	if err != nil {
		return nil, notFound("category", id, err)
	}
	c.SpendingLimit = floatPtr(limit)
	return &c, nil
}

func (r *SQLiteRepository) FindGoalByID(ctx context.Context, id string) (*core.Goal, error) {
	var (
		g          core.Goal
		start, end string
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, name, description, target_value, current_value, status, start_date, end_date
		 FROM goals WHERE id = ?`, id,
	).Scan(&g.ID, &g.UserID, &g.Name, &g.Description, &g.TargetValue, &g.CurrentValue, &g.Status, &start, &end)
	if err != nil {
		return nil, notFound("goal", id, err)
	}
	g.StartDate = parseDay(start)
	g.EndDate = parseDay(end)
	return &g, nil
}

const incomeColumns = `id, user_id, description, amount, date, recurrence, account_id, category_id, goal_id, created_at`

func scanIncome(row interface{ Scan(...any) error }) (*core.Income, error) {
	var (
		i                  core.Income
		date, created      string
		categoryID, goalID sql.NullString
	)
	err := row.Scan(&i.ID, &i.UserID, &i.Description, &i.Amount, &date, &i.Recurrence,
		&i.AccountID, &categoryID, &goalID, &created)
	if err != nil {
		return nil, err
	}
	i.Date = parseDay(date)
	i.CreatedAt = parseStamp(created)
	i.CategoryID = strPtr(categoryID)
	i.GoalID = strPtr(goalID)
	return &i, nil
}

func (r *SQLiteRepository) FindIncomeByID(ctx context.Context, id string) (*core.Income, error) {
	income, err := scanIncome(r.q.QueryRowContext(ctx,
		`SELECT `+incomeColumns+` FROM incomes WHERE id = ?`, id))
	if err != nil {
		return nil, notFound("income", id, err)
	}
	return income, nil
}

const expenseColumns = `id, user_id, description, amount, date, installments, paid_installments, recurrent, account_id, goal_id, category_id, created_at`

func scanExpense(row interface{ Scan(...any) error }) (*core.Expense, error) {
	var (
		e                             core.Expense
		date, created                 string
		accountID, goalID, categoryID sql.NullString
	)
	err := row.Scan(&e.ID, &e.UserID, &e.Description, &e.Amount, &date, &e.Installments,
		&e.PaidInstallments, &e.Recurrent, &accountID, &goalID, &categoryID, &created)
	if err != nil {
		return nil, err
	}
	e.Date = parseDay(date)
	e.CreatedAt = parseStamp(created)
	e.AccountID = strPtr(accountID)
	e.GoalID = strPtr(goalID)
	e.CategoryID = strPtr(categoryID)
	return &e, nil
}

func (r *SQLiteRepository) FindExpenseByID(ctx context.Context, id string) (*core.Expense, error) {
	expense, err := scanExpense(r.q.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id))
	if err != nil {
		return nil, notFound("expense", id, err)
	}
	return expense, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context, userID string) ([]core.Account, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, user_id, name, type, initial_balance, balance, credit_limit, active
		 FROM accounts WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var (
			a     core.Account
			limit sql.NullFloat64
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.InitialBalance, &a.Balance, &limit, &a.Active); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.CreditLimit = floatPtr(limit)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, user_id, name, type, spending_limit FROM categories WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var (
			c     core.Category
			limit sql.NullFloat64
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &limit); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.SpendingLimit = floatPtr(limit)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, user_id, name, description, target_value, current_value, status, start_date, end_date
		 FROM goals WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		var (
			g          core.Goal
			start, end string
		)
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Description, &g.TargetValue, &g.CurrentValue, &g.Status, &start, &end); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.StartDate = parseDay(start)
		g.EndDate = parseDay(end)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListIncomes(ctx context.Context, userID string) ([]core.Income, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+incomeColumns+` FROM incomes WHERE user_id = ? ORDER BY date, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		i, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		out = append(out, *i)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE user_id = ? ORDER BY date, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SaveUser(ctx context.Context, u *core.User) error {
	created := u.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, name, email, active, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email, active = excluded.active`,
		u.ID, u.Name, u.Email, u.Active, created.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SaveAccount(ctx context.Context, a *core.Account) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO accounts (id, user_id, name, type, initial_balance, balance, credit_limit, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, type = excluded.type, initial_balance = excluded.initial_balance,
		   balance = excluded.balance, credit_limit = excluded.credit_limit, active = excluded.active`,
		a.ID, a.UserID, a.Name, a.Type, a.InitialBalance, a.Balance, nullFloat(a.CreditLimit), a.Active)
	if err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SaveCategory(ctx context.Context, c *core.Category) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, type, spending_limit) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, type = excluded.type, spending_limit = excluded.spending_limit`,
		c.ID, c.UserID, c.Name, c.Type, nullFloat(c.SpendingLimit))
	if err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SaveGoal(ctx context.Context, g *core.Goal) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO goals (id, user_id, name, description, target_value, current_value, status, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, description = excluded.description, target_value = excluded.target_value,
		   current_value = excluded.current_value, status = excluded.status,
		   start_date = excluded.start_date, end_date = excluded.end_date`,
		g.ID, g.UserID, g.Name, g.Description, g.TargetValue, g.CurrentValue, g.Status,
		g.StartDate.Format(dateLayout), g.EndDate.Format(dateLayout))
	if err != nil {
		return fmt.Errorf("save goal: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SaveIncome(ctx context.Context, i *core.Income) error {
	created := i.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO incomes (`+incomeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   description = excluded.description, amount = excluded.amount, date = excluded.date,
		   recurrence = excluded.recurrence, account_id = excluded.account_id,
		   category_id = excluded.category_id, goal_id = excluded.goal_id`,
		i.ID, i.UserID, i.Description, i.Amount, i.Date.Format(dateLayout), i.Recurrence,
		i.AccountID, nullStr(i.CategoryID), nullStr(i.GoalID), created.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save income: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SaveExpense(ctx context.Context, e *core.Expense) error {
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   description = excluded.description, amount = excluded.amount, date = excluded.date,
		   installments = excluded.installments, paid_installments = excluded.paid_installments,
		   recurrent = excluded.recurrent, account_id = excluded.account_id,
		   goal_id = excluded.goal_id, category_id = excluded.category_id`,
		e.ID, e.UserID, e.Description, e.Amount, e.Date.Format(dateLayout), e.Installments,
		e.PaidInstallments, e.Recurrent, nullStr(e.AccountID), nullStr(e.GoalID), nullStr(e.CategoryID),
		created.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save expense: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id string, cascade bool) error {
	do := func(s services.Store) error {
		view := s.(*SQLiteRepository)
		if cascade {
			if _, err := view.q.ExecContext(ctx, `DELETE FROM incomes WHERE account_id = ?`, id); err != nil {
				return fmt.Errorf("delete account incomes: %w", err)
			}
			if _, err := view.q.ExecContext(ctx, `DELETE FROM expenses WHERE account_id = ?`, id); err != nil {
				return fmt.Errorf("delete account expenses: %w", err)
			}
		}
		res, err := view.q.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("account %s: %w", id, core.ErrNotFound)
		}
		return nil
	}
	return r.InTx(ctx, do)
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("goal %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM incomes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("income %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) SumExpensesInRange(ctx context.Context, categoryID string, start, end time.Time, excludeID string) (float64, error) {
	var total float64
	err := r.q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses
		 WHERE category_id = ? AND date >= ? AND date < ? AND id != ?`,
		categoryID, start.Format(dateLayout), end.Format(dateLayout), excludeID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum category expenses: %w", err)
	}
	return total, nil
}

func (r *SQLiteRepository) SumIncomesByUserInRange(ctx context.Context, userID string, start, end time.Time) (float64, error) {
	var total float64
	err := r.q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM incomes WHERE user_id = ? AND date >= ? AND date < ?`,
		userID, start.Format(dateLayout), end.Format(dateLayout),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum user incomes: %w", err)
	}
	return total, nil
}

func (r *SQLiteRepository) SumExpensesByUserInRange(ctx context.Context, userID string, start, end time.Time) (float64, error) {
	var total float64
	err := r.q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = ? AND date >= ? AND date < ?`,
		userID, start.Format(dateLayout), end.Format(dateLayout),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum user expenses: %w", err)
	}
	return total, nil
}

func (r *SQLiteRepository) CountAccountMovements(ctx context.Context, accountID string) (int64, error) {
	var n int64
	err := r.q.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM incomes WHERE account_id = ?1)
		      + (SELECT COUNT(*) FROM expenses WHERE account_id = ?1)`,
		accountID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count account movements: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) NextExpenses(ctx context.Context, userID string, limit int) ([]core.Expense, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE user_id = ? AND date >= date('now') ORDER BY date LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("next expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}
