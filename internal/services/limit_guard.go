package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Rohttz/GestorDeFinancas/internal/core"
)

// monthWindow returns the half-open calendar-month window [start, end)
// containing date, in UTC.
func monthWindow(date time.Time) (start, end time.Time) {
	start = time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// enforceSpendingLimit validates that a candidate expense keeps the
// category's month-to-date total at or under its configured limit.
// Categories without a limit pass unconditionally. excludeID keeps the
// expense being edited out of the sum.
func enforceSpendingLimit(ctx context.Context, agg Aggregator, category *core.Category, amount float64, date time.Time, excludeID string) error {
	if category == nil || category.SpendingLimit == nil {
		return nil
	}

	start, end := monthWindow(date)
	total, err := agg.SumExpensesInRange(ctx, category.ID, start, end, excludeID)
	if err != nil {
		return fmt.Errorf("sum category expenses: %w", err)
	}

	limit := core.Round(*category.SpendingLimit)
	if core.Round(total+amount)-limit > core.Tolerance {
		return fmt.Errorf("%w: %.2f + %.2f against monthly limit %.2f",
			core.ErrSpendingLimitExceeded, total, amount, limit)
	}
	return nil
}
