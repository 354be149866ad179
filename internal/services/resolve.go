package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Rohttz/GestorDeFinancas/internal/core"
)

// loadActiveUser resolves the owning user and rejects deactivated ones.
func loadActiveUser(ctx context.Context, s EntityFinder, id string) (*core.User, error) {
	user, err := s.FindUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	if !user.Active {
		return nil, fmt.Errorf("%w: %s", core.ErrInactiveUser, id)
	}
	return user, nil
}

// resolveAccount loads an account and checks ownership. A missing account
// is reported the same way as a foreign one: the binding is invalid for
// the requesting user.
func resolveAccount(ctx context.Context, s EntityFinder, id, userID string) (*core.Account, error) {
	acc, err := s.FindAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", core.ErrInvalidBinding, id)
		}
		return nil, fmt.Errorf("find account %s: %w", id, err)
	}
	if acc.UserID != userID {
		return nil, fmt.Errorf("%w: account %s", core.ErrInvalidBinding, id)
	}
	return acc, nil
}

func resolveCategory(ctx context.Context, s EntityFinder, id, userID string, want core.CategoryType) (*core.Category, error) {
	cat, err := s.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %s", core.ErrInvalidBinding, id)
		}
		return nil, fmt.Errorf("find category %s: %w", id, err)
	}
	if cat.UserID != userID {
		return nil, fmt.Errorf("%w: category %s", core.ErrInvalidBinding, id)
	}
	if cat.Type != want {
		return nil, fmt.Errorf("%w: category %s is %s, want %s", core.ErrCategoryTypeMismatch, id, cat.Type, want)
	}
	return cat, nil
}

// resolveGoal loads a goal and checks ownership. forBinding additionally
// rejects completed goals: new money may not be bound to a finished goal.
// Reversal paths resolve with forBinding=false so completed goals never
// block undoing their own transactions.
func resolveGoal(ctx context.Context, s EntityFinder, id, userID string, forBinding bool) (*core.Goal, error) {
	goal, err := s.FindGoalByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("%w: goal %s", core.ErrInvalidBinding, id)
		}
		return nil, fmt.Errorf("find goal %s: %w", id, err)
	}
	if goal.UserID != userID {
		return nil, fmt.Errorf("%w: goal %s", core.ErrInvalidBinding, id)
	}
	if forBinding && goal.Status == core.GoalCompleted {
		return nil, fmt.Errorf("%w: goal %s", core.ErrGoalAlreadyCompleted, id)
	}
	return goal, nil
}

// publishEvent emits a ledger event, logging and swallowing failures: the
// mutation is already committed and must not be reported as failed.
func publishEvent(ctx context.Context, pub EventPublisher, evt LedgerEvent) {
	if pub == nil {
		return
	}
	if err := pub.PublishLedgerEvent(ctx, evt); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", evt.Kind,
			"action", evt.Action,
			"id", evt.ID,
			"error", err)
	}
}
