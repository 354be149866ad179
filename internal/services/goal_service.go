package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Rohttz/GestorDeFinancas/internal/core"
)

// GoalService manages savings goals. Progress itself is ledger-managed
// through incomes and expenses; here only the goal's own attributes move.
type GoalService struct {
	store Store
}

func NewGoalService(store Store) *GoalService {
	return &GoalService{store: store}
}

type CreateGoalInput struct {
	UserID       string  `json:"userId"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	TargetValue  Amount  `json:"targetValue"`
	CurrentValue *Amount `json:"currentValue"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
}

type GoalPatch struct {
	Name        Field[string]          `json:"name"`
	Description Field[string]          `json:"description"`
	TargetValue Field[Amount]          `json:"targetValue"`
	StartDate   Field[string]          `json:"startDate"`
	EndDate     Field[string]          `json:"endDate"`
	Status      Field[core.GoalStatus] `json:"status"`
}

func (s *GoalService) Create(ctx context.Context, in CreateGoalInput) (*core.Goal, error) {
	user, err := loadActiveUser(ctx, s.store, in.UserID)
	if err != nil {
		return nil, err
	}

	target, err := in.TargetValue.Normalize()
	if err != nil {
		return nil, err
	}
	current := 0.0
	if in.CurrentValue != nil {
		if current, err = in.CurrentValue.Normalize(); err != nil {
			return nil, err
		}
	}
	if current < 0 {
		return nil, core.ErrNegativeGoalProgress
	}
	if current-target > core.Tolerance {
		return nil, fmt.Errorf("%w: %.2f over target %.2f", core.ErrProgressExceedsTarget, current, target)
	}

	start, err := parseDate(in.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidDateRange, err)
	}
	end, err := parseDate(in.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidDateRange, err)
	}

	goal := &core.Goal{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		TargetValue:  target,
		CurrentValue: current,
		StartDate:    start,
		EndDate:      end,
		Status:       core.GoalActive,
	}
	if core.AmountsEqual(current, target) && target > 0 {
		goal.CurrentValue = target
		goal.Status = core.GoalCompleted
	}
	if err := goal.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.SaveGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("save goal: %w", err)
	}
	slog.InfoContext(ctx, "Goal created", "id", goal.ID, "user_id", goal.UserID, "target", goal.TargetValue)
	return goal, nil
}

func (s *GoalService) Get(ctx context.Context, id string) (*core.Goal, error) {
	return s.store.FindGoalByID(ctx, id)
}

func (s *GoalService) List(ctx context.Context, userID string) ([]core.Goal, error) {
	return s.store.ListGoals(ctx, userID)
}

// Update changes a goal's attributes. Lowering the target below the
// accumulated progress is rejected rather than silently clamping money
// that came from real transactions.
func (s *GoalService) Update(ctx context.Context, id string, patch GoalPatch) (*core.Goal, error) {
	goal, err := s.store.FindGoalByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name.Set {
		name := strings.TrimSpace(patch.Name.Value)
		if name == "" {
			return nil, core.ErrEmptyName
		}
		goal.Name = name
	}
	if patch.Description.Set {
		goal.Description = strings.TrimSpace(patch.Description.Value)
	}
	if patch.TargetValue.Set {
		target, err := patch.TargetValue.Value.Normalize()
		if err != nil {
			return nil, err
		}
		if goal.CurrentValue-target > core.Tolerance {
			return nil, fmt.Errorf("%w: progress %.2f over new target %.2f",
				core.ErrProgressExceedsTarget, goal.CurrentValue, target)
		}
		goal.TargetValue = target
		switch {
		case core.AmountsEqual(goal.CurrentValue, target) && target > 0:
			goal.CurrentValue = target
			if goal.Status == core.GoalActive {
				goal.Status = core.GoalCompleted
			}
		case goal.Status == core.GoalCompleted:
			goal.Status = core.GoalActive
		}
	}
	if patch.StartDate.Set {
		if goal.StartDate, err = parseDate(patch.StartDate.Value); err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrInvalidDateRange, err)
		}
	}
	if patch.EndDate.Set {
		if goal.EndDate, err = parseDate(patch.EndDate.Value); err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrInvalidDateRange, err)
		}
	}
	if patch.Status.Set {
		if !patch.Status.Value.Valid() {
			return nil, fmt.Errorf("%w: status %q", core.ErrInvalidBinding, patch.Status.Value)
		}
		goal.Status = patch.Status.Value
	}
	if err := goal.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.SaveGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("save goal: %w", err)
	}
	return goal, nil
}

// Delete removes a goal. Transactions that referenced it are detached by
// the storage layer; account balances are untouched.
func (s *GoalService) Delete(ctx context.Context, id string) error {
	goal, err := s.store.FindGoalByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteGoal(ctx, goal.ID); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	slog.InfoContext(ctx, "Goal deleted", "id", goal.ID)
	return nil
}
