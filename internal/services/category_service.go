package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Rohttz/GestorDeFinancas/internal/core"
)

// CategoryService manages income/expense categories and their optional
// monthly spending limits.
type CategoryService struct {
	store Store
}

func NewCategoryService(store Store) *CategoryService {
	return &CategoryService{store: store}
}

type CreateCategoryInput struct {
	UserID        string            `json:"userId"`
	Name          string            `json:"name"`
	Type          core.CategoryType `json:"type"`
	SpendingLimit *Amount           `json:"spendingLimit"`
}

type CategoryPatch struct {
	Name          Field[string]  `json:"name"`
	SpendingLimit Field[*Amount] `json:"spendingLimit"`
}

// defaultSeed is a category every new user starts with.
type defaultSeed struct {
	name  string
	typ   core.CategoryType
	limit float64 // 0 means no limit
}

var defaultSeeds = []defaultSeed{
	{name: "Salário", typ: core.CategoryIncome},
	{name: "Freelance", typ: core.CategoryIncome},
	{name: "Aluguel Recebido", typ: core.CategoryIncome},
	{name: "Aluguel", typ: core.CategoryExpense, limit: 2000},
	{name: "Transporte", typ: core.CategoryExpense, limit: 500},
	{name: "Lazer", typ: core.CategoryExpense, limit: 800},
	{name: "Conta", typ: core.CategoryExpense, limit: 1200},
}

func (s *CategoryService) Create(ctx context.Context, in CreateCategoryInput) (*core.Category, error) {
	user, err := loadActiveUser(ctx, s.store, in.UserID)
	if err != nil {
		return nil, err
	}

	category := &core.Category{
		ID:     uuid.NewString(),
		UserID: user.ID,
		Name:   strings.TrimSpace(in.Name),
		Type:   in.Type,
	}
	if in.SpendingLimit != nil {
		limit, err := in.SpendingLimit.Normalize()
		if err != nil {
			return nil, err
		}
		category.SpendingLimit = &limit
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.SaveCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("save category: %w", err)
	}
	slog.InfoContext(ctx, "Category created", "id", category.ID, "user_id", category.UserID, "type", category.Type)
	return category, nil
}

// SeedDefaults creates the stock categories for a user. It is idempotent:
// a default whose name already exists for the user is skipped.
func (s *CategoryService) SeedDefaults(ctx context.Context, userID string) error {
	user, err := loadActiveUser(ctx, s.store, userID)
	if err != nil {
		return err
	}
	existing, err := s.store.ListCategories(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, c := range existing {
		have[c.Name] = true
	}

	created := 0
	for _, seed := range defaultSeeds {
		if have[seed.name] {
			continue
		}
		category := &core.Category{
			ID:     uuid.NewString(),
			UserID: user.ID,
			Name:   seed.name,
			Type:   seed.typ,
		}
		if seed.limit > 0 {
			limit := seed.limit
			category.SpendingLimit = &limit
		}
		if err := s.store.SaveCategory(ctx, category); err != nil {
			return fmt.Errorf("seed category %s: %w", seed.name, err)
		}
		created++
	}
	slog.InfoContext(ctx, "Default categories seeded", "user_id", user.ID, "created", created)
	return nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*core.Category, error) {
	return s.store.FindCategoryByID(ctx, id)
}

func (s *CategoryService) List(ctx context.Context, userID string) ([]core.Category, error) {
	return s.store.ListCategories(ctx, userID)
}

// Update renames a category or changes its spending limit. The type is
// immutable: transactions were validated against it at bind time.
func (s *CategoryService) Update(ctx context.Context, id string, patch CategoryPatch) (*core.Category, error) {
	category, err := s.store.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name.Set {
		name := strings.TrimSpace(patch.Name.Value)
		if name == "" {
			return nil, core.ErrEmptyName
		}
		category.Name = name
	}
	if patch.SpendingLimit.Set {
		if patch.SpendingLimit.Value == nil {
			category.SpendingLimit = nil
		} else {
			limit, err := patch.SpendingLimit.Value.Normalize()
			if err != nil {
				return nil, err
			}
			category.SpendingLimit = &limit
		}
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.SaveCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("save category: %w", err)
	}
	return category, nil
}

// Delete removes a category. Transactions keep their amounts and
// bindings; the storage layer detaches them from the removed category.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	category, err := s.store.FindCategoryByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteCategory(ctx, category.ID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	slog.InfoContext(ctx, "Category deleted", "id", category.ID)
	return nil
}
