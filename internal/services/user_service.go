package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Rohttz/GestorDeFinancas/internal/core"
)

// UserService manages users. New users start with the stock category set.
type UserService struct {
	store      Store
	categories *CategoryService
}

func NewUserService(store Store, categories *CategoryService) *UserService {
	return &UserService{store: store, categories: categories}
}

type CreateUserInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*core.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, core.ErrEmptyName
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email", core.ErrEmptyName)
	}

	user := &core.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	if err := s.categories.SeedDefaults(ctx, user.ID); err != nil {
		// the user exists; missing defaults can be reseeded later
		slog.WarnContext(ctx, "Failed to seed default categories", "user_id", user.ID, "error", err)
	}

	slog.InfoContext(ctx, "User created", "id", user.ID, "email", user.Email)
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*core.User, error) {
	return s.store.FindUserByID(ctx, id)
}
