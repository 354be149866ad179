package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Rohttz/GestorDeFinancas/internal/core"
)

// AccountService manages accounts. The opening balance becomes the
// starting ledger balance; from then on only transactions move it.
type AccountService struct {
	store Store
}

func NewAccountService(store Store) *AccountService {
	return &AccountService{store: store}
}

type CreateAccountInput struct {
	UserID         string           `json:"userId"`
	Name           string           `json:"name"`
	Type           core.AccountType `json:"type"`
	InitialBalance Amount           `json:"initialBalance"`
	CreditLimit    *Amount          `json:"creditLimit"`
}

type AccountPatch struct {
	Name        Field[string]  `json:"name"`
	CreditLimit Field[*Amount] `json:"creditLimit"`
}

func (s *AccountService) Create(ctx context.Context, in CreateAccountInput) (*core.Account, error) {
	user, err := loadActiveUser(ctx, s.store, in.UserID)
	if err != nil {
		return nil, err
	}

	initial := 0.0
	if in.InitialBalance.Valid {
		if initial, err = in.InitialBalance.Normalize(); err != nil {
			return nil, err
		}
	}
	if initial < 0 {
		return nil, core.ErrNegativeInitialBalance
	}

	account := &core.Account{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		Name:           strings.TrimSpace(in.Name),
		Type:           in.Type,
		InitialBalance: initial,
		Balance:        initial,
		Active:         true,
	}
	if in.CreditLimit != nil {
		limit, err := in.CreditLimit.Normalize()
		if err != nil {
			return nil, err
		}
		account.CreditLimit = &limit
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}
	slog.InfoContext(ctx, "Account created", "id", account.ID, "user_id", account.UserID, "type", account.Type)
	return account, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (*core.Account, error) {
	return s.store.FindAccountByID(ctx, id)
}

func (s *AccountService) List(ctx context.Context, userID string) ([]core.Account, error) {
	return s.store.ListAccounts(ctx, userID)
}

// Update renames the account or adjusts its credit limit. Balance, type
// and owner are ledger-managed and immutable here.
func (s *AccountService) Update(ctx context.Context, id string, patch AccountPatch) (*core.Account, error) {
	account, err := s.store.FindAccountByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name.Set {
		name := strings.TrimSpace(patch.Name.Value)
		if name == "" {
			return nil, core.ErrEmptyName
		}
		account.Name = name
	}
	if patch.CreditLimit.Set {
		if patch.CreditLimit.Value == nil {
			account.CreditLimit = nil
		} else {
			limit, err := patch.CreditLimit.Value.Normalize()
			if err != nil {
				return nil, err
			}
			account.CreditLimit = &limit
		}
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}
	return account, nil
}

// Delete removes an account. Without cascade an account that still has
// transactions is protected; with cascade its transactions go with it
// (goal progress contributed through them is deliberately left alone).
func (s *AccountService) Delete(ctx context.Context, id string, cascade bool) error {
	account, err := s.store.FindAccountByID(ctx, id)
	if err != nil {
		return err
	}

	if !cascade {
		n, err := s.store.CountAccountMovements(ctx, account.ID)
		if err != nil {
			return fmt.Errorf("count account movements: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("%w: %d transactions", core.ErrAccountHasMovements, n)
		}
	}

	if err := s.store.DeleteAccount(ctx, account.ID, cascade); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	slog.InfoContext(ctx, "Account deleted", "id", account.ID, "cascade", cascade)
	return nil
}
