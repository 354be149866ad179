package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/Rohttz/GestorDeFinancas/internal/http"
	"github.com/Rohttz/GestorDeFinancas/internal/services"
	"github.com/Rohttz/GestorDeFinancas/internal/storage/memory"
)

func newTestServer(t *testing.T) *api.Server {
	t.Helper()

	store := memory.New()
	categories := services.NewCategoryService(store)

	srv := api.NewServer(":0", api.Services{
		Users:      services.NewUserService(store, categories),
		Accounts:   services.NewAccountService(store),
		Categories: categories,
		Goals:      services.NewGoalService(store),
		Incomes:    services.NewIncomeService(store, nil),
		Expenses:   services.NewExpenseService(store, nil),
		Dashboard:  services.NewDashboardService(store),
	})
	t.Cleanup(func() {
		if err := srv.Shutdown(context.Background()); err != nil {
			t.Errorf("shutdown: %v", err)
		}
	})
	return srv
}

func doJSON(t *testing.T, srv *api.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func createUser(t *testing.T, srv *api.Server) string {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/users", map[string]string{
		"name":  "Rodrigo",
		"email": "rodrigo@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user status = %d, body = %s", rec.Code, rec.Body)
	}

	var user struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &user)
	return user.ID
}

func createAccount(t *testing.T, srv *api.Server, userID string, initial float64) string {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/accounts", map[string]any{
		"userId":         userID,
		"name":           "Conta Corrente",
		"type":           "checking",
		"initialBalance": initial,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account status = %d, body = %s", rec.Code, rec.Body)
	}

	var account struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &account)
	return account.ID
}

func accountBalance(t *testing.T, srv *api.Server, accountID string) float64 {
	t.Helper()

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/accounts/"+accountID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get account status = %d", rec.Code)
	}

	var account struct {
		Balance float64 `json:"balance"`
	}
	decodeBody(t, rec, &account)
	return account.Balance
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, srv, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestUserCreationSeedsDefaultCategories(t *testing.T) {
	srv := newTestServer(t)
	userID := createUser(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/categories?userId="+userID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list categories status = %d", rec.Code)
	}

	var categories []struct {
		Name string `json:"name"`
	}
	decodeBody(t, rec, &categories)
	if len(categories) != 7 {
		t.Errorf("categories = %d, want 7 defaults", len(categories))
	}
}

func TestAccountLifecycle(t *testing.T) {
	srv := newTestServer(t)
	userID := createUser(t, srv)
	accountID := createAccount(t, srv, userID, 500)

	rec := doJSON(t, srv, http.MethodPatch, "/api/v1/accounts/"+accountID, map[string]string{
		"name": "Conta Principal",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch account status = %d, body = %s", rec.Code, rec.Body)
	}
	var patched struct {
		Name    string  `json:"name"`
		Balance float64 `json:"balance"`
	}
	decodeBody(t, rec, &patched)
	if patched.Name != "Conta Principal" {
		t.Errorf("name = %q after patch", patched.Name)
	}
	if patched.Balance != 500 {
		t.Errorf("balance = %v, patch must not touch it", patched.Balance)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/v1/accounts/"+accountID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete account status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/accounts/"+accountID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get deleted account status = %d, want 404", rec.Code)
	}
}

func TestAccountDeleteRequiresCascade(t *testing.T) {
	srv := newTestServer(t)
	userID := createUser(t, srv)
	accountID := createAccount(t, srv, userID, 100)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/incomes", map[string]any{
		"userId":      userID,
		"description": "Salário",
		"amount":      1000,
		"date":        "2026-08-05",
		"recurrence":  "monthly",
		"accountId":   accountID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create income status = %d, body = %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/v1/accounts/"+accountID, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("delete with movements status = %d, want 422", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/v1/accounts/"+accountID+"?cascade=true", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("cascade delete status = %d, want 204", rec.Code)
	}
}

func TestIncomeMovesAccountBalance(t *testing.T) {
	srv := newTestServer(t)
	userID := createUser(t, srv)
	accountID := createAccount(t, srv, userID, 100)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/incomes", map[string]any{
		"userId":      userID,
		"description": "Freelance",
		"amount":      "250.50",
		"date":        "2026-08-10",
		"recurrence":  "none",
		"accountId":   accountID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create income status = %d, body = %s", rec.Code, rec.Body)
	}
	var income struct {
		ID     string  `json:"id"`
		Amount float64 `json:"amount"`
	}
	decodeBody(t, rec, &income)
	if income.Amount != 250.50 {
		t.Errorf("amount = %v, want 250.50", income.Amount)
	}

	if got := accountBalance(t, srv, accountID); got != 350.50 {
		t.Errorf("balance after income = %v, want 350.50", got)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/v1/incomes/"+income.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete income status = %d", rec.Code)
	}
	if got := accountBalance(t, srv, accountID); got != 100 {
		t.Errorf("balance after delete = %v, want 100", got)
	}
}

func TestExpenseRuleViolationsMapTo422(t *testing.T) {
	srv := newTestServer(t)
	userID := createUser(t, srv)
	accountID := createAccount(t, srv, userID, 100)

	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "no funding source",
			body: map[string]any{
				"userId":      userID,
				"description": "Mercado",
				"amount":      10,
				"date":        "2026-08-10",
			},
		},
		{
			name: "zero amount",
			body: map[string]any{
				"userId":      userID,
				"description": "Mercado",
				"amount":      0,
				"date":        "2026-08-10",
				"accountId":   accountID,
			},
		},
		{
			name: "unknown account",
			body: map[string]any{
				"userId":      userID,
				"description": "Mercado",
				"amount":      10,
				"date":        "2026-08-10",
				"accountId":   "ghost",
			},
		},
		{
			name: "invalid installments",
			body: map[string]any{
				"userId":       userID,
				"description":  "Notebook",
				"amount":       100,
				"date":         "2026-08-10",
				"accountId":    accountID,
				"installments": 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodPost, "/api/v1/expenses", tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422, body = %s", rec.Code, rec.Body)
			}
		})
	}
}

func TestMalformedRequests(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", rec.Code)
	}

	list := doJSON(t, srv, http.MethodGet, "/api/v1/accounts", nil)
	if list.Code != http.StatusBadRequest {
		t.Errorf("list without userId status = %d, want 400", list.Code)
	}
}

func TestDashboardCacheInvalidation(t *testing.T) {
	srv := newTestServer(t)
	userID := createUser(t, srv)
	accountID := createAccount(t, srv, userID, 1000)

	dashboardPath := fmt.Sprintf("/api/v1/dashboard?userId=%s", userID)

	first := doJSON(t, srv, http.MethodGet, dashboardPath, nil)
	if first.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, body = %s", first.Code, first.Body)
	}
	if got := first.Header().Get("X-Cache"); got != "miss" {
		t.Errorf("first X-Cache = %q, want miss", got)
	}

	second := doJSON(t, srv, http.MethodGet, dashboardPath, nil)
	if got := second.Header().Get("X-Cache"); got != "hit" {
		t.Errorf("second X-Cache = %q, want hit", got)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/incomes", map[string]any{
		"userId":      userID,
		"description": "Bônus",
		"amount":      500,
		"date":        "2026-08-15",
		"recurrence":  "none",
		"accountId":   accountID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create income status = %d", rec.Code)
	}

	third := doJSON(t, srv, http.MethodGet, dashboardPath, nil)
	if got := third.Header().Get("X-Cache"); got != "miss" {
		t.Errorf("X-Cache after mutation = %q, want miss", got)
	}
	var summary struct {
		TotalBalance float64 `json:"totalBalance"`
	}
	decodeBody(t, third, &summary)
	if summary.TotalBalance != 1500 {
		t.Errorf("totalBalance = %v, want 1500", summary.TotalBalance)
	}
}
