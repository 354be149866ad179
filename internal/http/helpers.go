package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Rohttz/GestorDeFinancas/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON parses the request body into dst. On failure it writes a
// 400 and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

// ruleErrors are business-rule violations the caller can correct, so
// they map to 422 rather than 500.
var ruleErrors = []error{
	core.ErrInactiveUser,
	core.ErrInvalidBinding,
	core.ErrSingleBindingViolation,
	core.ErrCategoryTypeMismatch,
	core.ErrInvalidInstallments,
	core.ErrSpendingLimitExceeded,
	core.ErrCreditLimitExceeded,
	core.ErrNegativeGoalProgress,
	core.ErrGoalAlreadyCompleted,
	core.ErrInvalidAmount,
	core.ErrEmptyDescription,
	core.ErrEmptyName,
	core.ErrNegativeInitialBalance,
	core.ErrProgressExceedsTarget,
	core.ErrInvalidDateRange,
	core.ErrInvalidAccountType,
	core.ErrInvalidCategoryType,
	core.ErrInvalidRecurrence,
	core.ErrAccountHasMovements,
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, core.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	for _, rule := range ruleErrors {
		if errors.Is(err, rule) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}
	slog.ErrorContext(r.Context(), "Request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// userIDParam reads the mandatory userId query parameter for list
// endpoints. On absence it writes a 400 and returns false.
func userIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId query parameter is required")
		return "", false
	}
	return userID, true
}
