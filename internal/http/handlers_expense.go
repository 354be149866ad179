package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rohttz/GestorDeFinancas/internal/metrics"
	"github.com/Rohttz/GestorDeFinancas/internal/services"
)

func (s *Server) handleExpenseCreate(w http.ResponseWriter, r *http.Request) {
	var in services.CreateExpenseInput
	if !decodeJSON(w, r, &in) {
		return
	}

	expense, err := s.deps.Expenses.Create(r.Context(), in)
	if err != nil {
		metrics.LedgerRejections.WithLabelValues("expense").Inc()
		handleServiceError(w, r, err)
		return
	}

	metrics.LedgerMutations.WithLabelValues("expense", "created").Inc()
	s.invalidateSummary(expense.UserID)
	writeJSON(w, http.StatusCreated, newExpenseView(expense))
}

func (s *Server) handleExpenseList(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	expenses, err := s.deps.Expenses.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newExpenseViews(expenses))
}

func (s *Server) handleExpenseGet(w http.ResponseWriter, r *http.Request) {
	expense, err := s.deps.Expenses.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newExpenseView(expense))
}

func (s *Server) handleExpenseUpdate(w http.ResponseWriter, r *http.Request) {
	var patch services.ExpensePatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	expense, err := s.deps.Expenses.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		metrics.LedgerRejections.WithLabelValues("expense").Inc()
		handleServiceError(w, r, err)
		return
	}

	metrics.LedgerMutations.WithLabelValues("expense", "updated").Inc()
	s.invalidateSummary(expense.UserID)
	writeJSON(w, http.StatusOK, newExpenseView(expense))
}

func (s *Server) handleExpenseDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	expense, err := s.deps.Expenses.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := s.deps.Expenses.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	metrics.LedgerMutations.WithLabelValues("expense", "deleted").Inc()
	s.invalidateSummary(expense.UserID)
	w.WriteHeader(http.StatusNoContent)
}
