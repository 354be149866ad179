package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rohttz/GestorDeFinancas/internal/metrics"
	"github.com/Rohttz/GestorDeFinancas/internal/services"
)

func (s *Server) handleIncomeCreate(w http.ResponseWriter, r *http.Request) {
	var in services.CreateIncomeInput
	if !decodeJSON(w, r, &in) {
		return
	}

	income, err := s.deps.Incomes.Create(r.Context(), in)
	if err != nil {
		metrics.LedgerRejections.WithLabelValues("income").Inc()
		handleServiceError(w, r, err)
		return
	}

	metrics.LedgerMutations.WithLabelValues("income", "created").Inc()
	s.invalidateSummary(income.UserID)
	writeJSON(w, http.StatusCreated, newIncomeView(income))
}

func (s *Server) handleIncomeList(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	incomes, err := s.deps.Incomes.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newIncomeViews(incomes))
}

func (s *Server) handleIncomeGet(w http.ResponseWriter, r *http.Request) {
	income, err := s.deps.Incomes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newIncomeView(income))
}

func (s *Server) handleIncomeUpdate(w http.ResponseWriter, r *http.Request) {
	var patch services.IncomePatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	income, err := s.deps.Incomes.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		metrics.LedgerRejections.WithLabelValues("income").Inc()
		handleServiceError(w, r, err)
		return
	}

	metrics.LedgerMutations.WithLabelValues("income", "updated").Inc()
	s.invalidateSummary(income.UserID)
	writeJSON(w, http.StatusOK, newIncomeView(income))
}

func (s *Server) handleIncomeDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	income, err := s.deps.Incomes.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := s.deps.Incomes.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	metrics.LedgerMutations.WithLabelValues("income", "deleted").Inc()
	s.invalidateSummary(income.UserID)
	w.WriteHeader(http.StatusNoContent)
}
