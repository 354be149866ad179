package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rohttz/GestorDeFinancas/internal/services"
)

func (s *Server) handleAccountCreate(w http.ResponseWriter, r *http.Request) {
	var in services.CreateAccountInput
	if !decodeJSON(w, r, &in) {
		return
	}

	account, err := s.deps.Accounts.Create(r.Context(), in)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	s.invalidateSummary(account.UserID)
	writeJSON(w, http.StatusCreated, newAccountView(account))
}

func (s *Server) handleAccountList(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	accounts, err := s.deps.Accounts.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAccountViews(accounts))
}

func (s *Server) handleAccountGet(w http.ResponseWriter, r *http.Request) {
	account, err := s.deps.Accounts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAccountView(account))
}

func (s *Server) handleAccountUpdate(w http.ResponseWriter, r *http.Request) {
	var patch services.AccountPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	account, err := s.deps.Accounts.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	s.invalidateSummary(account.UserID)
	writeJSON(w, http.StatusOK, newAccountView(account))
}

func (s *Server) handleAccountDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cascade := r.URL.Query().Get("cascade") == "true"

	// resolve the owner first so the cache entry can be dropped
	account, err := s.deps.Accounts.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := s.deps.Accounts.Delete(r.Context(), id, cascade); err != nil {
		handleServiceError(w, r, err)
		return
	}

	s.invalidateSummary(account.UserID)
	w.WriteHeader(http.StatusNoContent)
}
