package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rohttz/GestorDeFinancas/internal/services"
)

func (s *Server) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	var in services.CreateUserInput
	if !decodeJSON(w, r, &in) {
		return
	}

	user, err := s.deps.Users.Create(r.Context(), in)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newUserView(user))
}

func (s *Server) handleUserGet(w http.ResponseWriter, r *http.Request) {
	user, err := s.deps.Users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserView(user))
}
