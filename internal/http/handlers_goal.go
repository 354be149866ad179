package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rohttz/GestorDeFinancas/internal/services"
)

func (s *Server) handleGoalCreate(w http.ResponseWriter, r *http.Request) {
	var in services.CreateGoalInput
	if !decodeJSON(w, r, &in) {
		return
	}

	goal, err := s.deps.Goals.Create(r.Context(), in)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	s.invalidateSummary(goal.UserID)
	writeJSON(w, http.StatusCreated, newGoalView(goal))
}

func (s *Server) handleGoalList(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	goals, err := s.deps.Goals.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newGoalViews(goals))
}

func (s *Server) handleGoalGet(w http.ResponseWriter, r *http.Request) {
	goal, err := s.deps.Goals.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newGoalView(goal))
}

func (s *Server) handleGoalUpdate(w http.ResponseWriter, r *http.Request) {
	var patch services.GoalPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	goal, err := s.deps.Goals.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	s.invalidateSummary(goal.UserID)
	writeJSON(w, http.StatusOK, newGoalView(goal))
}

func (s *Server) handleGoalDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	goal, err := s.deps.Goals.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := s.deps.Goals.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	s.invalidateSummary(goal.UserID)
	w.WriteHeader(http.StatusNoContent)
}
