package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rohttz/GestorDeFinancas/internal/services"
)

func (s *Server) handleCategoryCreate(w http.ResponseWriter, r *http.Request) {
	var in services.CreateCategoryInput
	if !decodeJSON(w, r, &in) {
		return
	}

	category, err := s.deps.Categories.Create(r.Context(), in)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newCategoryView(category))
}

func (s *Server) handleCategorySeedDefaults(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID string `json:"userId"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if err := s.deps.Categories.SeedDefaults(r.Context(), in.UserID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	categories, err := s.deps.Categories.List(r.Context(), in.UserID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCategoryViews(categories))
}

func (s *Server) handleCategoryList(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	categories, err := s.deps.Categories.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCategoryViews(categories))
}

func (s *Server) handleCategoryGet(w http.ResponseWriter, r *http.Request) {
	category, err := s.deps.Categories.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCategoryView(category))
}

func (s *Server) handleCategoryUpdate(w http.ResponseWriter, r *http.Request) {
	var patch services.CategoryPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	category, err := s.deps.Categories.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCategoryView(category))
}

func (s *Server) handleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
