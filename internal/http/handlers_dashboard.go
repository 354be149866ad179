package http

import (
	"net/http"
	"time"
)

// handleDashboard serves the per-user summary. Results are cached
// briefly; every write handler for the user invalidates the entry.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	if summary, hit := s.summaryCache.Get(userID); hit {
		w.Header().Set("X-Cache", "hit")
		writeJSON(w, http.StatusOK, newSummaryView(summary))
		return
	}

	summary, err := s.deps.Dashboard.Summarize(r.Context(), userID, time.Now())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	s.summaryCache.Set(userID, summary)
	w.Header().Set("X-Cache", "miss")
	writeJSON(w, http.StatusOK, newSummaryView(summary))
}
