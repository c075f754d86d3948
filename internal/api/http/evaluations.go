package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/mind-engage/examprep/internal/auth/middleware"
	"github.com/mind-engage/examprep/internal/history"
	"github.com/mind-engage/examprep/internal/rbac"
)

// GET /evaluations?user_id=...&question_type=...&limit=50&offset=0
// Without evaluation:view-all the list is forced to the caller's own records.
func ListEvaluationsHandler(store history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		userID := strings.TrimSpace(q.Get("user_id"))
		if !rbac.Can(r.Context(), rbac.PermEvaluationViewAll) {
			userID = authmw.SubjectFromContext(r.Context())
		}
		list, err := store.List(r.Context(), history.ListOpts{
			UserID:       userID,
			QuestionType: strings.TrimSpace(q.Get("question_type")),
			Limit:        parseIntDefault(q.Get("limit"), 50),
			Offset:       parseIntDefault(q.Get("offset"), 0),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "list evaluations")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /evaluations/{id}
func GetEvaluationHandler(store history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, history.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "evaluation not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "get evaluation")
			return
		}
		if rec.UserID != authmw.SubjectFromContext(r.Context()) && !rbac.Can(r.Context(), rbac.PermEvaluationViewAll) {
			// Don't reveal that someone else's record exists.
			writeError(w, http.StatusNotFound, "not_found", "evaluation not found")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// GET /analytics/summary?user_id=...
func AnalyticsSummaryHandler(store history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if u := strings.TrimSpace(r.URL.Query().Get("user_id")); u != "" && u != userID {
			if !rbac.Can(r.Context(), rbac.PermAnalyticsViewAll) {
				writeError(w, http.StatusForbidden, "forbidden", "insufficient permissions")
				return
			}
			userID = u
		}
		sum, err := store.Summary(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "summary")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user_id": userID, "question_types": sum})
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
