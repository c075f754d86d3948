package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/examprep/internal/questions"
)

// QuestionCatalog is the read side of the question-type registry.
type QuestionCatalog interface {
	List() []questions.QuestionType
	QuestionType(id string) (questions.QuestionType, bool)
	Totals(id string) (questions.QuestionTotal, bool)
}

type questionTypeDetail struct {
	questions.QuestionType
	Total      float64               `json:"total"`
	Components []questions.Component `json:"components"`
	Bands      []questions.Band      `json:"bands,omitempty"`
}

func detail(cat QuestionCatalog, qt questions.QuestionType) questionTypeDetail {
	d := questionTypeDetail{QuestionType: qt, Components: []questions.Component{}}
	if t, ok := cat.Totals(qt.ID); ok {
		d.Total = t.Total
		d.Components = t.Components
		d.Bands = t.Bands
	}
	return d
}

// GET /question-types
func ListQuestionTypesHandler(cat QuestionCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		out := []questionTypeDetail{}
		for _, qt := range cat.List() {
			if category != "" && qt.Category != category {
				continue
			}
			out = append(out, detail(cat, qt))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /question-types/{id}
func GetQuestionTypeHandler(cat QuestionCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		qt, ok := cat.QuestionType(id)
		if !ok {
			writeError(w, http.StatusNotFound, "not_found", "unknown question type "+id)
			return
		}
		writeJSON(w, http.StatusOK, detail(cat, qt))
	}
}
