package http

import (
	"context"
	"encoding/json"
	"net/http"

	authmw "github.com/mind-engage/examprep/internal/auth/middleware"
	"github.com/mind-engage/examprep/internal/evaluation"
	"github.com/mind-engage/examprep/internal/history"
	"github.com/mind-engage/examprep/internal/logger"
)

// Evaluator runs one evaluation.
type Evaluator interface {
	Evaluate(ctx context.Context, in evaluation.Input) (evaluation.Result, error)
}

type evaluateRequest struct {
	QuestionType    string  `json:"question_type" validate:"required,notblank,max=64"`
	StudentResponse string  `json:"student_response" validate:"required,notblank,max=50000"`
	CommandWord     *string `json:"command_word" validate:"omitempty,max=64"`
	TextType        *string `json:"text_type" validate:"omitempty,max=64"`
	InsertDocument  *string `json:"insert_document" validate:"omitempty,max=100000"`
}

type evaluateResponse struct {
	evaluation.Result
	Percentage   float64 `json:"percentage"`
	EvaluationID string  `json:"evaluation_id,omitempty"`
}

// POST /evaluate
// The caller's subject becomes the evaluation's user id. The result is
// stored in hist when it is non-nil; a failed save is logged and the result
// is still returned.
func EvaluateHandler(svc Evaluator, hist history.Store, log logger.Logger) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req evaluateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "bad json")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{
				Error:   "invalid_request",
				Message: "request validation failed",
				Fields:  fieldErrors(err),
			})
			return
		}

		sub := authmw.SubjectFromContext(r.Context())
		res, err := svc.Evaluate(r.Context(), evaluation.Input{
			QuestionType:   req.QuestionType,
			Essay:          req.StudentResponse,
			CommandWord:    req.CommandWord,
			TextType:       req.TextType,
			InsertDocument: req.InsertDocument,
			UserID:         sub,
		})
		if err != nil {
			writeEvalError(w, err)
			return
		}

		out := evaluateResponse{Result: res, Percentage: res.Percentage()}
		if hist != nil {
			rec, err := hist.Save(r.Context(), sub, res)
			if err != nil {
				log.Error("saving evaluation failed", err, map[string]interface{}{
					"question_type": res.QuestionType,
					"user_id":       sub,
				})
			} else {
				out.EvaluationID = rec.ID
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}
