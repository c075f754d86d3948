package http

import (
	"encoding/json"
	"context"
	"errors"
	"net/http"

	"github.com/mind-engage/examprep/internal/evaluation"
	"github.com/mind-engage/examprep/internal/marking"
)

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Status  int               `json:"status,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, errCode, msg string) {
	writeJSON(w, code, errorBody{Error: errCode, Message: msg})
}

// writeEvalError maps evaluation failures to HTTP responses.
func writeEvalError(w http.ResponseWriter, err error) {
	var (
		unknown *evaluation.UnknownQuestionTypeError
		cfgErr  *evaluation.ConfigurationError
		remote  *marking.RemoteEvaluationError
		tErr    *marking.TransportError
	)
	switch {
	case errors.As(err, &unknown):
		writeError(w, http.StatusBadRequest, "unsupported_question_type", err.Error())
	case errors.As(err, &cfgErr):
		writeError(w, http.StatusInternalServerError, "question_type_misconfigured", err.Error())
	case errors.As(err, &remote):
		writeJSON(w, http.StatusBadGateway, errorBody{
			Error:   "marking_service_error",
			Message: err.Error(),
			Status:  remote.StatusCode,
		})
	case errors.As(err, &tErr) && isTimeout(err):
		writeError(w, http.StatusGatewayTimeout, "marking_service_timeout", "marking service timed out")
	case errors.As(err, &tErr):
		writeError(w, http.StatusServiceUnavailable, "marking_service_unreachable", "marking service unreachable")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "evaluation failed")
	}
}

// isTimeout covers both the request deadline and the client's own timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
