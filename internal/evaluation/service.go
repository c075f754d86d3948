// Package evaluation marks an essay through the remote marking service and
// turns the reply into a weighted, per-component score breakdown.
package evaluation

import (
	"context"

	"github.com/mind-engage/examprep/internal/logger"
	"github.com/mind-engage/examprep/internal/marking"
	"github.com/mind-engage/examprep/internal/questions"
)

// Registry is the read side of the question-type table.
type Registry interface {
	QuestionType(id string) (questions.QuestionType, bool)
	Totals(id string) (questions.QuestionTotal, bool)
	MarkingGuide(id string) (string, bool)
}

// MarkingClient performs one exchange with the marking service.
type MarkingClient interface {
	Evaluate(ctx context.Context, req marking.Request) (marking.Response, error)
}

// Input is what a caller supplies for one evaluation. Nil optional fields
// are sent to the marking service as null; a non-nil empty string is sent
// as "". An empty UserID means an anonymous caller.
type Input struct {
	QuestionType   string
	Essay          string
	CommandWord    *string
	TextType       *string
	InsertDocument *string
	UserID         string
}

type Service struct {
	reg    Registry
	client MarkingClient
	log    logger.Logger
}

type Option func(*Service)

func WithLogger(l logger.Logger) Option { return func(s *Service) { s.log = l } }

func New(reg Registry, client MarkingClient, opts ...Option) *Service {
	s := &Service{reg: reg, client: client, log: logger.Discard()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Evaluate runs one evaluation. It is all or nothing: any failure returns
// the error and no partial result. Unknown or misconfigured question types
// fail before the marking service is contacted.
func (s *Service) Evaluate(ctx context.Context, in Input) (Result, error) {
	qt, ok := s.reg.QuestionType(in.QuestionType)
	if !ok {
		return Result{}, &UnknownQuestionTypeError{ID: in.QuestionType}
	}
	totals, ok := s.reg.Totals(in.QuestionType)
	if !ok {
		return Result{}, &UnknownQuestionTypeError{ID: in.QuestionType}
	}
	if totals.Total == 0 {
		return Result{}, &ConfigurationError{ID: qt.ID, Reason: "total points is 0"}
	}

	req := marking.Request{
		QuestionType:    qt.ID,
		StudentResponse: in.Essay,
		CommandWord:     in.CommandWord,
		TextType:        in.TextType,
		InsertDocument:  in.InsertDocument,
		UserID:          marking.Optional(in.UserID),
	}
	if qt.RequiresMarkingScheme {
		if guide, ok := s.reg.MarkingGuide(qt.ID); ok {
			req.MarkingScheme = &guide
		}
	}

	resp, err := s.client.Evaluate(ctx, req)
	if err != nil {
		s.log.Error("marking service call failed", err, map[string]interface{}{
			"question_type": qt.ID,
			"user_id":       in.UserID,
		})
		return Result{}, err
	}
	res, err := MapScores(qt.ID, totals, resp)
	if err != nil {
		return Result{}, err
	}
	s.log.Info("evaluation completed", map[string]interface{}{
		"question_type": qt.ID,
		"total":         res.Total,
		"total_max":     res.TotalMax,
		"marks_fields":  len(resp.Marks),
	})
	return res, nil
}
