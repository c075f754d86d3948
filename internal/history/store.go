// Package history keeps completed evaluations for the dashboard and
// analytics views.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/mind-engage/examprep/internal/evaluation"
)

var ErrNotFound = errors.New("evaluation not found")

type Record struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	QuestionType  string            `json:"question_type"`
	Total         float64           `json:"total"`
	TotalMax      float64           `json:"total_max"`
	WeightedScore float64           `json:"weighted_score"`
	Percentage    float64           `json:"percentage"`
	Grade         string            `json:"grade,omitempty"`
	ShortID       string            `json:"short_id,omitempty"`
	Result        evaluation.Result `json:"result"`
	CreatedAt     time.Time         `json:"created_at"`
}

type ListOpts struct {
	UserID       string // empty = all users
	QuestionType string
	Limit        int
	Offset       int
}

// TypeSummary aggregates one user's evaluations of one question type.
type TypeSummary struct {
	QuestionType      string    `json:"question_type"`
	Count             int       `json:"count"`
	AveragePercentage float64   `json:"average_percentage"`
	BestPercentage    float64   `json:"best_percentage"`
	LastEvaluatedAt   time.Time `json:"last_evaluated_at"`
}

type Store interface {
	Save(ctx context.Context, userID string, res evaluation.Result) (Record, error)
	Get(ctx context.Context, id string) (Record, error)
	// List returns newest first.
	List(ctx context.Context, opts ListOpts) ([]Record, error)
	// Summary is ordered by question type.
	Summary(ctx context.Context, userID string) ([]TypeSummary, error)
}

type Clock func() time.Time

const (
	defaultLimit = 50
	maxLimit     = 200
)

func normalizeLimit(n int) int {
	switch {
	case n <= 0:
		return defaultLimit
	case n > maxLimit:
		return maxLimit
	}
	return n
}

func newRecord(id, userID string, res evaluation.Result, at time.Time) Record {
	return Record{
		ID:            id,
		UserID:        userID,
		QuestionType:  res.QuestionType,
		Total:         res.Total,
		TotalMax:      res.TotalMax,
		WeightedScore: res.WeightedScore,
		Percentage:    res.Percentage(),
		Grade:         res.Grade,
		ShortID:       res.ShortID,
		Result:        res,
		CreatedAt:     at.UTC().Truncate(time.Second),
	}
}
