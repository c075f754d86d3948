package evaluation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mind-engage/examprep/internal/marking"
	"github.com/mind-engage/examprep/internal/questions"
)

const (
	noFeedback = "No feedback provided."
	noSummary  = "Evaluation completed."
)

// MarkScore is the score of one component.
type MarkScore struct {
	CriterionID    string  `json:"criterion_id"`
	CriterionTitle string  `json:"criterion_title"`
	Band           string  `json:"band,omitempty"`
	Score          float64 `json:"score"`
	MaxScore       float64 `json:"max_score"`
	Weight         float64 `json:"weight"`
	Reasoning      string  `json:"reasoning"`
}

// Result is the normalized outcome of one evaluation.
type Result struct {
	QuestionType  string      `json:"question_type"`
	Total         float64     `json:"total"`
	TotalMax      float64     `json:"total_max"`
	WeightedScore float64     `json:"weighted_score"`
	Scores        []MarkScore `json:"scores"`
	Summary       string      `json:"summary"`

	Grade                  string   `json:"grade,omitempty"`
	ImprovementSuggestions []string `json:"improvement_suggestions,omitempty"`
	Strengths              []string `json:"strengths,omitempty"`
	NextSteps              []string `json:"next_steps,omitempty"`
	ShortID                string   `json:"short_id,omitempty"`
}

// Percentage is Total as a share of TotalMax, in 0..100.
func (r Result) Percentage() float64 {
	if r.TotalMax == 0 {
		return 0
	}
	return r.Total / r.TotalMax * 100
}

// MapScores spreads a marking response over the components of totals, in
// declaration order. A component whose field is missing or not numeric
// scores 0; that is part of the contract with the marking service, not an
// error. Scores are not clamped to the component maximum.
func MapScores(id string, totals questions.QuestionTotal, resp marking.Response) (Result, error) {
	if totals.Total == 0 {
		return Result{}, &ConfigurationError{ID: id, Reason: "total points is 0"}
	}
	reasoning := resp.Feedback
	if reasoning == "" {
		reasoning = noFeedback
	}
	summary := resp.Feedback
	if summary == "" {
		summary = noSummary
	}

	res := Result{
		QuestionType:           id,
		TotalMax:               totals.Total,
		Scores:                 make([]MarkScore, 0, len(totals.Components)),
		Summary:                summary,
		Grade:                  resp.Grade,
		ImprovementSuggestions: resp.ImprovementSuggestions,
		Strengths:              resp.Strengths,
		NextSteps:              resp.NextSteps,
		ShortID:                resp.ShortID,
	}
	for _, c := range totals.Components {
		score, _ := resp.Mark(c.Field)
		weight := c.MaxPoints / totals.Total
		res.Scores = append(res.Scores, MarkScore{
			CriterionID:    c.Name,
			CriterionTitle: CriterionTitle(c.Name),
			Band:           band(totals.Bands, score, c.MaxPoints),
			Score:          score,
			MaxScore:       c.MaxPoints,
			Weight:         weight,
			Reasoning:      reasoning,
		})
		res.Total += score
		res.WeightedScore += score * weight
	}
	return res, nil
}

// CriterionTitle turns a component name into a display title by replacing
// underscores with spaces and upper-casing the first letter of each word.
// It is not acronym aware: "ao1" becomes "Ao1".
func CriterionTitle(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// band picks the highest band reached by score/max. bands are sorted by Min,
// descending.
func band(bands []questions.Band, score, maxScore float64) string {
	if len(bands) == 0 || maxScore <= 0 {
		return ""
	}
	frac := score / maxScore
	for _, b := range bands {
		if frac >= b.Min {
			return b.Label
		}
	}
	return ""
}
