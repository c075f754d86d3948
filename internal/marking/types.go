package marking

import (
	"encoding/json"
	"strings"
)

// Request is the wire body of POST /api/public/evaluate. Nil optional fields
// are sent as null so the service can tell "not provided" from "empty".
type Request struct {
	QuestionType    string  `json:"question_type"`
	StudentResponse string  `json:"student_response"`
	MarkingScheme   *string `json:"marking_scheme"`
	CommandWord     *string `json:"command_word"`
	TextType        *string `json:"text_type"`
	InsertDocument  *string `json:"insert_document"`
	UserID          *string `json:"user_id"`
}

// Optional returns nil for an empty string and a pointer to s otherwise.
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Response is the marking service result. Component scores usually arrive in
// fields named "<component>_marks"; numeric ones are collected in Marks. Any
// other numeric top-level field is still reachable through Mark.
type Response struct {
	Feedback               string
	Grade                  string
	Marks                  map[string]float64
	ImprovementSuggestions []string
	Strengths              []string
	NextSteps              []string
	ShortID                string

	// Raw keeps every top-level field as received.
	Raw map[string]json.RawMessage
}

const marksSuffix = "_marks"

func (r *Response) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := Response{Raw: raw, Marks: map[string]float64{}}
	for k, v := range raw {
		switch {
		case k == "feedback":
			out.Feedback = stringOf(v)
		case k == "grade":
			out.Grade = stringOf(v)
		case k == "short_id":
			out.ShortID = stringOf(v)
		case k == "improvement_suggestions":
			out.ImprovementSuggestions = stringsOf(v)
		case k == "strengths":
			out.Strengths = stringsOf(v)
		case k == "next_steps":
			out.NextSteps = stringsOf(v)
		case strings.HasSuffix(k, marksSuffix):
			if n, ok := numberOf(v); ok {
				out.Marks[k] = n
			}
		}
	}
	*r = out
	return nil
}

func (r Response) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Marks)+7)
	for k, v := range r.Marks {
		m[k] = v
	}
	m["feedback"] = r.Feedback
	m["grade"] = r.Grade
	if r.ShortID != "" {
		m["short_id"] = r.ShortID
	}
	if r.ImprovementSuggestions != nil {
		m["improvement_suggestions"] = r.ImprovementSuggestions
	}
	if r.Strengths != nil {
		m["strengths"] = r.Strengths
	}
	if r.NextSteps != nil {
		m["next_steps"] = r.NextSteps
	}
	return json.Marshal(m)
}

// Mark returns the numeric value of field, if the service sent one. Null and
// non-numeric values count as absent.
func (r Response) Mark(field string) (float64, bool) {
	if v, ok := r.Marks[field]; ok {
		return v, true
	}
	if v, ok := r.Raw[field]; ok {
		return numberOf(v)
	}
	return 0, false
}

func numberOf(v json.RawMessage) (float64, bool) {
	var n float64
	if string(v) == "null" || json.Unmarshal(v, &n) != nil {
		return 0, false
	}
	return n, true
}

// stringOf tolerates non-string values; the service is loosely typed.
func stringOf(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

func stringsOf(v json.RawMessage) []string {
	var out []string
	if err := json.Unmarshal(v, &out); err != nil {
		return nil
	}
	return out
}
