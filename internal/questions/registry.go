// Package questions holds the static question-type table: display metadata,
// point totals, per-component maxima and marking guides.
package questions

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var builtin []byte

// QuestionType is the display metadata of one exam-style task.
type QuestionType struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	Category              string `json:"category"`
	RequiresMarkingScheme bool   `json:"requires_marking_scheme"`
	Description           string `json:"description,omitempty"`
}

// Component is a named sub-criterion of a question type's total.
type Component struct {
	Name      string  `json:"name"`
	MaxPoints float64 `json:"max_points"`
	// Field is the marking response field the score is read from.
	Field string `json:"field"`
}

// Band maps a score fraction (score/max) to a level label.
type Band struct {
	Min   float64 `json:"min"`
	Label string  `json:"label"`
}

// QuestionTotal is the scoring table of a question type. Total is the
// denominator used for weighting, even when it differs from the sum of
// component maxima.
type QuestionTotal struct {
	Total      float64     `json:"total"`
	Components []Component `json:"components"`
	Bands      []Band      `json:"bands,omitempty"`
}

// ComponentSum is the sum of component maxima.
func (t QuestionTotal) ComponentSum() float64 {
	sum := 0.0
	for _, c := range t.Components {
		sum += c.MaxPoints
	}
	return sum
}

type entry struct {
	qt     QuestionType
	totals QuestionTotal
	guide  string
}

// Registry is an immutable lookup table keyed by question-type id.
// It is safe for concurrent use.
type Registry struct {
	byID  map[string]entry
	order []string
}

// document is the on-disk (YAML) shape of the table.
type document struct {
	QuestionTypes []struct {
		ID                    string  `yaml:"id"`
		Name                  string  `yaml:"name"`
		Category              string  `yaml:"category"`
		RequiresMarkingScheme bool    `yaml:"requires_marking_scheme"`
		Description           string  `yaml:"description"`
		Total                 float64 `yaml:"total"`
		Components            []struct {
			Name  string  `yaml:"name"`
			Max   float64 `yaml:"max"`
			Field string  `yaml:"field"`
		} `yaml:"components"`
		MarkingGuide string `yaml:"marking_guide"`
		Bands        []struct {
			Min   float64 `yaml:"min"`
			Label string  `yaml:"label"`
		} `yaml:"bands"`
	} `yaml:"question_types"`
}

var fieldPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Default returns the built-in table. It panics if the embedded document is
// invalid, which can only happen with a broken build.
func Default() *Registry {
	r, err := Parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("questions: built-in table: %v", err))
	}
	return r
}

// Load returns the built-in table, or the table stored at path when path is
// not empty.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Parse(builtin)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question types: %w", err)
	}
	return Parse(b)
}

// Parse decodes a YAML question-type document and validates it.
func Parse(b []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode question types: %w", err)
	}
	r := &Registry{byID: make(map[string]entry, len(doc.QuestionTypes))}
	for _, d := range doc.QuestionTypes {
		e := entry{
			qt: QuestionType{
				ID:                    strings.TrimSpace(d.ID),
				Name:                  d.Name,
				Category:              d.Category,
				RequiresMarkingScheme: d.RequiresMarkingScheme,
				Description:           d.Description,
			},
			totals: QuestionTotal{Total: d.Total},
			guide:  strings.TrimSpace(d.MarkingGuide),
		}
		for _, c := range d.Components {
			field := c.Field
			if field == "" {
				field = c.Name + "_marks"
			}
			e.totals.Components = append(e.totals.Components, Component{Name: c.Name, MaxPoints: c.Max, Field: field})
		}
		for _, bd := range d.Bands {
			e.totals.Bands = append(e.totals.Bands, Band{Min: bd.Min, Label: bd.Label})
		}
		sort.SliceStable(e.totals.Bands, func(i, j int) bool { return e.totals.Bands[i].Min > e.totals.Bands[j].Min })

		if e.qt.ID == "" {
			return nil, errors.New("question type id is required")
		}
		if _, dup := r.byID[e.qt.ID]; dup {
			return nil, fmt.Errorf("duplicate question type id: %s", e.qt.ID)
		}
		r.byID[e.qt.ID] = e
		r.order = append(r.order, e.qt.ID)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks that every component resolves to a usable, unique
// response field. A zero total is left to the evaluator, which refuses to
// mark such a question type.
func (r *Registry) Validate() error {
	for _, id := range r.order {
		e := r.byID[id]
		if len(e.totals.Components) == 0 {
			return fmt.Errorf("%s: at least one component is required", id)
		}
		seen := map[string]bool{}
		for _, c := range e.totals.Components {
			if c.Name == "" {
				return fmt.Errorf("%s: component name is required", id)
			}
			if !fieldPattern.MatchString(c.Field) {
				return fmt.Errorf("%s: invalid response field %q for component %s", id, c.Field, c.Name)
			}
			if seen[c.Field] {
				return fmt.Errorf("%s: duplicate response field %q", id, c.Field)
			}
			seen[c.Field] = true
			if c.MaxPoints < 0 {
				return fmt.Errorf("%s: negative max points for component %s", id, c.Name)
			}
		}
		if e.totals.Total < 0 {
			return fmt.Errorf("%s: negative total", id)
		}
	}
	return nil
}

// Inconsistencies lists entries that load fine but deserve a warning.
func (r *Registry) Inconsistencies() []string {
	var out []string
	for _, id := range r.order {
		t := r.byID[id].totals
		sum := t.ComponentSum()
		switch {
		case t.Total == 0:
			out = append(out, fmt.Sprintf("%s: total is 0, evaluations will be refused", id))
		case sum > t.Total:
			out = append(out, fmt.Sprintf("%s: components sum to %g, above total %g (weights exceed 1)", id, sum, t.Total))
		case sum != t.Total:
			out = append(out, fmt.Sprintf("%s: components sum to %g, total is %g", id, sum, t.Total))
		}
	}
	return out
}

// QuestionType looks up the metadata of id.
func (r *Registry) QuestionType(id string) (QuestionType, bool) {
	e, ok := r.byID[id]
	return e.qt, ok
}

// Totals looks up the scoring table of id. The returned slices are copies.
func (r *Registry) Totals(id string) (QuestionTotal, bool) {
	e, ok := r.byID[id]
	if !ok {
		return QuestionTotal{}, false
	}
	t := e.totals
	t.Components = append([]Component(nil), t.Components...)
	t.Bands = append([]Band(nil), t.Bands...)
	return t, true
}

// MarkingGuide looks up the rubric text of id. Question types without a
// guide report false.
func (r *Registry) MarkingGuide(id string) (string, bool) {
	e, ok := r.byID[id]
	if !ok || e.guide == "" {
		return "", false
	}
	return e.guide, true
}

// List returns every question type sorted by category, then id.
func (r *Registry) List() []QuestionType {
	out := make([]QuestionType, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].qt)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len reports the number of question types.
func (r *Registry) Len() int { return len(r.order) }
