package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/examprep/internal/marking"
	"github.com/mind-engage/examprep/internal/questions"
)

type fakeClient struct {
	calls int
	last  marking.Request
	resp  marking.Response
	err   error
}

func (f *fakeClient) Evaluate(_ context.Context, req marking.Request) (marking.Response, error) {
	f.calls++
	f.last = req
	return f.resp, f.err
}

func decode(t *testing.T, body string) marking.Response {
	t.Helper()
	var r marking.Response
	require.NoError(t, json.Unmarshal([]byte(body), &r))
	return r
}

func TestEvaluate_AllFieldsPresent(t *testing.T) {
	fc := &fakeClient{resp: decode(t, `{"feedback":"Strong opening.","grade":"A","content_structure_marks":13,"style_accuracy_marks":19}`)}
	svc := New(questions.Default(), fc)

	res, err := svc.Evaluate(context.Background(), Input{QuestionType: "igcse_narrative", Essay: "..."})
	require.NoError(t, err)

	assert.Equal(t, 32.0, res.Total)
	assert.Equal(t, 40.0, res.TotalMax)
	assert.InDelta(t, 16.6, res.WeightedScore, 1e-9)
	assert.Equal(t, "Strong opening.", res.Summary)
	assert.Equal(t, "A", res.Grade)
	require.Len(t, res.Scores, 2)
	assert.Equal(t, MarkScore{
		CriterionID:    "content_structure",
		CriterionTitle: "Content Structure",
		Band:           "Level 5",
		Score:          13,
		MaxScore:       16,
		Weight:         0.4,
		Reasoning:      "Strong opening.",
	}, res.Scores[0])
	assert.Equal(t, "style_accuracy", res.Scores[1].CriterionID)
	assert.Equal(t, 0.6, res.Scores[1].Weight)
}

func TestEvaluate_MissingFieldScoresZero(t *testing.T) {
	fc := &fakeClient{resp: decode(t, `{"feedback":"","style_accuracy_marks":20}`)}
	res, err := New(questions.Default(), fc).Evaluate(context.Background(), Input{QuestionType: "igcse_narrative", Essay: "..."})
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.Scores[0].Score)
	assert.Equal(t, 20.0, res.Total)
	assert.Equal(t, 12.0, res.WeightedScore)
	assert.Equal(t, noFeedback, res.Scores[0].Reasoning)
	assert.Equal(t, noSummary, res.Summary)
}

func TestEvaluate_NonNumericFieldScoresZero(t *testing.T) {
	fc := &fakeClient{resp: decode(t, `{"content_structure_marks":"twelve","style_accuracy_marks":null}`)}
	res, err := New(questions.Default(), fc).Evaluate(context.Background(), Input{QuestionType: "igcse_narrative"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Total)
	assert.Equal(t, 0.0, res.WeightedScore)
}

func TestEvaluate_UnknownTypeMakesNoNetworkCall(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	svc := New(questions.Default(), marking.New(marking.Config{BaseURL: srv.URL}))
	_, err := svc.Evaluate(context.Background(), Input{QuestionType: "nonexistent_type", Essay: "x"})

	var unknown *UnknownQuestionTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nonexistent_type", unknown.ID)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestEvaluate_ZeroTotalIsConfigurationError(t *testing.T) {
	reg, err := questions.Parse([]byte(`
question_types:
  - { id: broken, total: 0, components: [{ name: a, max: 10 }] }
`))
	require.NoError(t, err)

	fc := &fakeClient{}
	_, err = New(reg, fc).Evaluate(context.Background(), Input{QuestionType: "broken"})
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, 0, fc.calls)
}

func TestEvaluate_RemoteErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := New(questions.Default(), marking.New(marking.Config{BaseURL: srv.URL}))
	res, err := svc.Evaluate(context.Background(), Input{QuestionType: "gp_essay", Essay: "x"})

	var remote *marking.RemoteEvaluationError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, 500, remote.StatusCode)
	assert.Contains(t, remote.Body, "internal error")
	assert.Empty(t, res.Scores)
}

func TestEvaluate_ClientErrorReturnedUnchanged(t *testing.T) {
	want := &marking.TransportError{Err: errors.New("dial tcp: refused")}
	fc := &fakeClient{err: want}
	_, err := New(questions.Default(), fc).Evaluate(context.Background(), Input{QuestionType: "gp_essay"})
	assert.Same(t, want, err)
}

func TestEvaluate_MarkingSchemeAttachment(t *testing.T) {
	reg := questions.Default()

	fc := &fakeClient{}
	_, err := New(reg, fc).Evaluate(context.Background(), Input{QuestionType: "igcse_summary", Essay: "x", UserID: "u1"})
	require.NoError(t, err)
	guide, _ := reg.MarkingGuide("igcse_summary")
	require.NotNil(t, fc.last.MarkingScheme)
	assert.Equal(t, guide, *fc.last.MarkingScheme)
	require.NotNil(t, fc.last.UserID)
	assert.Equal(t, "u1", *fc.last.UserID)
	assert.Nil(t, fc.last.CommandWord)

	_, err = New(reg, fc).Evaluate(context.Background(), Input{QuestionType: "igcse_narrative", Essay: "x", TextType: marking.Optional("story")})
	require.NoError(t, err)
	assert.Nil(t, fc.last.MarkingScheme)
	require.NotNil(t, fc.last.TextType)
	assert.Equal(t, "story", *fc.last.TextType)
}

func TestEvaluate_EmptyOptionalIsNotAbsent(t *testing.T) {
	fc := &fakeClient{}
	empty := ""
	_, err := New(questions.Default(), fc).Evaluate(context.Background(),
		Input{QuestionType: "alevel_directed", Essay: "x", CommandWord: &empty})
	require.NoError(t, err)
	require.NotNil(t, fc.last.CommandWord)
	assert.Equal(t, "", *fc.last.CommandWord)
	assert.Nil(t, fc.last.TextType)
	assert.Nil(t, fc.last.UserID)
}

func TestEvaluate_RequiredSchemeWithoutGuideSendsNull(t *testing.T) {
	reg, err := questions.Parse([]byte(`
question_types:
  - { id: t, requires_marking_scheme: true, total: 10, components: [{ name: a, max: 10 }] }
`))
	require.NoError(t, err)
	fc := &fakeClient{}
	_, err = New(reg, fc).Evaluate(context.Background(), Input{QuestionType: "t"})
	require.NoError(t, err)
	assert.Nil(t, fc.last.MarkingScheme)
}

func TestMapScores_Idempotent(t *testing.T) {
	totals, _ := questions.Default().Totals("gp_essay")
	resp := decode(t, `{"feedback":"fine","ao1_marks":7,"ao2_marks":6.5,"ao3_marks":8}`)

	a, err := MapScores("gp_essay", totals, resp)
	require.NoError(t, err)
	b, err := MapScores("gp_essay", totals, resp)
	require.NoError(t, err)

	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	assert.Equal(t, string(ja), string(jb))
	assert.Equal(t, 21.5, a.Total)
}

func TestMapScores_WeightsAreMaxOverTotal(t *testing.T) {
	reg := questions.Default()
	for _, qt := range reg.List() {
		totals, _ := reg.Totals(qt.ID)
		res, err := MapScores(qt.ID, totals, marking.Response{})
		require.NoError(t, err)
		sum := 0.0
		for i, s := range res.Scores {
			assert.Equal(t, totals.Components[i].MaxPoints/totals.Total, s.Weight)
			sum += s.Weight
		}
		assert.InDelta(t, totals.ComponentSum()/totals.Total, sum, 1e-9)
	}
}

func TestMapScores_NoClamping(t *testing.T) {
	totals, _ := questions.Default().Totals("alevel_directed")
	res, err := MapScores("alevel_directed", totals, decode(t, `{"ao2_marks":12}`))
	require.NoError(t, err)
	assert.Equal(t, 12.0, res.Total)
	assert.InDelta(t, 120.0, res.Percentage(), 1e-9)
}

func TestMapScores_ExplicitFieldIsRead(t *testing.T) {
	reg, err := questions.Parse([]byte(`
question_types:
  - id: custom
    name: Custom
    category: test
    total: 15
    components:
      - {name: reading, max: 10, field: reading_score}
      - {name: writing, max: 5, field: writing_points}
`))
	require.NoError(t, err)
	totals, _ := reg.Totals("custom")

	res, err := MapScores("custom", totals, decode(t, `{"feedback":"x","reading_score":7,"writing_points":null,"reading_marks":2}`))
	require.NoError(t, err)
	require.Len(t, res.Scores, 2)
	assert.Equal(t, 7.0, res.Scores[0].Score)
	assert.Equal(t, 0.0, res.Scores[1].Score)
	assert.Equal(t, 7.0, res.Total)

	res, err = MapScores("custom", totals, decode(t, `{"reading_score":"seven"}`))
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Total)
}

func TestCriterionTitle(t *testing.T) {
	tests := map[string]string{
		"content_structure": "Content Structure",
		"ao1":               "Ao1",
		"reading":           "Reading",
		"style__accuracy":   "Style  Accuracy",
		"":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, CriterionTitle(in), in)
	}
}

func TestBand(t *testing.T) {
	bands := []questions.Band{{Min: 0.8, Label: "high"}, {Min: 0.4, Label: "mid"}}
	assert.Equal(t, "high", band(bands, 8, 10))
	assert.Equal(t, "mid", band(bands, 5, 10))
	assert.Equal(t, "", band(bands, 1, 10))
	assert.Equal(t, "", band(bands, 1, 0))
	assert.Equal(t, "", band(nil, 10, 10))
}
