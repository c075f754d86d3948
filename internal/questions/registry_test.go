package questions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_TotalsMatchComponents(t *testing.T) {
	r := Default()
	require.Greater(t, r.Len(), 0)

	for _, qt := range r.List() {
		totals, ok := r.Totals(qt.ID)
		require.True(t, ok, qt.ID)
		assert.Greater(t, totals.Total, 0.0, qt.ID)
		// Every built-in entry is consistent; a mismatch must be a deliberate,
		// documented change to this test.
		assert.Equal(t, totals.Total, totals.ComponentSum(), qt.ID)

		weights := 0.0
		for _, c := range totals.Components {
			weights += c.MaxPoints / totals.Total
		}
		assert.LessOrEqual(t, weights, 1.0+1e-9, qt.ID)
	}
	assert.Empty(t, r.Inconsistencies())
}

func TestDefault_SpotChecks(t *testing.T) {
	r := Default()

	q3, ok := r.Totals("igcse_extended_q3")
	require.True(t, ok)
	assert.Equal(t, 25.0, q3.Total)
	assert.Equal(t, 25.0, q3.ComponentSum())

	narrative, ok := r.Totals("igcse_narrative")
	require.True(t, ok)
	assert.Equal(t, 40.0, narrative.Total)
	require.Len(t, narrative.Components, 2)
	assert.Equal(t, Component{Name: "content_structure", MaxPoints: 16, Field: "content_structure_marks"}, narrative.Components[0])
	assert.Equal(t, Component{Name: "style_accuracy", MaxPoints: 24, Field: "style_accuracy_marks"}, narrative.Components[1])
}

func TestLookups_NotFound(t *testing.T) {
	r := Default()

	_, ok := r.QuestionType("nonexistent_type")
	assert.False(t, ok)
	_, ok = r.Totals("nonexistent_type")
	assert.False(t, ok)
	_, ok = r.MarkingGuide("nonexistent_type")
	assert.False(t, ok)
}

func TestMarkingGuide(t *testing.T) {
	r := Default()

	qt, ok := r.QuestionType("igcse_summary")
	require.True(t, ok)
	assert.True(t, qt.RequiresMarkingScheme)
	guide, ok := r.MarkingGuide("igcse_summary")
	require.True(t, ok)
	assert.Contains(t, guide, "Reading (10)")

	// Registered, but no guide.
	_, ok = r.MarkingGuide("igcse_narrative")
	assert.False(t, ok)
}

func TestTotals_ReturnsCopy(t *testing.T) {
	r := Default()
	a, _ := r.Totals("igcse_narrative")
	a.Components[0].MaxPoints = 99

	b, _ := r.Totals("igcse_narrative")
	assert.Equal(t, 16.0, b.Components[0].MaxPoints)
}

func TestList_SortedByCategoryThenID(t *testing.T) {
	list := Default().List()
	for i := 1; i < len(list); i++ {
		prev, cur := list[i-1], list[i]
		if prev.Category == cur.Category {
			assert.Less(t, prev.ID, cur.ID)
		} else {
			assert.Less(t, prev.Category, cur.Category)
		}
	}
}

func TestParse_BandsSortedDescending(t *testing.T) {
	r, err := Parse([]byte(`
question_types:
  - id: t
    total: 10
    components:
      - { name: a, max: 10 }
    bands:
      - { min: 0.2, label: low }
      - { min: 0.8, label: high }
`))
	require.NoError(t, err)
	totals, _ := r.Totals("t")
	require.Len(t, totals.Bands, 2)
	assert.Equal(t, "high", totals.Bands[0].Label)
}

func TestParse_ExplicitField(t *testing.T) {
	r, err := Parse([]byte(`
question_types:
  - id: t
    total: 10
    components:
      - { name: reading, max: 10, field: reading_score }
`))
	require.NoError(t, err)
	totals, _ := r.Totals("t")
	assert.Equal(t, "reading_score", totals.Components[0].Field)
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"missing id": `
question_types:
  - total: 10
    components: [{ name: a, max: 10 }]`,
		"duplicate id": `
question_types:
  - { id: t, total: 10, components: [{ name: a, max: 10 }] }
  - { id: t, total: 10, components: [{ name: a, max: 10 }] }`,
		"no components": `
question_types:
  - { id: t, total: 10 }`,
		"duplicate field": `
question_types:
  - id: t
    total: 10
    components: [{ name: a, max: 5 }, { name: b, max: 5, field: a_marks }]`,
		"bad field": `
question_types:
  - id: t
    total: 10
    components: [{ name: Content Structure, max: 10 }]`,
		"negative total": `
question_types:
  - { id: t, total: -1, components: [{ name: a, max: 1 }] }`,
		"not yaml": `question_types: [`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestInconsistencies(t *testing.T) {
	r, err := Parse([]byte(`
question_types:
  - { id: zero, total: 0, components: [{ name: a, max: 10 }] }
  - { id: over, total: 10, components: [{ name: a, max: 8 }, { name: b, max: 8 }] }
  - { id: under, total: 20, components: [{ name: a, max: 10 }] }
  - { id: ok, total: 10, components: [{ name: a, max: 10 }] }
`))
	require.NoError(t, err)

	got := r.Inconsistencies()
	require.Len(t, got, 3)
	assert.Contains(t, got[0], "zero")
	assert.Contains(t, got[1], "weights exceed 1")
	assert.Contains(t, got[2], "under")
}
