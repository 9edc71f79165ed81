package usecase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-assistant/internal/domain/entity"
)

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}```":       `{"a":1}`,
		"json\n{\"a\":1}":         `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
		"```mermaid\ngraph TD\n  A-->B\n```": "graph TD\n  A-->B",
		"sequenceDiagram\n  A->>B: hi":       "sequenceDiagram\n  A->>B: hi",
	}
	for in, want := range cases {
		assert.Equal(t, want, StripFences(in), "input %q", in)
	}
}

func TestNormalizeFencedJSONForEveryFeature(t *testing.T) {
	n := NewNormalizer(nil)

	d, err := Normalize(n, "```json\n{\"mermaidCode\":\"graph TD\\n  A-->B\",\"title\":\"Flow\"}\n```", DiagramSchema)
	require.NoError(t, err)
	assert.Equal(t, "graph TD\n  A-->B", d.MermaidCode)
	assert.Equal(t, "Flow", d.Title)

	p, err := Normalize(n, "json\n{\"subjects\":[{\"name\":\"Algebra\",\"hours\":5,\"priority\":\"High\",\"topics\":[\"x\"]}],\"weeklySchedule\":[]}", StudyPlanSchema)
	require.NoError(t, err)
	require.Len(t, p.Subjects, 1)
	assert.Equal(t, 5.0, p.Subjects[0].Hours)
	assert.NotNil(t, p.WeeklySchedule)
	assert.NotNil(t, p.Tips)
	assert.NotNil(t, p.RevisionSchedule.FinalWeek)

	notes, err := Normalize(n, "Here you go:\n```json\n{\"summary\":\"Cells divide.\",\"flashcards\":[{\"question\":\"Q\",\"answer\":\"A\"}]}\n```\nGood luck!", NotesSchema)
	require.NoError(t, err)
	assert.Equal(t, "Cells divide.", notes.Summary)
	assert.Len(t, notes.Flashcards, 1)

	review, err := Normalize(n, "```\n{\"overallScore\":140,\"issues\":[],\"suggestions\":[\"s\"],\"positives\":[\"p\"],\"metrics\":{\"readability\":-3}}\n```", CodeReviewSchema)
	require.NoError(t, err)
	assert.Equal(t, 100.0, review.OverallScore)
	assert.Equal(t, 0.0, review.Metrics.Readability)
	assert.NotNil(t, review.Issues)
}

func TestNormalizeFailureKinds(t *testing.T) {
	n := NewNormalizer(nil)
	cases := []struct {
		name string
		raw  string
		kind FailureKind
	}{
		{"empty", "", NoJSONFound},
		{"prose", "I cannot help with that.", NoJSONFound},
		{"reversed braces", "} oops {", NoJSONFound},
		{"invalid between braces", "{ subjects: [ }", MalformedJSON},
		{"stray brace in trailing prose", `{"subjects":[],"weeklySchedule":[]} see {note}`, MalformedJSON},
		{"missing key", `{"subjects":[]}`, SchemaMismatch},
		{"wrong container", `{"subjects":{},"weeklySchedule":[]}`, SchemaMismatch},
		{"wrong scalar type", `{"subjects":[{"name":"A","hours":"five"}],"weeklySchedule":[]}`, SchemaMismatch},
		{"array wrapper keeps inner object", `[{"subjects":[]}]`, SchemaMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(n, tc.raw, StudyPlanSchema)
			require.Error(t, err)
			assert.Equal(t, tc.kind, FailureKindOf(err))
		})
	}
}

func TestNormalizeDiagramRejectsBlankCode(t *testing.T) {
	n := NewNormalizer(nil)
	_, err := Normalize(n, `{"mermaidCode":"   "}`, DiagramSchema)
	assert.Equal(t, SchemaMismatch, FailureKindOf(err))

	_, err = Normalize(n, "{\"mermaidCode\":\"```mermaid\\n```\"}", DiagramSchema)
	assert.Equal(t, SchemaMismatch, FailureKindOf(err))
}

func TestNormalizeDropsServerOwnedAndMistypedOptionalKeys(t *testing.T) {
	raw := `{"id":"from-model","totalHours":"lots","subjects":[],"weeklySchedule":[],"tips":"study hard","revisionSchedule":[]}`
	p, err := Normalize(NewNormalizer(nil), raw, StudyPlanSchema)
	require.NoError(t, err)
	assert.Empty(t, p.ID)
	assert.Zero(t, p.TotalHours)
	assert.Equal(t, []string{}, p.Tips)
	assert.Equal(t, []string{}, p.RevisionSchedule.LastThreeDays)
}

func TestNormalizeNotesDropsBlankCards(t *testing.T) {
	raw := `{"summary":"S","flashcards":[{"question":"Q1","answer":"A1"},{"question":" ","answer":"A2"},{"question":"Q3"}]}`
	res, err := Normalize(NewNormalizer(nil), raw, NotesSchema)
	require.NoError(t, err)
	assert.Equal(t, []entity.Flashcard{{Question: "Q1", Answer: "A1"}}, res.Flashcards)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := NewNormalizer(nil)
	raw := "```json\n{\"overallScore\":72.5,\"summary\":\" ok \",\"issues\":[{\"type\":\"bug\",\"severity\":\"low\",\"message\":\"m\"}],\"suggestions\":[],\"positives\":[\"p\"],\"metrics\":{\"complexity\":50,\"linesOfCode\":3}}\n```"
	first, err := Normalize(n, raw, CodeReviewSchema)
	require.NoError(t, err)

	data, err := json.Marshal(first)
	require.NoError(t, err)
	second, err := Normalize(n, string(data), CodeReviewSchema)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	again, err := Normalize(n, raw, CodeReviewSchema)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

type fixedExtractor struct{ payload string }

func (f fixedExtractor) Extract(string) (string, error) { return f.payload, nil }

func TestNormalizerUsesInjectedExtractor(t *testing.T) {
	n := NewNormalizer(fixedExtractor{payload: `{"mermaidCode":"graph LR\n A-->B"}`})
	d, err := Normalize(n, "anything at all", DiagramSchema)
	require.NoError(t, err)
	assert.Equal(t, "graph LR\n A-->B", d.MermaidCode)
}

func TestNormalizeOrFallback(t *testing.T) {
	n := NewNormalizer(nil)
	calls := 0
	fb := func() entity.NotesResult {
		calls++
		return entity.NotesResult{Summary: "fallback", Flashcards: []entity.Flashcard{{Question: "q", Answer: "a"}}}
	}

	out := NormalizeOrFallback(n, `{"summary":"real","flashcards":[]}`, NotesSchema, fb)
	assert.False(t, out.Fallback)
	assert.Equal(t, "real", out.Value.Summary)
	assert.Zero(t, calls)

	out = NormalizeOrFallback(n, "the model rambled", NotesSchema, fb)
	assert.True(t, out.Fallback)
	assert.Equal(t, NoJSONFound, FailureKindOf(out.Cause))
	assert.Equal(t, "fallback", out.Value.Summary)
	assert.Equal(t, 1, calls)
}
