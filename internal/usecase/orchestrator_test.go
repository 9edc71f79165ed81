package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-assistant/internal/domain/entity"
	"student-assistant/internal/domain/repository"
)

type stubProvider struct {
	mu      sync.Mutex
	content string
	err     error
	prompts []string
}

func (s *stubProvider) Generate(_ context.Context, prompt string) (*entity.AIResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return nil, s.err
	}
	return &entity.AIResponse{Content: s.content, Model: "stub", TokenCount: 10}, nil
}

func (s *stubProvider) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

type stubLimiter struct {
	allowed bool
	err     error
	mu      sync.Mutex
	used    int
}

func (l *stubLimiter) CheckLimit(context.Context, string) (bool, error) { return l.allowed, l.err }

func (l *stubLimiter) Increment(_ context.Context, _ string, tokens int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.used += tokens
	return nil
}

var fixedNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestOrchestrator(p repository.AIProvider, mod ...func(*Deps)) *Orchestrator {
	d := Deps{
		Provider: p,
		Now:      func() time.Time { return fixedNow },
		Intn:     func(n int) int { return n / 2 },
	}
	for _, m := range mod {
		m(&d)
	}
	return NewOrchestrator(d)
}

func TestGenerateDiagramValidation(t *testing.T) {
	p := &stubProvider{content: `{"mermaidCode":"graph TD\nA-->B"}`}
	u := newTestOrchestrator(p)

	_, err := u.GenerateDiagram(context.Background(), "c1", entity.DiagramInput{Prompt: "   "})
	require.ErrorIs(t, err, entity.ErrInvalidRequest)
	assert.Zero(t, p.calls())
}

func TestGenerateDiagramFromProvider(t *testing.T) {
	p := &stubProvider{content: "```json\n{\"mermaidCode\":\"```mermaid\\nsequenceDiagram\\n  A->>B: hi\\n```\",\"title\":\"Chat\"}\n```"}
	u := newTestOrchestrator(p)

	d, err := u.GenerateDiagram(context.Background(), "c1", entity.DiagramInput{Prompt: "A greets B", DiagramType: "Sequence"})
	require.NoError(t, err)
	assert.Equal(t, "sequenceDiagram\n  A->>B: hi", d.MermaidCode)
	assert.Equal(t, "sequence", d.DiagramType)
	assert.Equal(t, "Chat", d.Title)
	assert.Contains(t, p.prompts[0], "Mermaid sequence diagram")
}

func TestGenerateDiagramFallsBackOnProse(t *testing.T) {
	p := &stubProvider{content: "Sure! First you wake up, then you eat."}
	u := newTestOrchestrator(p)

	d, err := u.GenerateDiagram(context.Background(), "c1", entity.DiagramInput{Prompt: "wake up, eat breakfast, go to class", DiagramType: "unknown"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(d.MermaidCode, "graph TD"))
	assert.Equal(t, "flowchart", d.DiagramType)
	require.NoError(t, Conforms(*d, DiagramSchema))
}

func TestProviderErrorIsSurfaced(t *testing.T) {
	p := &stubProvider{err: errors.New("503 unavailable")}
	u := newTestOrchestrator(p)

	_, _, err := u.ReviewCode(context.Background(), "c1", entity.CodeReviewInput{Code: "x", Language: "go"})
	var pe *entity.ProviderError
	require.ErrorAs(t, err, &pe)
}

func TestEmptyProviderContentIsProviderError(t *testing.T) {
	p := &stubProvider{content: "   "}
	u := newTestOrchestrator(p)

	_, err := u.SummarizeNotes(context.Background(), "c1", entity.NotesInput{Text: "Some notes."})
	var pe *entity.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, entity.ErrEmptyContent)
}

func TestRateLimit(t *testing.T) {
	p := &stubProvider{content: "{}"}
	u := newTestOrchestrator(p, func(d *Deps) { d.Limiter = &stubLimiter{allowed: false} })

	_, err := u.Chat(context.Background(), "c1", entity.ChatInput{Message: "hi"})
	require.ErrorIs(t, err, entity.ErrRateLimitExceeded)
	assert.Zero(t, p.calls())
}

func TestLimiterFailureFailsOpen(t *testing.T) {
	p := &stubProvider{content: `{"summary":"ok","flashcards":[{"question":"q","answer":"a"}]}`}
	lim := &stubLimiter{err: errors.New("redis down")}
	u := newTestOrchestrator(p, func(d *Deps) { d.Limiter = lim })

	res, err := u.SummarizeNotes(context.Background(), "c1", entity.NotesInput{Text: "Notes."})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Summary)
	assert.Eventually(t, func() bool {
		lim.mu.Lock()
		defer lim.mu.Unlock()
		return lim.used == 10
	}, time.Second, 10*time.Millisecond)
}

func TestPlanParams(t *testing.T) {
	u := newTestOrchestrator(&stubProvider{})

	p, err := u.PlanParams("2025-03-11", "3", "MEDIUM")
	require.NoError(t, err)
	assert.Equal(t, StudyPlanParams{DaysUntilExam: 10, StudyHours: 3, Difficulty: "medium"}, p)
	assert.Equal(t, 30, p.TotalHours())

	p, err = u.PlanParams("2025-03-02T09:00:00Z", "2.7", "whatever")
	require.NoError(t, err)
	assert.Equal(t, 1, p.DaysUntilExam)
	assert.Equal(t, 2, p.StudyHours)
	assert.Equal(t, "medium", p.Difficulty)

	for _, tc := range []struct{ date, hours, field string }{
		{"", "3", "examDate"},
		{"next week", "3", "examDate"},
		{"2025-03-01", "3", "examDate"},
		{"2024-12-31", "3", "examDate"},
		{"2025-04-01", "", "studyHours"},
		{"2025-04-01", "0", "studyHours"},
		{"2025-04-01", "25", "studyHours"},
		{"2025-04-01", "lots", "studyHours"},
	} {
		_, err := u.PlanParams(tc.date, tc.hours, "easy")
		var ve *entity.ValidationError
		require.ErrorAs(t, err, &ve, "%+v", tc)
		assert.Equal(t, tc.field, ve.Field)
	}
}

func TestCreateStudyPlanFallbackGetsCalculatedFields(t *testing.T) {
	p := &stubProvider{content: "I could not produce JSON, sorry."}
	u := newTestOrchestrator(p)

	plan, err := u.CreateStudyPlan(context.Background(), "c1", entity.StudyPlanInput{
		Material:   "Chapter 1: Limits. Chapter 2: Derivatives.",
		FileName:   "calc.pdf",
		ExamDate:   "2025-03-11",
		StudyHours: "3",
		Difficulty: "medium",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, 10, plan.DaysUntilExam)
	assert.Equal(t, 30, plan.TotalHours)
	assert.Equal(t, "medium", plan.Difficulty)
	assert.Equal(t, "calc.pdf", plan.FileName)
	assert.Equal(t, fixedNow, plan.CreatedAt)
	require.Len(t, plan.Subjects, 3)
	assert.Len(t, plan.WeeklySchedule, 2)
	assert.Contains(t, p.prompts[0], "Total available study hours: 30")
}

func TestCreateStudyPlanOverridesModelOwnedFields(t *testing.T) {
	p := &stubProvider{content: `{"id":"model-id","totalHours":999,"subjects":[{"name":"Limits","hours":12,"priority":"High","topics":["epsilon"]}],"weeklySchedule":[{"week":1,"focus":"Learning","dailyHours":3,"topics":[],"goals":[]}]}`}
	u := newTestOrchestrator(p)

	plan, err := u.CreateStudyPlan(context.Background(), "c1", entity.StudyPlanInput{
		Material: "Limits.", ExamDate: "2025-03-11", StudyHours: "3",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "model-id", plan.ID)
	assert.Equal(t, 30, plan.TotalHours)
	assert.Equal(t, "Limits", plan.Subjects[0].Name)
	assert.Equal(t, []string{}, plan.Tips)
}

func TestSummarizeNotes(t *testing.T) {
	p := &stubProvider{content: `{"summary":"**Cells** divide.","flashcards":[]}`}
	u := newTestOrchestrator(p)

	res, err := u.SummarizeNotes(context.Background(), "c1", entity.NotesInput{Text: "Cells divide by mitosis. Mitosis has phases.", FromFile: true})
	require.NoError(t, err)
	assert.Equal(t, "<p><strong>Cells</strong> divide.</p>\n", res.SummaryHTML)
	assert.NotEmpty(t, res.Flashcards)
	assert.Equal(t, "Cells divide by mitosis. Mitosis has phases.", res.OriginalText)
}

func TestSummarizeNotesValidation(t *testing.T) {
	p := &stubProvider{content: "{}"}
	u := newTestOrchestrator(p)

	_, err := u.SummarizeNotes(context.Background(), "c1", entity.NotesInput{Text: " "})
	require.ErrorIs(t, err, entity.ErrInvalidRequest)

	_, err = u.SummarizeNotes(context.Background(), "c1", entity.NotesInput{Text: strings.Repeat("a", MaxNotesChars+1)})
	require.ErrorIs(t, err, entity.ErrInvalidRequest)
	assert.Zero(t, p.calls())
}

func TestReviewCodeProseFallsBack(t *testing.T) {
	p := &stubProvider{content: "This code looks fine to me overall."}
	u := newTestOrchestrator(p)

	review, in, err := u.ReviewCode(context.Background(), "c1", entity.CodeReviewInput{Code: "function f(){ return 1 }", Language: "javascript"})
	require.NoError(t, err)
	assert.Equal(t, "comprehensive", in.ReviewType)
	assert.GreaterOrEqual(t, review.OverallScore, 0.0)
	assert.LessOrEqual(t, review.OverallScore, 100.0)
	assert.NotEmpty(t, review.Issues)
	assert.NotEmpty(t, review.Suggestions)
	assert.NotEmpty(t, review.Positives)
}

func TestReviewCodeValidation(t *testing.T) {
	u := newTestOrchestrator(&stubProvider{})
	_, _, err := u.ReviewCode(context.Background(), "c1", entity.CodeReviewInput{Code: "", Language: "go"})
	require.ErrorIs(t, err, entity.ErrInvalidRequest)
	_, _, err = u.ReviewCode(context.Background(), "c1", entity.CodeReviewInput{Code: "x := 1", Language: " "})
	require.ErrorIs(t, err, entity.ErrInvalidRequest)
}

func TestRecommendDropsUnknownRoadmaps(t *testing.T) {
	p := &stubProvider{content: `{"recommendations":[{"roadmapId":"underwater-basket-weaving","matchScore":99},{"roadmapId":"data-science","matchScore":120,"reasoning":"stats"}],"generalAdvice":""}`}
	u := newTestOrchestrator(p)

	recs, err := u.Recommend(context.Background(), "c1", entity.RecommendInput{CurrentSkills: []string{"Python", " "}, Experience: "Intermediate"})
	require.NoError(t, err)
	require.Len(t, recs.Recommendations, 1)
	assert.Equal(t, "data-science", recs.Recommendations[0].RoadmapID)
	assert.Equal(t, 100.0, recs.Recommendations[0].MatchScore)
	assert.NotEmpty(t, recs.GeneralAdvice)
	assert.Contains(t, p.prompts[0], "CURRENT SKILLS: Python\n")
}

type memCache struct {
	mu       sync.Mutex
	hit      *entity.AIResponse
	prompt   string
	filters  map[string]string
	saved    int
	metadata map[string]any
}

func (m *memCache) Search(_ context.Context, _ []float32, _ float32, filters map[string]string) (*entity.AIResponse, float32, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filters = filters
	if m.hit == nil {
		return nil, 0, "", nil
	}
	return m.hit, 0.93, m.prompt, nil
}

func (m *memCache) Save(_ context.Context, _ string, _ *entity.AIResponse, _ []float32, metadata map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved++
	m.metadata = metadata
	return nil
}

type fakeEmbedder struct{}

func (fakeEmbedder) CreateEmbedding(context.Context, string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

type yesMatcher bool

func (y yesMatcher) IsMatch(context.Context, string, string) bool { return bool(y) }

type subjectTagger string

func (s subjectTagger) ExtractMetadata(context.Context, string) map[string]string {
	return map[string]string{"subject": string(s)}
}

func TestChatServesConfirmedCacheHit(t *testing.T) {
	p := &stubProvider{content: "fresh"}
	cache := &memCache{hit: &entity.AIResponse{Content: "cached *answer*"}, prompt: "what is a derivative"}
	u := newTestOrchestrator(p, func(d *Deps) {
		d.Cache, d.Embedder, d.Matcher, d.Tagger = cache, fakeEmbedder{}, yesMatcher(true), subjectTagger("mathematics")
	})

	reply, err := u.Chat(context.Background(), "c1", entity.ChatInput{Message: "What's a derivative?", SessionID: "s1"})
	require.NoError(t, err)
	assert.True(t, reply.Cached)
	assert.Equal(t, "cached *answer*", reply.Response)
	assert.Contains(t, reply.ResponseHTML, "<em>answer</em>")
	assert.Equal(t, "s1", reply.SessionID)
	assert.Equal(t, map[string]string{"subject": "mathematics"}, cache.filters)
	assert.Zero(t, p.calls())
}

func TestChatRejectedHitCallsProviderAndSaves(t *testing.T) {
	p := &stubProvider{content: "fresh"}
	cache := &memCache{hit: &entity.AIResponse{Content: "stale"}, prompt: "something else"}
	u := newTestOrchestrator(p, func(d *Deps) {
		d.Cache, d.Embedder, d.Matcher, d.Tagger = cache, fakeEmbedder{}, yesMatcher(false), subjectTagger("physics")
	})

	reply, err := u.Chat(context.Background(), "c1", entity.ChatInput{Message: "Explain inertia"})
	require.NoError(t, err)
	assert.False(t, reply.Cached)
	assert.Equal(t, "fresh", reply.Response)
	assert.Eventually(t, func() bool {
		cache.mu.Lock()
		defer cache.mu.Unlock()
		return cache.saved == 1 && cache.metadata["subject"] == "physics"
	}, time.Second, 10*time.Millisecond)
}

func TestChatWithHistorySkipsCache(t *testing.T) {
	p := &stubProvider{content: "answer"}
	cache := &memCache{hit: &entity.AIResponse{Content: "cached"}}
	u := newTestOrchestrator(p, func(d *Deps) {
		d.Cache, d.Embedder, d.Matcher = cache, fakeEmbedder{}, yesMatcher(true)
	})

	reply, err := u.Chat(context.Background(), "c1", entity.ChatInput{
		Message:             "and then?",
		ConversationHistory: []entity.ChatTurn{{Role: "user", Content: "tell me about cells"}},
	})
	require.NoError(t, err)
	assert.False(t, reply.Cached)
	assert.Equal(t, 1, p.calls())
	assert.Contains(t, p.prompts[0], "user: tell me about cells")
}

func TestChatRequiresMessage(t *testing.T) {
	u := newTestOrchestrator(&stubProvider{})
	_, err := u.Chat(context.Background(), "c1", entity.ChatInput{Message: "\n"})
	require.ErrorIs(t, err, entity.ErrInvalidRequest)
}

func TestTestConnection(t *testing.T) {
	p := &stubProvider{content: " Hello! "}
	u := newTestOrchestrator(p)
	text, err := u.TestConnection(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Hello!", text)
	assert.Equal(t, ConnectionTestPrompt, p.prompts[0])
}
