package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"student-assistant/internal/domain/entity"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "héllo"+truncatedMarker, Truncate("héllo wörld", 5))
}

func TestPromptsAreDeterministicAndBounded(t *testing.T) {
	huge := strings.Repeat("~", 10000)
	cases := map[string]func() string{
		"diagram": func() string { return BuildDiagramPrompt(entity.DiagramInput{Prompt: huge, DiagramType: "flowchart"}) },
		"plan": func() string {
			return BuildStudyPlanPrompt(huge, StudyPlanParams{DaysUntilExam: 5, StudyHours: 2, Difficulty: "easy"})
		},
		"notes":  func() string { return BuildNotesPrompt(huge) },
		"review": func() string { return BuildCodeReviewPrompt(entity.CodeReviewInput{Code: huge, Language: "go", ReviewType: "style"}) },
		"chat":   func() string { return BuildChatPrompt(entity.ChatInput{Message: huge}) },
	}
	budgets := map[string]int{"diagram": DiagramBudget, "plan": StudyPlanBudget, "notes": NotesBudget, "review": CodeReviewBudget, "chat": ChatBudget}

	for name, build := range cases {
		p := build()
		assert.Equal(t, p, build(), name)
		assert.Contains(t, p, truncatedMarker, name)
		assert.Equal(t, budgets[name], strings.Count(p, "~"), name)
	}
}

func TestStructuredPromptsDemandJSON(t *testing.T) {
	for _, p := range []string{
		BuildDiagramPrompt(entity.DiagramInput{Prompt: "a", DiagramType: "flowchart"}),
		BuildStudyPlanPrompt("m", StudyPlanParams{DaysUntilExam: 1, StudyHours: 1, Difficulty: "hard"}),
		BuildNotesPrompt("n"),
		BuildCodeReviewPrompt(entity.CodeReviewInput{Code: "c", Language: "go"}),
		BuildRecommendPrompt(entity.RecommendInput{}, Roadmaps()),
	} {
		assert.Contains(t, p, jsonOnly)
	}
}

func TestBuildRecommendPromptDefaults(t *testing.T) {
	p := BuildRecommendPrompt(entity.RecommendInput{}, Roadmaps())
	assert.Contains(t, p, "CURRENT SKILLS: None specified")
	assert.Contains(t, p, "EXPERIENCE LEVEL: Beginner")
	assert.Contains(t, p, "TIME AVAILABLE: Not specified hours per week")
	assert.Contains(t, p, "- Frontend Developer [frontend] (4-6 months, Beginner)")
}

func TestBuildChatPromptKeepsRecentHistory(t *testing.T) {
	var history []entity.ChatTurn
	for i := 0; i < 15; i++ {
		history = append(history, entity.ChatTurn{Role: "user", Content: strings.Repeat("q", i+1)})
	}
	p := BuildChatPrompt(entity.ChatInput{Message: "next", ConversationHistory: history})
	assert.NotContains(t, p, "user: qqqqq\n")
	assert.Contains(t, p, "user: "+strings.Repeat("q", 6)+"\n")
	assert.True(t, strings.HasSuffix(p, "Student question: next"))
}
