package usecase

import (
	"fmt"
	"strings"

	"student-assistant/internal/domain/entity"
)

// Per-feature caps on user content embedded in a prompt.
const (
	DiagramBudget    = 2000
	StudyPlanBudget  = 3000
	NotesBudget      = 4000
	CodeReviewBudget = 4000
	ChatBudget       = 2000
)

const truncatedMarker = "...\n(Content truncated for processing)"

// Truncate cuts s to at most limit runes and marks the cut.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + truncatedMarker
}

const jsonOnly = "Return ONLY valid JSON, no additional text or formatting."

func BuildDiagramPrompt(in entity.DiagramInput) string {
	var sb strings.Builder
	sb.WriteString("You are an expert at turning descriptions into Mermaid diagrams.\n")
	fmt.Fprintf(&sb, "Create a Mermaid %s diagram for the following description.\n\n", in.DiagramType)
	sb.WriteString("DESCRIPTION:\n")
	sb.WriteString(Truncate(strings.TrimSpace(in.Prompt), DiagramBudget))
	sb.WriteString("\n\nRespond in JSON format with the following structure:\n")
	sb.WriteString(`{
  "mermaidCode": "valid Mermaid syntax without code fences",
  "title": "short diagram title",
  "description": "one sentence explaining the diagram"
}`)
	sb.WriteString("\n\nRules:\n")
	sb.WriteString("- mermaidCode must parse with Mermaid 10.\n")
	sb.WriteString("- Use short node labels without quotes or brackets inside labels.\n")
	sb.WriteString(jsonOnly)
	return sb.String()
}

type StudyPlanParams struct {
	DaysUntilExam int
	StudyHours    int
	Difficulty    string
}

func (p StudyPlanParams) TotalHours() int {
	return p.DaysUntilExam * p.StudyHours
}

func BuildStudyPlanPrompt(material string, p StudyPlanParams) string {
	var sb strings.Builder
	sb.WriteString("Based on the following study material content and parameters, create a comprehensive study plan:\n\n")
	sb.WriteString("STUDY MATERIAL CONTENT:\n")
	sb.WriteString(Truncate(material, StudyPlanBudget))
	sb.WriteString("\n\nPARAMETERS:\n")
	fmt.Fprintf(&sb, "- Days until exam: %d\n", p.DaysUntilExam)
	fmt.Fprintf(&sb, "- Daily study hours: %d\n", p.StudyHours)
	fmt.Fprintf(&sb, "- Difficulty level: %s\n", p.Difficulty)
	fmt.Fprintf(&sb, "- Total available study hours: %d\n\n", p.TotalHours())
	sb.WriteString("Please generate a detailed study plan in JSON format with the following structure:\n\n")
	sb.WriteString(`{
  "subjects": [
    {
      "name": "Subject Name",
      "hours": number,
      "priority": "High/Medium/Low",
      "topics": ["topic1", "topic2", "topic3"],
      "color": "from-red-500 to-pink-600"
    }
  ],
  "weeklySchedule": [
    {
      "week": number,
      "focus": "Learning/Practice/Revision",
      "dailyHours": number,
      "topics": ["topic1", "topic2", "topic3"],
      "goals": ["goal1", "goal2"]
    }
  ],
  "tips": ["study tip 1", "study tip 2", "study tip 3"],
  "keyTopics": ["important topic 1", "important topic 2", "important topic 3"],
  "revisionSchedule": {
    "finalWeek": ["final week activity 1", "final week activity 2"],
    "lastThreeDays": ["last day activity 1", "last day activity 2"]
  }
}`)
	sb.WriteString("\n\n")
	sb.WriteString(jsonOnly)
	return sb.String()
}

func BuildNotesPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("Please analyze the following text and provide:\n\n")
	sb.WriteString("1. A comprehensive summary (2-3 paragraphs) that captures the main concepts and key points\n")
	sb.WriteString("2. Create 8-12 flashcards with questions and answers based on the most important information\n\n")
	sb.WriteString("Format your response as JSON:\n")
	sb.WriteString(`{
  "summary": "Your detailed summary here...",
  "flashcards": [
    {
      "question": "Question text",
      "answer": "Answer text"
    }
  ]
}`)
	sb.WriteString("\n\n")
	sb.WriteString(jsonOnly)
	sb.WriteString("\n\nText to analyze:\n")
	sb.WriteString(Truncate(text, NotesBudget))
	return sb.String()
}

func BuildCodeReviewPrompt(in entity.CodeReviewInput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a senior %s engineer performing a %s code review.\n", in.Language, in.ReviewType)
	sb.WriteString("Review the code below and score it from 0 to 100.\n\n")
	fmt.Fprintf(&sb, "CODE (%s):\n", in.Language)
	sb.WriteString(Truncate(in.Code, CodeReviewBudget))
	sb.WriteString("\n\nRespond in JSON format with the following structure:\n")
	sb.WriteString(`{
  "overallScore": number,
  "summary": "two sentence verdict",
  "issues": [
    {
      "type": "bug|security|performance|style|maintainability",
      "severity": "high|medium|low",
      "line": number,
      "message": "what is wrong",
      "suggestion": "how to fix it"
    }
  ],
  "suggestions": ["improvement 1", "improvement 2"],
  "positives": ["strength 1", "strength 2"],
  "metrics": {
    "complexity": number,
    "maintainability": number,
    "readability": number,
    "performance": number,
    "security": number,
    "linesOfCode": number
  }
}`)
	sb.WriteString("\n\nAll scores are between 0 and 100.\n")
	sb.WriteString(jsonOnly)
	return sb.String()
}

func BuildRecommendPrompt(in entity.RecommendInput, catalog []entity.Roadmap) string {
	skills := "None specified"
	if len(in.CurrentSkills) > 0 {
		skills = strings.Join(in.CurrentSkills, ", ")
	}
	goals := orDefault(in.Goals, "Not specified")
	experience := orDefault(in.Experience, "Beginner")
	timeAvailable := "Not specified"
	if in.TimeAvailable > 0 {
		timeAvailable = fmt.Sprintf("%g", in.TimeAvailable)
	}

	var sb strings.Builder
	sb.WriteString("Based on the following user profile, recommend the most suitable learning roadmap(s):\n\n")
	fmt.Fprintf(&sb, "CURRENT SKILLS: %s\n", skills)
	fmt.Fprintf(&sb, "CAREER GOALS: %s\n", goals)
	fmt.Fprintf(&sb, "EXPERIENCE LEVEL: %s\n", experience)
	fmt.Fprintf(&sb, "TIME AVAILABLE: %s hours per week\n\n", timeAvailable)
	sb.WriteString("Available roadmaps:\n")
	for _, r := range catalog {
		fmt.Fprintf(&sb, "- %s [%s] (%s, %s)\n", r.Title, r.ID, r.Duration, r.Difficulty)
	}
	sb.WriteString("\nProvide a JSON response with:\n")
	sb.WriteString(`{
  "recommendations": [
    {
      "roadmapId": "string",
      "matchScore": number (0-100),
      "reasoning": "Why this roadmap fits",
      "estimatedCompletion": "time estimate based on available time",
      "prerequisites": ["any missing prerequisites"]
    }
  ],
  "generalAdvice": "General learning advice for this user"
}`)
	sb.WriteString("\n\n")
	sb.WriteString(jsonOnly)
	return sb.String()
}

func BuildChatPrompt(in entity.ChatInput) string {
	var sb strings.Builder
	sb.WriteString("You are an AI Study Assistant. Help students with their learning. Be helpful, clear, and educational.\n")
	if len(in.ConversationHistory) > 0 {
		sb.WriteString("\nConversation so far:\n")
		history := in.ConversationHistory
		if len(history) > 10 {
			history = history[len(history)-10:]
		}
		for _, t := range history {
			role := orDefault(t.Role, "user")
			fmt.Fprintf(&sb, "%s: %s\n", role, Truncate(strings.TrimSpace(t.Content), 500))
		}
	}
	sb.WriteString("\nStudent question: ")
	sb.WriteString(Truncate(strings.TrimSpace(in.Message), ChatBudget))
	return sb.String()
}

const ConnectionTestPrompt = "Say hello and confirm the AI Student Assistant API is working correctly."

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
