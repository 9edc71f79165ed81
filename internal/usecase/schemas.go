package usecase

import (
	"errors"
	"strings"

	"student-assistant/internal/domain/entity"
)

var DiagramSchema = Schema[entity.Diagram]{
	Name: "diagram",
	Fields: []Field{
		{Key: "mermaidCode", Kind: KindString, NonBlank: true},
		{Key: "title", Kind: KindString, Optional: true},
		{Key: "description", Kind: KindString, Optional: true},
	},
	Ignore: []string{"diagramType"},
	Repair: func(d *entity.Diagram) {
		d.MermaidCode = StripFences(d.MermaidCode)
		d.Title = strings.TrimSpace(d.Title)
		d.Description = strings.TrimSpace(d.Description)
	},
	Validate: func(d *entity.Diagram) error {
		if d.MermaidCode == "" {
			return errors.New("mermaidCode is empty once fences are removed")
		}
		return nil
	},
}

var StudyPlanSchema = Schema[entity.StudyPlan]{
	Name: "study plan",
	Fields: []Field{
		{Key: "subjects", Kind: KindArray},
		{Key: "weeklySchedule", Kind: KindArray},
		{Key: "tips", Kind: KindArray, Optional: true},
		{Key: "keyTopics", Kind: KindArray, Optional: true},
		{Key: "revisionSchedule", Kind: KindObject, Optional: true},
	},
	Ignore: []string{"id", "examDate", "daysUntilExam", "totalHours", "difficulty", "fileName", "createdAt"},
	Repair: repairStudyPlan,
}

func repairStudyPlan(p *entity.StudyPlan) {
	p.Subjects = orEmpty(p.Subjects)
	for i := range p.Subjects {
		p.Subjects[i].Topics = orEmpty(p.Subjects[i].Topics)
	}
	p.WeeklySchedule = orEmpty(p.WeeklySchedule)
	for i := range p.WeeklySchedule {
		p.WeeklySchedule[i].Topics = orEmpty(p.WeeklySchedule[i].Topics)
		p.WeeklySchedule[i].Goals = orEmpty(p.WeeklySchedule[i].Goals)
	}
	p.Tips = orEmpty(p.Tips)
	p.KeyTopics = orEmpty(p.KeyTopics)
	p.RevisionSchedule.FinalWeek = orEmpty(p.RevisionSchedule.FinalWeek)
	p.RevisionSchedule.LastThreeDays = orEmpty(p.RevisionSchedule.LastThreeDays)
}

var NotesSchema = Schema[entity.NotesResult]{
	Name: "notes",
	Fields: []Field{
		{Key: "summary", Kind: KindString, NonBlank: true},
		{Key: "flashcards", Kind: KindArray},
	},
	Ignore: []string{"summaryHtml"},
	Repair: func(n *entity.NotesResult) {
		n.Summary = strings.TrimSpace(n.Summary)
		cards := make([]entity.Flashcard, 0, len(n.Flashcards))
		for _, c := range n.Flashcards {
			c.Question = strings.TrimSpace(c.Question)
			c.Answer = strings.TrimSpace(c.Answer)
			if c.Question == "" || c.Answer == "" {
				continue
			}
			cards = append(cards, c)
		}
		n.Flashcards = cards
	},
}

var CodeReviewSchema = Schema[entity.CodeReview]{
	Name: "code review",
	Fields: []Field{
		{Key: "overallScore", Kind: KindNumber},
		{Key: "issues", Kind: KindArray},
		{Key: "suggestions", Kind: KindArray},
		{Key: "positives", Kind: KindArray},
		{Key: "metrics", Kind: KindObject},
		{Key: "summary", Kind: KindString, Optional: true},
	},
	Repair: func(r *entity.CodeReview) {
		r.OverallScore = clampScore(r.OverallScore)
		r.Issues = orEmpty(r.Issues)
		r.Suggestions = orEmpty(r.Suggestions)
		r.Positives = orEmpty(r.Positives)
		m := &r.Metrics
		m.Complexity = clampScore(m.Complexity)
		m.Maintainability = clampScore(m.Maintainability)
		m.Readability = clampScore(m.Readability)
		m.Performance = clampScore(m.Performance)
		m.Security = clampScore(m.Security)
		if m.LinesOfCode < 0 {
			m.LinesOfCode = 0
		}
	},
}

var RecommendationSchema = Schema[entity.Recommendations]{
	Name: "roadmap recommendation",
	Fields: []Field{
		{Key: "recommendations", Kind: KindArray},
		{Key: "generalAdvice", Kind: KindString, Optional: true},
	},
	Repair: func(r *entity.Recommendations) {
		r.Recommendations = orEmpty(r.Recommendations)
		for i := range r.Recommendations {
			r.Recommendations[i].MatchScore = clampScore(r.Recommendations[i].MatchScore)
			r.Recommendations[i].Prerequisites = orEmpty(r.Recommendations[i].Prerequisites)
		}
	},
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func clampScore(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
