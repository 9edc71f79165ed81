package usecase

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"student-assistant/internal/domain/entity"
)

const (
	minStudyHours = 1
	maxStudyHours = 24
)

var difficulties = map[string]bool{"easy": true, "medium": true, "hard": true}

func parseExamDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// PlanParams validates the planner form fields against the current time.
func (u *Orchestrator) PlanParams(examDate, studyHours, difficulty string) (StudyPlanParams, error) {
	if strings.TrimSpace(examDate) == "" {
		return StudyPlanParams{}, entity.Invalid("examDate", "Exam date is required")
	}
	exam, err := parseExamDate(examDate)
	if err != nil {
		return StudyPlanParams{}, entity.Invalid("examDate", "Exam date must be a valid date (YYYY-MM-DD)")
	}
	days := int(math.Ceil(exam.Sub(u.now()).Hours() / 24))
	if days <= 0 {
		return StudyPlanParams{}, entity.Invalid("examDate", "Exam date must be in the future")
	}

	if strings.TrimSpace(studyHours) == "" {
		return StudyPlanParams{}, entity.Invalid("studyHours", "Study hours are required")
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(studyHours), 64)
	if err != nil || math.IsNaN(h) || h < minStudyHours || h >= maxStudyHours+1 {
		return StudyPlanParams{}, entity.Invalid("studyHours", "Study hours must be a number between 1 and 24")
	}

	level := strings.ToLower(strings.TrimSpace(difficulty))
	if !difficulties[level] {
		level = "medium"
	}
	return StudyPlanParams{DaysUntilExam: days, StudyHours: int(h), Difficulty: level}, nil
}

// CreateStudyPlan builds a plan from extracted material. The calculated fields are
// always set by the server, whatever the provider returned.
func (u *Orchestrator) CreateStudyPlan(ctx context.Context, clientID string, in entity.StudyPlanInput) (*entity.StudyPlan, error) {
	params, err := u.PlanParams(in.ExamDate, in.StudyHours, in.Difficulty)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Material) == "" {
		return nil, entity.Invalid("file", "Could not extract text from the uploaded file")
	}

	out, err := runStructured(ctx, u, clientID, entity.FeatureStudyPlan, BuildStudyPlanPrompt(in.Material, params), StudyPlanSchema,
		func() entity.StudyPlan {
			return FallbackStudyPlan(params.DaysUntilExam, params.StudyHours, params.Difficulty)
		})
	if err != nil {
		return nil, err
	}

	plan := out.Value
	plan.ID = uuid.NewString()
	plan.ExamDate = strings.TrimSpace(in.ExamDate)
	plan.DaysUntilExam = params.DaysUntilExam
	plan.TotalHours = params.TotalHours()
	plan.Difficulty = params.Difficulty
	plan.FileName = in.FileName
	plan.CreatedAt = u.now().UTC()
	return &plan, nil
}
