package entity

import "time"

// Diagram is the structured result of the diagram feature.
type Diagram struct {
	MermaidCode string `json:"mermaidCode"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DiagramType string `json:"diagramType"`
}

type StudySubject struct {
	Name     string   `json:"name"`
	Hours    float64  `json:"hours"`
	Priority string   `json:"priority"`
	Topics   []string `json:"topics"`
	Color    string   `json:"color,omitempty"`
}

type StudyWeek struct {
	Week       int      `json:"week"`
	Focus      string   `json:"focus"`
	DailyHours float64  `json:"dailyHours"`
	Topics     []string `json:"topics"`
	Goals      []string `json:"goals"`
}

type RevisionSchedule struct {
	FinalWeek     []string `json:"finalWeek"`
	LastThreeDays []string `json:"lastThreeDays"`
}

type StudyPlan struct {
	Subjects         []StudySubject   `json:"subjects"`
	WeeklySchedule   []StudyWeek      `json:"weeklySchedule"`
	Tips             []string         `json:"tips"`
	KeyTopics        []string         `json:"keyTopics"`
	RevisionSchedule RevisionSchedule `json:"revisionSchedule"`

	// Filled by the server after generation.
	ID            string    `json:"id,omitempty"`
	ExamDate      string    `json:"examDate,omitempty"`
	DaysUntilExam int       `json:"daysUntilExam,omitempty"`
	TotalHours    int       `json:"totalHours,omitempty"`
	Difficulty    string    `json:"difficulty,omitempty"`
	FileName      string    `json:"fileName,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type NotesResult struct {
	Summary     string      `json:"summary"`
	SummaryHTML string      `json:"summaryHtml,omitempty"`
	Flashcards  []Flashcard `json:"flashcards"`
}

type ReviewIssue struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	Line       int    `json:"line,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

type ReviewMetrics struct {
	Complexity      float64 `json:"complexity"`
	Maintainability float64 `json:"maintainability"`
	Readability     float64 `json:"readability"`
	Performance     float64 `json:"performance"`
	Security        float64 `json:"security"`
	LinesOfCode     int     `json:"linesOfCode"`
}

type CodeReview struct {
	OverallScore float64       `json:"overallScore"`
	Summary      string        `json:"summary,omitempty"`
	Issues       []ReviewIssue `json:"issues"`
	Suggestions  []string      `json:"suggestions"`
	Positives    []string      `json:"positives"`
	Metrics      ReviewMetrics `json:"metrics"`
}

type Recommendation struct {
	RoadmapID           string   `json:"roadmapId"`
	MatchScore          float64  `json:"matchScore"`
	Reasoning           string   `json:"reasoning"`
	EstimatedCompletion string   `json:"estimatedCompletion"`
	Prerequisites       []string `json:"prerequisites"`
}

type Recommendations struct {
	Recommendations []Recommendation `json:"recommendations"`
	GeneralAdvice   string           `json:"generalAdvice"`
}
