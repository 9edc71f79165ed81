package entity

import "time"

type FeatureKind string

const (
	FeatureDiagram        FeatureKind = "diagram"
	FeatureStudyPlan      FeatureKind = "study_plan"
	FeatureNotesSummary   FeatureKind = "notes_summary"
	FeatureCodeReview     FeatureKind = "code_review"
	FeatureRecommendation FeatureKind = "roadmap_recommendation"
	FeatureChat           FeatureKind = "chat"
)

// AIResponse is what a provider hands back for a single prompt.
type AIResponse struct {
	Content    string         `json:"content"`
	Cached     bool           `json:"cached"` // served from the semantic cache
	Score      float32        `json:"score"`  // cache similarity, for debugging
	Model      string         `json:"model"`
	TokenCount int            `json:"token_count"`
	Latency    int64          `json:"latency_ms"`
	Metadata   map[string]any `json:"metadata"`
}

type DiagramInput struct {
	Prompt      string `json:"prompt"`
	DiagramType string `json:"diagramType"`
}

type StudyPlanInput struct {
	Material   string
	FileName   string
	ExamDate   string
	StudyHours string
	Difficulty string
}

type NotesInput struct {
	Text     string
	FromFile bool
}

type CodeReviewInput struct {
	Code       string `json:"code"`
	Language   string `json:"language"`
	ReviewType string `json:"reviewType"`
}

type RecommendInput struct {
	CurrentSkills []string `json:"currentSkills"`
	Goals         string   `json:"goals"`
	Experience    string   `json:"experience"`
	TimeAvailable float64  `json:"timeAvailable"`
}

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatInput struct {
	Message             string     `json:"message"`
	SessionID           string     `json:"sessionId"`
	ConversationHistory []ChatTurn `json:"conversationHistory"`
}

type ChatReply struct {
	Response     string    `json:"response"`
	ResponseHTML string    `json:"responseHtml"`
	SessionID    string    `json:"sessionId,omitempty"`
	Cached       bool      `json:"cached"`
	Timestamp    time.Time `json:"timestamp"`
}
