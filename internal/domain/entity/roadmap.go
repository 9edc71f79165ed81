package entity

import "time"

type Roadmap struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Category       string   `json:"category"`
	Description    string   `json:"description"`
	Difficulty     string   `json:"difficulty"`
	Duration       string   `json:"duration"`
	Students       string   `json:"students"`
	Rating         float64  `json:"rating"`
	Color          string   `json:"color"`
	Icon           string   `json:"icon"`
	Skills         []string `json:"skills"`
	TotalSteps     int      `json:"totalSteps"`
	EstimatedHours int      `json:"estimatedHours"`
	Prerequisites  []string `json:"prerequisites"`
	Outcomes       []string `json:"outcomes"`
}

type RoadmapCategory struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type RoadmapResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

type RoadmapProject struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type RoadmapQuiz struct {
	Questions    int `json:"questions"`
	PassingScore int `json:"passingScore"`
}

type RoadmapStep struct {
	ID          int               `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Duration    string            `json:"duration"`
	Difficulty  string            `json:"difficulty"`
	Topics      []string          `json:"topics"`
	Resources   []RoadmapResource `json:"resources"`
	Projects    []RoadmapProject  `json:"projects"`
	Quiz        RoadmapQuiz       `json:"quiz"`
}

type RoadmapDetails struct {
	Steps []RoadmapStep `json:"steps"`
}

// Progress is the free-form progress record kept for study plans and roadmaps.
type Progress struct {
	Key             string         `json:"key"`
	CompletedHours  float64        `json:"completedHours"`
	CompletedTopics []string       `json:"completedTopics"`
	CompletedSteps  []int          `json:"completedSteps,omitempty"`
	CurrentWeek     int            `json:"currentWeek"`
	CurrentStep     int            `json:"currentStep,omitempty"`
	StudySession    map[string]any `json:"studySession,omitempty"`
	LastUpdate      *time.Time     `json:"lastUpdate"`
}
