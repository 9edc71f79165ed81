package usecase

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"student-assistant/internal/domain/entity"
)

// Fallback generators are pure functions of their input: no provider, no I/O.
// They back every feature whose provider output cannot be normalized.

// Allocation is the share of total study hours per category bucket.
type Allocation struct {
	Core, Practice, Revision float64
}

func AllocationFor(difficulty string) Allocation {
	switch strings.ToLower(strings.TrimSpace(difficulty)) {
	case "easy":
		return Allocation{Core: 0.30, Practice: 0.40, Revision: 0.30}
	case "hard":
		return Allocation{Core: 0.50, Practice: 0.35, Revision: 0.15}
	default:
		return Allocation{Core: 0.40, Practice: 0.35, Revision: 0.25}
	}
}

func FallbackStudyPlan(days, hoursPerDay int, difficulty string) entity.StudyPlan {
	total := float64(days * hoursPerDay)
	alloc := AllocationFor(difficulty)
	level := strings.ToLower(strings.TrimSpace(difficulty))
	if level == "" {
		level = "medium"
	}

	return entity.StudyPlan{
		Subjects: []entity.StudySubject{
			{
				Name:     "Core Concepts",
				Hours:    math.Round(total * alloc.Core),
				Priority: "High",
				Topics:   []string{"Fundamental theories", "Key principles", "Basic concepts", "Important definitions"},
				Color:    "from-red-500 to-pink-600",
			},
			{
				Name:     "Practice Problems",
				Hours:    math.Round(total * alloc.Practice),
				Priority: "High",
				Topics:   []string{"Sample questions", "Mock tests", "Problem solving", "Previous year papers"},
				Color:    "from-blue-500 to-cyan-600",
			},
			{
				Name:     "Review & Revision",
				Hours:    math.Round(total * alloc.Revision),
				Priority: "Medium",
				Topics:   []string{"Summary notes", "Quick review", "Final preparation", "Weak area focus"},
				Color:    "from-green-500 to-emerald-600",
			},
		},
		WeeklySchedule: FallbackWeeklySchedule(days, hoursPerDay),
		Tips: []string{
			"Start with the most challenging topics when your mind is fresh",
			"Use active recall techniques instead of passive reading",
			"Take regular breaks using the Pomodoro technique (25min work, 5min break)",
			"Create summary notes and mind maps for quick revision",
			"Practice with mock tests regularly to identify weak areas",
			"Review previously studied material daily to reinforce learning",
			"Stay consistent with your study schedule and track progress",
			fmt.Sprintf("Focus extra time on %s difficulty concepts", level),
		},
		KeyTopics: []string{
			"Main subject areas from your material",
			"Important formulas and equations",
			"Critical concepts for exam",
			"Common question patterns",
		},
		RevisionSchedule: entity.RevisionSchedule{
			FinalWeek: []string{
				"Complete comprehensive mock tests",
				"Review all summary notes and flashcards",
				"Focus intensively on identified weak areas",
				"Practice time management with timed tests",
			},
			LastThreeDays: []string{
				"Light revision only - avoid learning new concepts",
				"Quick review of formulas and key points",
				"Relax and maintain confidence",
				"Get adequate sleep and stay healthy",
			},
		},
	}
}

// FallbackWeeklySchedule spreads ceil(days/7) weeks over Learning (first 60%),
// Practice (up to 80%) and Revision.
func FallbackWeeklySchedule(days, hoursPerDay int) []entity.StudyWeek {
	weeks := (days + 6) / 7
	if weeks < 1 {
		weeks = 1
	}
	schedule := make([]entity.StudyWeek, 0, weeks)
	for week := 1; week <= weeks; week++ {
		progress := float64(week) / float64(weeks)
		var focus string
		var topics, goals []string
		switch {
		case progress <= 0.6:
			focus = "Learning"
			topics = []string{
				fmt.Sprintf("Week %d - New concept introduction", week),
				fmt.Sprintf("Week %d - Theory and fundamentals", week),
				fmt.Sprintf("Week %d - Basic practice problems", week),
			}
			goals = []string{"Master new concepts and theories", "Build strong foundation understanding"}
		case progress <= 0.8:
			focus = "Practice"
			topics = []string{
				fmt.Sprintf("Week %d - Advanced problem solving", week),
				fmt.Sprintf("Week %d - Mock tests and assessments", week),
				fmt.Sprintf("Week %d - Application of concepts", week),
			}
			goals = []string{"Apply learned concepts to problems", "Identify and work on weak areas"}
		default:
			focus = "Revision"
			topics = []string{
				fmt.Sprintf("Week %d - Comprehensive review", week),
				fmt.Sprintf("Week %d - Final mock tests", week),
				fmt.Sprintf("Week %d - Exam strategy preparation", week),
			}
			goals = []string{"Consolidate all learning", "Perfect exam technique and timing"}
		}
		schedule = append(schedule, entity.StudyWeek{
			Week:       week,
			Focus:      focus,
			DailyHours: float64(hoursPerDay),
			Topics:     topics,
			Goals:      goals,
		})
	}
	return schedule
}

const (
	summarySentences = 3
	summaryMaxRunes  = 600
	maxFlashcards    = 8
	minKeywordRunes  = 4
)

var (
	sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]*`)
	wordRe     = regexp.MustCompile(`\p{L}[\p{L}\p{N}'-]*`)
)

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`that this with from have were which their there been they will would what
		when where while about into more also than then them these those such some only other each over
		very your because between being does could should after before through most many much must here
		just like make made used using upon same both well within without first just even ever every
		said says however therefore thus hence often among along around against during under again`) {
		stopwords[w] = struct{}{}
	}
}

// FallbackNotes summarizes with the leading sentences and builds flashcards from
// the most frequent content words.
func FallbackNotes(text string) entity.NotesResult {
	collapsed := strings.Join(strings.Fields(text), " ")
	sentences := splitSentences(collapsed)

	summary := collapsed
	if len(sentences) > 0 {
		n := min(summarySentences, len(sentences))
		summary = strings.Join(sentences[:n], " ")
	}
	summary = cutRunes(summary, summaryMaxRunes)
	if summary == "" {
		summary = "No summary could be generated for this material."
	}

	cards := make([]entity.Flashcard, 0, maxFlashcards)
	for _, kw := range TopKeywords(collapsed, maxFlashcards) {
		answer := firstSentenceWith(sentences, kw)
		if answer == "" {
			continue
		}
		cards = append(cards, entity.Flashcard{
			Question: fmt.Sprintf("What does the material say about %q?", kw),
			Answer:   cutRunes(answer, 300),
		})
	}
	if len(cards) == 0 {
		cards = append(cards, entity.Flashcard{
			Question: "What is the main idea of this material?",
			Answer:   summary,
		})
	}
	return entity.NotesResult{Summary: summary, Flashcards: cards}
}

// TopKeywords ranks words by frequency, ties alphabetically.
func TopKeywords(text string, limit int) []string {
	counts := map[string]int{}
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		w = strings.Trim(w, "'-")
		if utf8.RuneCountInString(w) < minKeywordRunes {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		counts[w]++
	}
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > limit {
		words = words[:limit]
	}
	return words
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range sentenceRe.FindAllString(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstSentenceWith(sentences []string, word string) string {
	for _, s := range sentences {
		if strings.Contains(strings.ToLower(s), word) {
			return s
		}
	}
	return ""
}

func cutRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return strings.TrimSpace(string(r[:limit])) + "..."
}

type codeCheck struct {
	pattern    *regexp.Regexp
	languages  []string // empty means any language
	issue      entity.ReviewIssue
	suggestion string
}

var codeChecks = []codeCheck{
	{
		pattern:    regexp.MustCompile(`\beval\s*\(`),
		issue:      entity.ReviewIssue{Type: "security", Severity: "high", Message: "Use of eval executes arbitrary code"},
		suggestion: "Replace eval with explicit parsing or a lookup table",
	},
	{
		pattern:    regexp.MustCompile(`catch\s*(\([^)]*\))?\s*\{\s*\}`),
		issue:      entity.ReviewIssue{Type: "bug", Severity: "medium", Message: "Empty catch block swallows errors"},
		suggestion: "Log or rethrow errors instead of ignoring them",
	},
	{
		pattern:    regexp.MustCompile(`\bvar\s+\w`),
		languages:  []string{"javascript", "typescript", "js", "ts"},
		issue:      entity.ReviewIssue{Type: "style", Severity: "medium", Message: "var declarations are function scoped"},
		suggestion: "Prefer const, or let when reassignment is needed",
	},
	{
		pattern:    regexp.MustCompile(`[^=!<>]==[^=]`),
		languages:  []string{"javascript", "typescript", "js", "ts"},
		issue:      entity.ReviewIssue{Type: "bug", Severity: "low", Message: "Loose equality performs type coercion"},
		suggestion: "Use === and !== for comparisons",
	},
	{
		pattern:    regexp.MustCompile(`console\.log\(|System\.out\.print|fmt\.Print|\bprint\(|\bprintf\(`),
		issue:      entity.ReviewIssue{Type: "style", Severity: "low", Message: "Debug output left in code"},
		suggestion: "Remove debug prints or route them through a logger",
	},
	{
		pattern:    regexp.MustCompile(`\b(TODO|FIXME|XXX)\b`),
		issue:      entity.ReviewIssue{Type: "maintainability", Severity: "low", Message: "Unresolved TODO/FIXME marker"},
		suggestion: "Track open work in an issue tracker and resolve markers before release",
	},
}

const maxLineLength = 120

// FallbackCodeReview runs lightweight pattern checks. Scores come from intn and
// are deliberately random in [60,85]; they are estimates, labelled as such.
func FallbackCodeReview(in entity.CodeReviewInput, intn func(int) int) entity.CodeReview {
	lang := strings.ToLower(strings.TrimSpace(in.Language))
	lines := strings.Split(in.Code, "\n")

	loc, comments := 0, 0
	for _, l := range lines {
		t := strings.TrimSpace(l)
		if t == "" {
			continue
		}
		loc++
		if strings.HasPrefix(t, "//") || strings.HasPrefix(t, "#") || strings.HasPrefix(t, "/*") || strings.HasPrefix(t, "*") {
			comments++
		}
	}

	var issues []entity.ReviewIssue
	var suggestions []string
	for _, c := range codeChecks {
		if len(c.languages) > 0 && !contains(c.languages, lang) {
			continue
		}
		for i, l := range lines {
			if c.pattern.MatchString(l) {
				issue := c.issue
				issue.Line = i + 1
				issue.Suggestion = c.suggestion
				issues = append(issues, issue)
				suggestions = append(suggestions, c.suggestion)
				break
			}
		}
	}
	for i, l := range lines {
		if utf8.RuneCountInString(l) > maxLineLength {
			issues = append(issues, entity.ReviewIssue{
				Type:       "style",
				Severity:   "low",
				Line:       i + 1,
				Message:    fmt.Sprintf("Line exceeds %d characters", maxLineLength),
				Suggestion: "Break long expressions across lines",
			})
			break
		}
	}
	if len(issues) == 0 {
		issues = append(issues, entity.ReviewIssue{
			Type:     "maintainability",
			Severity: "low",
			Message:  "Automated heuristic review only; deeper issues may not be detected",
		})
	}
	suggestions = append(suggestions,
		"Add unit tests that cover the main code paths",
		"Request a full AI review again once the service is available",
	)

	var positives []string
	if loc > 0 && loc <= 50 {
		positives = append(positives, "Code is concise and focused")
	}
	if comments > 0 {
		positives = append(positives, "Code includes explanatory comments")
	}
	positives = append(positives, fmt.Sprintf("Code is organized into %d non-empty lines that are easy to scan", loc))

	score := func() float64 { return float64(60 + intn(26)) }
	return entity.CodeReview{
		OverallScore: score(),
		Summary:      "Automated heuristic review (AI analysis unavailable). Scores are estimates.",
		Issues:       issues,
		Suggestions:  suggestions,
		Positives:    positives,
		Metrics: entity.ReviewMetrics{
			Complexity:      score(),
			Maintainability: score(),
			Readability:     score(),
			Performance:     score(),
			Security:        score(),
			LinesOfCode:     loc,
		},
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

const maxDiagramNodes = 8

var (
	clauseSplitRe = regexp.MustCompile(`(?i)[.;,\n]+|\s+then\s+|\s+and\s+|->|→`)
	labelStripRe  = regexp.MustCompile(`[\[\]{}()<>"'|#;` + "`" + `]`)
)

// FallbackDiagram chains the clauses of the description into a top-down flowchart.
func FallbackDiagram(in entity.DiagramInput) entity.Diagram {
	var labels []string
	seen := map[string]bool{}
	for _, part := range clauseSplitRe.Split(in.Prompt, -1) {
		label := mermaidLabel(part)
		if label == "" || seen[strings.ToLower(label)] {
			continue
		}
		seen[strings.ToLower(label)] = true
		labels = append(labels, label)
		if len(labels) == maxDiagramNodes {
			break
		}
	}
	if len(labels) < 2 {
		idea := "Idea"
		if len(labels) == 1 {
			idea = labels[0]
		}
		labels = []string{"Start", idea, "End"}
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")
	for i, l := range labels {
		fmt.Fprintf(&sb, "    N%d[\"%s\"]\n", i+1, l)
	}
	for i := 1; i < len(labels); i++ {
		fmt.Fprintf(&sb, "    N%d --> N%d\n", i, i+1)
	}

	title := mermaidLabel(in.Prompt)
	if title == "" {
		title = "Diagram"
	}
	return entity.Diagram{
		MermaidCode: strings.TrimRight(sb.String(), "\n"),
		Title:       cutRunes(title, 60),
		Description: "Basic flowchart generated from the steps in your description.",
		DiagramType: "flowchart",
	}
}

func mermaidLabel(s string) string {
	s = labelStripRe.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	return cutRunes(s, 40)
}

// FallbackRecommendations points beginners at the frontend path and everyone else
// at full stack.
func FallbackRecommendations(in entity.RecommendInput) entity.Recommendations {
	roadmap := "fullstack"
	if strings.EqualFold(strings.TrimSpace(in.Experience), "beginner") {
		roadmap = "frontend"
	}
	completion := estimatedMonths(in.TimeAvailable)
	return entity.Recommendations{
		Recommendations: []entity.Recommendation{{
			RoadmapID:           roadmap,
			MatchScore:          85,
			Reasoning:           "Good starting point based on your experience level",
			EstimatedCompletion: completion,
			Prerequisites:       []string{},
		}},
		GeneralAdvice: "Start with fundamentals and build projects to reinforce learning",
	}
}

// estimatedMonths spreads roughly 300 study hours over weekly availability.
func estimatedMonths(hoursPerWeek float64) string {
	months := math.Ceil(300 / (hoursPerWeek * 4))
	if hoursPerWeek <= 0 || math.IsNaN(months) || math.IsInf(months, 0) || months > 120 {
		return "4-6 months"
	}
	if months < 1 {
		months = 1
	}
	if months == 1 {
		return "1 month"
	}
	return fmt.Sprintf("%d months", int(months))
}
