package usecase

import (
	"context"
	"strings"

	"student-assistant/internal/domain/entity"
)

var roadmapCatalog = []entity.Roadmap{
	{
		ID: "fullstack", Title: "Full Stack Developer", Category: "development",
		Description: "Complete path from frontend to backend development",
		Difficulty:  "Intermediate", Duration: "8-12 months", Students: "45.2k", Rating: 4.8,
		Color: "from-blue-500 to-cyan-500", Icon: "Globe",
		Skills:         []string{"HTML/CSS", "JavaScript", "React", "Node.js", "Database", "DevOps"},
		TotalSteps:     12,
		EstimatedHours: 400,
		Prerequisites:  []string{"Basic programming knowledge", "Computer fundamentals"},
		Outcomes:       []string{"Build full-stack applications", "Deploy to production", "Work with databases"},
	},
	{
		ID: "ai-ml", Title: "AI & Machine Learning", Category: "data",
		Description: "Master artificial intelligence and machine learning concepts",
		Difficulty:  "Advanced", Duration: "10-15 months", Students: "32.8k", Rating: 4.9,
		Color: "from-purple-500 to-pink-500", Icon: "Brain",
		Skills:         []string{"Python", "Statistics", "ML Algorithms", "Deep Learning", "TensorFlow", "Data Analysis"},
		TotalSteps:     15,
		EstimatedHours: 600,
		Prerequisites:  []string{"Python programming", "Statistics basics", "Linear algebra"},
		Outcomes:       []string{"Build ML models", "Deploy AI applications", "Data analysis expertise"},
	},
	{
		ID: "cybersecurity", Title: "Cybersecurity Specialist", Category: "security",
		Description: "Comprehensive cybersecurity and ethical hacking path",
		Difficulty:  "Advanced", Duration: "6-10 months", Students: "28.1k", Rating: 4.7,
		Color: "from-red-500 to-orange-500", Icon: "Shield",
		Skills:         []string{"Network Security", "Penetration Testing", "Cryptography", "Security Analysis", "Risk Management"},
		TotalSteps:     10,
		EstimatedHours: 350,
		Prerequisites:  []string{"Networking basics", "Operating systems", "Programming fundamentals"},
		Outcomes:       []string{"Conduct security audits", "Implement security protocols", "Incident response"},
	},
	{
		ID: "frontend", Title: "Frontend Developer", Category: "development",
		Description: "Modern frontend development with React and advanced tools",
		Difficulty:  "Beginner", Duration: "4-6 months", Students: "67.5k", Rating: 4.6,
		Color: "from-green-500 to-emerald-500", Icon: "Code",
		Skills:         []string{"HTML5", "CSS3", "JavaScript", "React", "TypeScript", "Testing"},
		TotalSteps:     8,
		EstimatedHours: 250,
		Prerequisites:  []string{"Basic computer skills", "Web browsing knowledge"},
		Outcomes:       []string{"Build responsive websites", "Create interactive UIs", "Modern development workflow"},
	},
	{
		ID: "mobile-dev", Title: "Mobile App Developer", Category: "mobile",
		Description: "Cross-platform mobile development with React Native",
		Difficulty:  "Intermediate", Duration: "6-8 months", Students: "23.7k", Rating: 4.5,
		Color: "from-indigo-500 to-purple-500", Icon: "Smartphone",
		Skills:         []string{"React Native", "Mobile UI/UX", "API Integration", "App Store", "Push Notifications"},
		TotalSteps:     9,
		EstimatedHours: 320,
		Prerequisites:  []string{"JavaScript knowledge", "React basics", "Mobile app concepts"},
		Outcomes:       []string{"Build mobile apps", "Publish to app stores", "Cross-platform development"},
	},
	{
		ID: "data-science", Title: "Data Scientist", Category: "data",
		Description: "Complete data science journey from basics to advanced analytics",
		Difficulty:  "Intermediate", Duration: "8-12 months", Students: "41.3k", Rating: 4.8,
		Color: "from-yellow-500 to-orange-500", Icon: "TrendingUp",
		Skills:         []string{"Python", "Statistics", "Data Visualization", "SQL", "Machine Learning", "Big Data"},
		TotalSteps:     11,
		EstimatedHours: 450,
		Prerequisites:  []string{"Statistics basics", "Programming fundamentals", "Mathematics"},
		Outcomes:       []string{"Analyze complex data", "Build predictive models", "Data-driven insights"},
	},
}

var categoryNames = []struct{ id, name string }{
	{"all", "All Roadmaps"},
	{"development", "Development"},
	{"security", "Security"},
	{"data", "Data Science"},
	{"mobile", "Mobile"},
}

var roadmapDetails = map[string]entity.RoadmapDetails{
	"fullstack": {Steps: []entity.RoadmapStep{
		{
			ID: 1, Title: "Web Fundamentals", Description: "HTML, CSS, and basic web concepts",
			Duration: "2-3 weeks", Difficulty: "Beginner",
			Topics: []string{"HTML5 Semantic Elements", "CSS Grid & Flexbox", "Responsive Design", "Web Accessibility"},
			Resources: []entity.RoadmapResource{
				{Name: "MDN Web Docs", URL: "https://developer.mozilla.org", Type: "documentation"},
				{Name: "FreeCodeCamp", URL: "https://freecodecamp.org", Type: "course"},
				{Name: "CSS Tricks", URL: "https://css-tricks.com", Type: "tutorial"},
			},
			Projects: []entity.RoadmapProject{
				{Name: "Personal Portfolio", Description: "Create a responsive personal website"},
				{Name: "Landing Page", Description: "Build a modern landing page"},
			},
			Quiz: entity.RoadmapQuiz{Questions: 15, PassingScore: 80},
		},
		{
			ID: 2, Title: "JavaScript Essentials", Description: "Core JavaScript programming concepts",
			Duration: "3-4 weeks", Difficulty: "Beginner",
			Topics: []string{"ES6+ Features", "DOM Manipulation", "Async Programming", "Error Handling"},
			Resources: []entity.RoadmapResource{
				{Name: "JavaScript.info", URL: "https://javascript.info", Type: "tutorial"},
				{Name: "Eloquent JavaScript", URL: "https://eloquentjavascript.net", Type: "book"},
				{Name: "You Don't Know JS", URL: "https://github.com/getify/You-Dont-Know-JS", Type: "book"},
			},
			Projects: []entity.RoadmapProject{
				{Name: "To-Do App", Description: "Build an interactive todo application"},
				{Name: "Calculator", Description: "Create a functional calculator"},
				{Name: "Weather App", Description: "Weather app with API integration"},
			},
			Quiz: entity.RoadmapQuiz{Questions: 20, PassingScore: 75},
		},
		{
			ID: 3, Title: "React Fundamentals", Description: "Learn React library and component-based architecture",
			Duration: "4-5 weeks", Difficulty: "Intermediate",
			Topics: []string{"Components & Props", "State Management", "Hooks", "Context API"},
			Resources: []entity.RoadmapResource{
				{Name: "React Documentation", URL: "https://react.dev", Type: "documentation"},
				{Name: "React Tutorial", URL: "https://react.dev/tutorial", Type: "tutorial"},
				{Name: "Scrimba React Course", URL: "https://scrimba.com/learn/learnreact", Type: "course"},
			},
			Projects: []entity.RoadmapProject{
				{Name: "React Blog", Description: "Build a blog with React and routing"},
				{Name: "E-commerce Frontend", Description: "Create a shopping cart interface"},
			},
			Quiz: entity.RoadmapQuiz{Questions: 25, PassingScore: 80},
		},
	}},
}

func Roadmaps() []entity.Roadmap {
	out := make([]entity.Roadmap, len(roadmapCatalog))
	copy(out, roadmapCatalog)
	return out
}

func RoadmapByID(id string) (entity.Roadmap, bool) {
	for _, r := range roadmapCatalog {
		if r.ID == id {
			return r, true
		}
	}
	return entity.Roadmap{}, false
}

// RoadmapCategories counts catalog entries per category; "all" counts everything.
func RoadmapCategories() []entity.RoadmapCategory {
	out := make([]entity.RoadmapCategory, 0, len(categoryNames))
	for _, c := range categoryNames {
		count := 0
		for _, r := range roadmapCatalog {
			if c.id == "all" || r.Category == c.id {
				count++
			}
		}
		out = append(out, entity.RoadmapCategory{ID: c.id, Name: c.name, Count: count})
	}
	return out
}

// RoadmapDetails returns the step breakdown. Only some roadmaps have one.
func RoadmapDetails(id string) (entity.RoadmapDetails, error) {
	d, ok := roadmapDetails[id]
	if !ok {
		return entity.RoadmapDetails{}, entity.ErrResourceNotFound
	}
	return d, nil
}

// Recommend ranks catalog roadmaps for a learner profile.
func (u *Orchestrator) Recommend(ctx context.Context, clientID string, in entity.RecommendInput) (*entity.Recommendations, error) {
	skills := in.CurrentSkills[:0:0]
	for _, s := range in.CurrentSkills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	in.CurrentSkills = skills

	out, err := runStructured(ctx, u, clientID, entity.FeatureRecommendation, BuildRecommendPrompt(in, roadmapCatalog), RecommendationSchema,
		func() entity.Recommendations { return FallbackRecommendations(in) })
	if err != nil {
		return nil, err
	}

	recs := out.Value
	known := recs.Recommendations[:0]
	for _, r := range recs.Recommendations {
		if _, ok := RoadmapByID(r.RoadmapID); ok {
			known = append(known, r)
		}
	}
	fb := FallbackRecommendations(in)
	if len(known) == 0 {
		known = fb.Recommendations
	}
	recs.Recommendations = known
	if strings.TrimSpace(recs.GeneralAdvice) == "" {
		recs.GeneralAdvice = fb.GeneralAdvice
	}
	return &recs, nil
}
