package usecase

import (
	"context"
	"strings"

	"student-assistant/internal/domain/entity"
)

var reviewTypes = map[string]bool{
	"comprehensive": true,
	"security":      true,
	"performance":   true,
	"style":         true,
}

// ReviewCode scores a snippet. When the provider answer is unusable the review
// comes from local heuristics with estimated scores.
func (u *Orchestrator) ReviewCode(ctx context.Context, clientID string, in entity.CodeReviewInput) (*entity.CodeReview, entity.CodeReviewInput, error) {
	if strings.TrimSpace(in.Code) == "" {
		return nil, in, entity.Invalid("code", "Code is required")
	}
	in.Language = strings.TrimSpace(in.Language)
	if in.Language == "" {
		return nil, in, entity.Invalid("language", "Language is required")
	}
	in.ReviewType = strings.ToLower(strings.TrimSpace(in.ReviewType))
	if !reviewTypes[in.ReviewType] {
		in.ReviewType = "comprehensive"
	}

	out, err := runStructured(ctx, u, clientID, entity.FeatureCodeReview, BuildCodeReviewPrompt(in), CodeReviewSchema,
		func() entity.CodeReview { return FallbackCodeReview(in, u.intn) })
	if err != nil {
		return nil, in, err
	}

	review := out.Value
	if review.Metrics.LinesOfCode == 0 {
		review.Metrics.LinesOfCode = countLines(in.Code)
	}
	return &review, in, nil
}

func countLines(code string) int {
	n := 0
	for _, l := range strings.Split(code, "\n") {
		if strings.TrimSpace(l) != "" {
			n++
		}
	}
	return n
}
