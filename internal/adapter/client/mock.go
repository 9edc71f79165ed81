package client

import (
	"context"
	"strings"

	"student-assistant/internal/domain/entity"
)

// MockProvider answers without any network call. Every structured feature falls
// back to its local generator.
type MockProvider struct{}

func (MockProvider) Generate(_ context.Context, prompt string) (*entity.AIResponse, error) {
	words := len(strings.Fields(prompt))
	return &entity.AIResponse{
		Content:    "Mock provider is active; no AI model was called.",
		Model:      "mock",
		TokenCount: words,
	}, nil
}
