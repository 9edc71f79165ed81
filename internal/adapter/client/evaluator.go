package client

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiEvaluator decides whether a cached tutor answer still fits a new question.
type GeminiEvaluator struct {
	client *genai.Client
	model  string
}

func NewGeminiEvaluator(client *genai.Client, model string) *GeminiEvaluator {
	return &GeminiEvaluator{client: client, model: model}
}

func (e *GeminiEvaluator) IsMatch(ctx context.Context, userPrompt, cachedPrompt string) bool {
	instruction := `You are judging two questions asked by students.
Do they ask for the same explanation, even if phrased differently?
- If they have the same intent, respond ONLY with "YES".
- If they differ in subject, level of detail or the concept asked about, respond ONLY with "NO".`

	prompt := fmt.Sprintf("%s\n\nQuestion 1: %s\nQuestion 2: %s", instruction, userPrompt, cachedPrompt)

	resp, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		return false // treated as a cache miss
	}

	result := strings.TrimSpace(strings.ToUpper(resp.Text()))
	return strings.HasPrefix(result, "YES")
}
