package client

import (
	"context"
	"errors"
	"fmt"

	"student-assistant/internal/domain/entity"

	"google.golang.org/genai"
)

// GenerationSettings mirrors the sampling parameters used for every feature.
type GenerationSettings struct {
	Temperature     float32
	TopK            float32
	TopP            float32
	MaxOutputTokens int32
}

var DefaultGenerationSettings = GenerationSettings{
	Temperature:     0.7,
	TopK:            40,
	TopP:            0.95,
	MaxOutputTokens: 8192,
}

var blockedCategories = []genai.HarmCategory{
	genai.HarmCategoryHarassment,
	genai.HarmCategoryHateSpeech,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

type GeminiClient struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGenAIClient uses the Gemini API when apiKey is set and Vertex AI otherwise.
func NewGenAIClient(ctx context.Context, apiKey, projectID, location string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if apiKey == "" {
		if projectID == "" {
			return nil, errors.New("genai: GEMINI_API_KEY or GOOGLE_CLOUD_PROJECT is required")
		}
		cfg = &genai.ClientConfig{
			Project:  projectID,
			Location: location,
			Backend:  genai.BackendVertexAI,
		}
	}
	return genai.NewClient(ctx, cfg)
}

func NewGeminiClientFromClient(c *genai.Client, model string, s GenerationSettings) *GeminiClient {
	safety := make([]*genai.SafetySetting, 0, len(blockedCategories))
	for _, cat := range blockedCategories {
		safety = append(safety, &genai.SafetySetting{
			Category:  cat,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}
	return &GeminiClient{
		client: c,
		model:  model,
		config: &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(s.Temperature),
			TopK:            genai.Ptr(s.TopK),
			TopP:            genai.Ptr(s.TopP),
			MaxOutputTokens: s.MaxOutputTokens,
			SafetySettings:  safety,
		},
	}
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (*entity.AIResponse, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		return nil, entity.AsProviderError("gemini", g.model, err)
	}
	if len(result.Candidates) == 0 {
		if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
			return nil, entity.AsProviderError("gemini", g.model, fmt.Errorf("prompt blocked: %s", result.PromptFeedback.BlockReason))
		}
		return nil, entity.AsProviderError("gemini", g.model, entity.ErrEmptyContent)
	}

	resp := &entity.AIResponse{
		Content: result.Text(),
		Model:   g.model,
	}
	if result.UsageMetadata != nil {
		resp.TokenCount = int(result.UsageMetadata.TotalTokenCount)
	}
	return resp, nil
}
