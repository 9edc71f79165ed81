package client

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"student-assistant/internal/domain/entity"
)

const systemPrompt = "You are an AI Study Assistant. Follow the output format requested in the user message exactly."

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	client   openai.Client
	model    string
	settings GenerationSettings
}

func NewOpenAIClient(apiKey, baseURL, model string, s GenerationSettings) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key missing; set OPENAI_API_KEY")
	}
	if model == "" {
		return nil, errors.New("openai model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{client: openai.NewClient(opts...), model: model, settings: s}, nil
}

func (o *OpenAIClient) Generate(ctx context.Context, prompt string) (*entity.AIResponse, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature:         openai.Float(float64(o.settings.Temperature)),
		TopP:                openai.Float(float64(o.settings.TopP)),
		MaxCompletionTokens: openai.Int(int64(o.settings.MaxOutputTokens)),
	})
	if err != nil {
		return nil, entity.AsProviderError("openai", o.model, err)
	}
	if len(resp.Choices) == 0 {
		return nil, entity.AsProviderError("openai", o.model, entity.ErrEmptyContent)
	}
	return &entity.AIResponse{
		Content:    resp.Choices[0].Message.Content,
		Model:      resp.Model,
		TokenCount: int(resp.Usage.TotalTokens),
	}, nil
}
