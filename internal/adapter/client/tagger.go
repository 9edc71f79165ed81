package client

import (
	"context"
	"encoding/json"
	"strings"

	"google.golang.org/genai"
)

// GeminiTagger labels a chat question with its subject and level. Cached answers
// are only served within the same subject.
type GeminiTagger struct {
	client *genai.Client
	model  string
}

func NewGeminiTagger(client *genai.Client, model string) *GeminiTagger {
	return &GeminiTagger{client: client, model: model}
}

func (e *GeminiTagger) ExtractMetadata(ctx context.Context, prompt string) map[string]string {
	instruction := `Classify the student question as a flat JSON object of lowercase strings.
Use the keys "subject" (e.g. "mathematics", "physics", "programming") and "level" ("school", "university", "professional").
If a key cannot be determined, omit it. Do not explain.
Example: "How do I integrate x^2?" -> {"subject": "mathematics", "level": "school"}`

	resp, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(instruction+"\nQuestion: "+prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil
	}
	return parseTags(resp.Text())
}

func parseTags(text string) map[string]string {
	var raw map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return nil
	}
	tags := make(map[string]string, 2)
	for _, key := range []string{"subject", "level"} {
		if v, ok := raw[key].(string); ok && strings.TrimSpace(v) != "" {
			tags[key] = strings.ToLower(strings.TrimSpace(v))
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}
