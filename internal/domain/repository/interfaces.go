package repository

import (
	"context"
	"io"

	"student-assistant/internal/domain/entity"
)

// AnswerCache is the semantic cache in front of the tutor chat.
// Filters and metadata are flat payload fields such as the chat subject.
type AnswerCache interface {
	Search(ctx context.Context, vector []float32, threshold float32, filters map[string]string) (resp *entity.AIResponse, score float32, cachedPrompt string, err error)
	Save(ctx context.Context, prompt string, resp *entity.AIResponse, vector []float32, metadata map[string]any) error
}

type UsageLimiter interface {
	CheckLimit(ctx context.Context, clientID string) (bool, error)
	Increment(ctx context.Context, clientID string, tokens int) error
}

// AIProvider fails with *entity.ProviderError on timeout, provider error or empty content.
type AIProvider interface {
	Generate(ctx context.Context, prompt string) (*entity.AIResponse, error)
}

type Embedder interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// IntentMatcher confirms that a cached prompt asks the same thing as a new one.
type IntentMatcher interface {
	IsMatch(ctx context.Context, userPrompt, cachedPrompt string) bool
}

// MetadataExtractor tags a chat question with flat attributes (subject, level).
// A nil map means nothing could be extracted.
type MetadataExtractor interface {
	ExtractMetadata(ctx context.Context, prompt string) map[string]string
}

type ProgressStore interface {
	Get(ctx context.Context, key string) (*entity.Progress, error)
	Put(ctx context.Context, p entity.Progress) error
	// Update applies fn to the stored record atomically. cur is nil when nothing
	// is stored under key; the returned value replaces it.
	Update(ctx context.Context, key string, fn func(cur *entity.Progress) (entity.Progress, error)) (*entity.Progress, error)
}

type TextExtractor interface {
	Extract(r io.ReaderAt, size int64, fileName, mimeType string) (string, error)
}
