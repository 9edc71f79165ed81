package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"student-assistant/internal/domain/entity"
	"student-assistant/internal/domain/repository"
	"student-assistant/internal/logger"
)

// Deps are the collaborators of the Orchestrator. Only Provider is required.
type Deps struct {
	Provider   repository.AIProvider
	Limiter    repository.UsageLimiter
	Cache      repository.AnswerCache
	Embedder   repository.Embedder
	Matcher    repository.IntentMatcher
	Tagger     repository.MetadataExtractor
	Progress   repository.ProgressStore
	Normalizer *Normalizer
	Log        *logger.Logger

	CacheThreshold float32
	Now            func() time.Time
	Intn           func(int) int
}

type Orchestrator struct {
	aiProvider     repository.AIProvider
	tokenLimiter   repository.UsageLimiter
	answerCache    repository.AnswerCache
	embedder       repository.Embedder
	matcher        repository.IntentMatcher
	tagger         repository.MetadataExtractor
	progress       repository.ProgressStore
	normalizer     *Normalizer
	log            *logger.Logger
	cacheThreshold float32
	now            func() time.Time
	intn           func(int) int
}

func NewOrchestrator(d Deps) *Orchestrator {
	o := &Orchestrator{
		aiProvider:     d.Provider,
		tokenLimiter:   d.Limiter,
		answerCache:    d.Cache,
		embedder:       d.Embedder,
		matcher:        d.Matcher,
		tagger:         d.Tagger,
		progress:       d.Progress,
		normalizer:     d.Normalizer,
		log:            d.Log,
		cacheThreshold: d.CacheThreshold,
		now:            d.Now,
		intn:           d.Intn,
	}
	if o.tokenLimiter == nil {
		o.tokenLimiter = unlimited{}
	}
	if o.normalizer == nil {
		o.normalizer = NewNormalizer(nil)
	}
	if o.log == nil {
		o.log = logger.Nop()
	}
	o.log = o.log.With("component", "orchestrator")
	if o.cacheThreshold <= 0 {
		o.cacheThreshold = 0.85
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.intn == nil {
		o.intn = rand.IntN
	}
	return o
}

type unlimited struct{}

func (unlimited) CheckLimit(context.Context, string) (bool, error) { return true, nil }
func (unlimited) Increment(context.Context, string, int) error { return nil }

// checkLimit fails open when the limiter itself is unavailable.
func (u *Orchestrator) checkLimit(ctx context.Context, clientID string) error {
	allowed, err := u.tokenLimiter.CheckLimit(ctx, clientID)
	if err != nil {
		u.log.Warn("rate limiter check failed, allowing request", "client", clientID, "error", err)
		return nil
	}
	if !allowed {
		return entity.ErrRateLimitExceeded
	}
	return nil
}

func (u *Orchestrator) generate(ctx context.Context, kind entity.FeatureKind, prompt string) (*entity.AIResponse, error) {
	start := u.now()
	resp, err := u.aiProvider.Generate(ctx, prompt)
	if err == nil && (resp == nil || strings.TrimSpace(resp.Content) == "") {
		err = entity.ErrEmptyContent
	}
	if err != nil {
		u.log.Error("AI provider generation failed", "feature", kind, "error", err)
		return nil, entity.AsProviderError("provider", "", err)
	}
	resp.Latency = u.now().Sub(start).Milliseconds()
	return resp, nil
}

func (u *Orchestrator) recordUsage(clientID string, tokens int) {
	if tokens <= 0 {
		return
	}
	go func() {
		// the request context may already be gone
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := u.tokenLimiter.Increment(bgCtx, clientID, tokens); err != nil {
			u.log.Warn("usage increment failed", "client", clientID, "error", err)
		}
	}()
}

// complete is the provider leg shared by every feature.
func (u *Orchestrator) complete(ctx context.Context, clientID string, kind entity.FeatureKind, prompt string) (*entity.AIResponse, error) {
	if err := u.checkLimit(ctx, clientID); err != nil {
		return nil, err
	}
	resp, err := u.generate(ctx, kind, prompt)
	if err != nil {
		return nil, err
	}
	u.recordUsage(clientID, resp.TokenCount)
	return resp, nil
}

// runStructured sends prompt and normalizes the answer, falling back locally when
// the answer cannot be normalized. Only provider and limit errors escape.
func runStructured[T any](ctx context.Context, u *Orchestrator, clientID string, kind entity.FeatureKind, prompt string, schema Schema[T], fallback func() T) (Outcome[T], error) {
	resp, err := u.complete(ctx, clientID, kind, prompt)
	if err != nil {
		return Outcome[T]{}, err
	}
	out := NormalizeOrFallback(u.normalizer, resp.Content, schema, fallback)
	if out.Fallback {
		u.log.Warn("provider output not normalized, serving fallback",
			"feature", kind, "failure", FailureKindOf(out.Cause), "error", out.Cause)
	}
	return out, nil
}

// Chat answers a tutoring question, consulting the semantic cache first when the
// question stands alone.
func (u *Orchestrator) Chat(ctx context.Context, clientID string, in entity.ChatInput) (*entity.ChatReply, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, entity.Invalid("message", "Message is required")
	}
	if err := u.checkLimit(ctx, clientID); err != nil {
		return nil, err
	}

	cacheable := u.answerCache != nil && u.embedder != nil && len(in.ConversationHistory) == 0
	var vector []float32
	var tags map[string]string
	if cacheable {
		v, err := u.embedder.CreateEmbedding(ctx, in.Message)
		if err != nil {
			u.log.Warn("embedding generation failed, skipping cache", "error", err)
			cacheable = false
		} else {
			vector = v
			if u.tagger != nil {
				tags = u.tagger.ExtractMetadata(ctx, in.Message)
			}
			cached, score, cachedPrompt, err := u.answerCache.Search(ctx, vector, u.cacheThreshold, subjectFilter(tags))
			if err != nil {
				u.log.Warn("answer cache search failed", "error", err)
			} else if cached != nil && (u.matcher == nil || u.matcher.IsMatch(ctx, in.Message, cachedPrompt)) {
				u.log.Debug("answer cache hit", "score", score)
				return u.chatReply(in, cached.Content, true), nil
			}
		}
	}

	resp, err := u.generate(ctx, entity.FeatureChat, BuildChatPrompt(in))
	if err != nil {
		return nil, err
	}
	u.recordUsage(clientID, resp.TokenCount)

	if cacheable {
		metadata := make(map[string]any, len(tags))
		for k, v := range tags {
			metadata[k] = v
		}
		go func(prompt string, resp entity.AIResponse) {
			bgCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := u.answerCache.Save(bgCtx, prompt, &resp, vector, metadata); err != nil {
				u.log.Warn("answer cache save failed", "error", err)
			}
		}(in.Message, *resp)
	}

	return u.chatReply(in, resp.Content, false), nil
}

func subjectFilter(tags map[string]string) map[string]string {
	if s := tags["subject"]; s != "" {
		return map[string]string{"subject": s}
	}
	return nil
}

func (u *Orchestrator) chatReply(in entity.ChatInput, answer string, cached bool) *entity.ChatReply {
	answer = strings.TrimSpace(answer)
	return &entity.ChatReply{
		Response:     answer,
		ResponseHTML: RenderMarkdown(answer),
		SessionID:    in.SessionID,
		Cached:       cached,
		Timestamp:    u.now().UTC(),
	}
}

// TestConnection sends a fixed greeting to the provider.
func (u *Orchestrator) TestConnection(ctx context.Context, clientID string) (string, error) {
	resp, err := u.complete(ctx, clientID, entity.FeatureChat, ConnectionTestPrompt)
	if err != nil {
		return "", fmt.Errorf("connection test: %w", err)
	}
	return strings.TrimSpace(resp.Content), nil
}
