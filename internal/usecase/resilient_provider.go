package usecase

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"student-assistant/internal/domain/entity"
	"student-assistant/internal/domain/repository"
	"student-assistant/internal/logger"
)

type ResilientProvider struct {
	primary    repository.AIProvider
	fallback   repository.AIProvider // optional cheaper model, tried once
	maxRetries int
	baseDelay  time.Duration
	timeout    time.Duration // cap per generation, retries included
	log        *logger.Logger
}

func NewResilientProvider(log *logger.Logger, primary, fallback repository.AIProvider, timeout time.Duration) *ResilientProvider {
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ResilientProvider{
		primary:    primary,
		fallback:   fallback,
		maxRetries: 2, // 3 attempts on the primary
		baseDelay:  500 * time.Millisecond,
		timeout:    timeout,
		log:        log.With("component", "resilient_provider"),
	}
}

func (r *ResilientProvider) Generate(ctx context.Context, prompt string) (*entity.AIResponse, error) {
	resCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.executeWithRetry(resCtx, r.primary, prompt)
	if err == nil {
		return resp, nil
	}
	if r.fallback == nil || resCtx.Err() != nil {
		return nil, entity.AsProviderError("primary", "", err)
	}

	r.log.Warn("primary exhausted, switching to fallback model", "error", err)

	resp, err = r.fallback.Generate(resCtx, prompt)
	if err != nil {
		return nil, entity.AsProviderError("fallback", "", err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return nil, entity.AsProviderError("fallback", resp.Model, entity.ErrEmptyContent)
	}
	if resp.Metadata == nil {
		resp.Metadata = make(map[string]any)
	}
	resp.Metadata["fallback_used"] = true
	return resp, nil
}

func (r *ResilientProvider) executeWithRetry(ctx context.Context, p repository.AIProvider, prompt string) (*entity.AIResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		resp, err := p.Generate(ctx, prompt)
		if err == nil && strings.TrimSpace(resp.Content) == "" {
			err = entity.AsProviderError("primary", resp.Model, entity.ErrEmptyContent)
		}
		if err == nil {
			if attempt > 0 {
				if resp.Metadata == nil {
					resp.Metadata = make(map[string]any)
				}
				resp.Metadata["retry_count"] = attempt
			}
			return resp, nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == r.maxRetries {
			break
		}

		wait := r.calculateBackoff(attempt)
		r.log.Debug("retrying provider call", "attempt", attempt+1, "wait_ms", wait.Milliseconds(), "error", err)
		select {
		case <-time.After(wait):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func isRetryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := strings.ToLower(err.Error())
	// Rate limits (429) and server errors (5xx)
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "500") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "unavailable") ||
		strings.Contains(msg, "empty content")
}

func (r *ResilientProvider) calculateBackoff(attempt int) time.Duration {
	backoff := float64(r.baseDelay) * float64(int(1)<<attempt)
	jitter := (rand.Float64() * 0.2) * backoff // 20% jitter
	return time.Duration(backoff + jitter)
}
