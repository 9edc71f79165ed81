package entity

import (
	"errors"
	"fmt"
)

// Standard domain errors
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded: too many tokens used")
	ErrInternalServer    = errors.New("an internal error occurred")
	ErrInvalidRequest    = errors.New("invalid request parameters")
	ErrResourceNotFound  = errors.New("the requested resource was not found")
	ErrEmptyContent      = errors.New("provider returned empty content")
)

// ValidationError is a missing or malformed client field. It never reaches the provider.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ProviderError wraps any failure of the generative provider call.
type ProviderError struct {
	Provider string
	Model    string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("%s (%s): %v", e.Provider, e.Model, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// AsProviderError wraps err unless it already is a ProviderError.
func AsProviderError(provider, model string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &ProviderError{Provider: provider, Model: model, Err: err}
}
