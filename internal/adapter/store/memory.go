package store

import (
	"context"
	"slices"
	"sync"

	"student-assistant/internal/domain/entity"
)

// MemoryProgressStore keeps progress in process memory. Used when Redis is not configured.
type MemoryProgressStore struct {
	mu    sync.RWMutex
	items map[string]entity.Progress
}

func NewMemoryProgressStore() *MemoryProgressStore {
	return &MemoryProgressStore{items: make(map[string]entity.Progress)}
}

func (s *MemoryProgressStore) Get(_ context.Context, key string) (*entity.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[key]
	if !ok {
		return nil, nil
	}
	p.CompletedTopics = slices.Clone(p.CompletedTopics)
	p.CompletedSteps = slices.Clone(p.CompletedSteps)
	return &p, nil
}

func (s *MemoryProgressStore) Put(_ context.Context, p entity.Progress) error {
	p.CompletedTopics = slices.Clone(p.CompletedTopics)
	p.CompletedSteps = slices.Clone(p.CompletedSteps)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[p.Key] = p
	return nil
}

// Update holds the write lock while fn runs.
func (s *MemoryProgressStore) Update(_ context.Context, key string, fn func(cur *entity.Progress) (entity.Progress, error)) (*entity.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cur *entity.Progress
	if p, ok := s.items[key]; ok {
		p.CompletedTopics = slices.Clone(p.CompletedTopics)
		p.CompletedSteps = slices.Clone(p.CompletedSteps)
		cur = &p
	}
	next, err := fn(cur)
	if err != nil {
		return nil, err
	}
	next.Key = key
	stored := next
	stored.CompletedTopics = slices.Clone(next.CompletedTopics)
	stored.CompletedSteps = slices.Clone(next.CompletedSteps)
	s.items[key] = stored
	return &next, nil
}
