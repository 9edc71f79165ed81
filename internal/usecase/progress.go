package usecase

import (
	"context"
	"slices"

	"student-assistant/internal/domain/entity"
)

func planProgressKey(planID string) string {
	return "plan:" + planID
}

func roadmapProgressKey(roadmapID, userID string) string {
	return "roadmap:" + roadmapID + ":" + userID
}

// GetPlanProgress returns the stored progress, or a fresh record starting at week one.
func (u *Orchestrator) GetPlanProgress(ctx context.Context, planID string) (*entity.Progress, error) {
	return u.getProgress(ctx, planProgressKey(planID))
}

// SavePlanProgress replaces the progress of a plan.
func (u *Orchestrator) SavePlanProgress(ctx context.Context, planID string, p entity.Progress) (*entity.Progress, error) {
	if p.CompletedHours < 0 {
		return nil, entity.Invalid("completedHours", "Completed hours cannot be negative")
	}
	return u.putProgress(ctx, planProgressKey(planID), p)
}

func (u *Orchestrator) GetRoadmapProgress(ctx context.Context, roadmapID, userID string) (*entity.Progress, error) {
	r, ok := RoadmapByID(roadmapID)
	if !ok {
		return nil, entity.ErrResourceNotFound
	}
	p, err := u.getProgress(ctx, roadmapProgressKey(roadmapID, userID))
	if err != nil {
		return nil, err
	}
	if p.CurrentStep == 0 {
		p.CurrentStep = nextStep(p.CompletedSteps, r.TotalSteps)
	}
	return p, nil
}

// StepUpdate marks one roadmap step done or undone. TimeSpent is in minutes.
type StepUpdate struct {
	StepID    int     `json:"stepId"`
	Completed bool    `json:"completed"`
	TimeSpent float64 `json:"timeSpent"`
}

func (u *Orchestrator) UpdateRoadmapProgress(ctx context.Context, roadmapID, userID string, upd StepUpdate) (*entity.Progress, error) {
	r, ok := RoadmapByID(roadmapID)
	if !ok {
		return nil, entity.ErrResourceNotFound
	}
	if upd.StepID < 1 || upd.StepID > r.TotalSteps {
		return nil, entity.Invalid("stepId", "Step does not exist in this roadmap")
	}
	if upd.TimeSpent < 0 {
		return nil, entity.Invalid("timeSpent", "Time spent cannot be negative")
	}

	return u.updateProgress(ctx, roadmapProgressKey(roadmapID, userID), func(p *entity.Progress) {
		done := slices.Contains(p.CompletedSteps, upd.StepID)
		switch {
		case upd.Completed && !done:
			p.CompletedSteps = append(p.CompletedSteps, upd.StepID)
			slices.Sort(p.CompletedSteps)
		case !upd.Completed && done:
			p.CompletedSteps = slices.DeleteFunc(p.CompletedSteps, func(id int) bool { return id == upd.StepID })
		}
		p.CompletedHours += upd.TimeSpent / 60
		p.CurrentStep = nextStep(p.CompletedSteps, r.TotalSteps)
	})
}

// nextStep is the lowest step not yet completed, or total once everything is done.
func nextStep(completed []int, total int) int {
	for i := 1; i <= total; i++ {
		if !slices.Contains(completed, i) {
			return i
		}
	}
	return total
}

func (u *Orchestrator) getProgress(ctx context.Context, key string) (*entity.Progress, error) {
	if u.progress == nil {
		return freshProgress(key), nil
	}
	p, err := u.progress.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return freshProgress(key), nil
	}
	return p, nil
}

// updateProgress runs mutate against the latest stored record in a single
// store transaction.
func (u *Orchestrator) updateProgress(ctx context.Context, key string, mutate func(*entity.Progress)) (*entity.Progress, error) {
	apply := func(cur *entity.Progress) (entity.Progress, error) {
		if cur == nil {
			cur = freshProgress(key)
		}
		mutate(cur)
		return u.stamp(key, *cur), nil
	}
	if u.progress == nil {
		p, _ := apply(nil)
		return &p, nil
	}
	return u.progress.Update(ctx, key, apply)
}

func (u *Orchestrator) stamp(key string, p entity.Progress) entity.Progress {
	now := u.now().UTC()
	p.Key = key
	p.LastUpdate = &now
	if p.CompletedTopics == nil {
		p.CompletedTopics = []string{}
	}
	if p.CurrentWeek < 1 {
		p.CurrentWeek = 1
	}
	return p
}

func (u *Orchestrator) putProgress(ctx context.Context, key string, p entity.Progress) (*entity.Progress, error) {
	p = u.stamp(key, p)
	if u.progress != nil {
		if err := u.progress.Put(ctx, p); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func freshProgress(key string) *entity.Progress {
	return &entity.Progress{
		Key:             key,
		CompletedTopics: []string{},
		CurrentWeek:     1,
	}
}
