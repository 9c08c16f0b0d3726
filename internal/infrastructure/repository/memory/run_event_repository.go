package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fanbet/internal/domain/jobscheduler"
)

type RunEventRepository struct {
	mu    sync.RWMutex
	items map[string]jobscheduler.RunEvent
}

func NewRunEventRepository() *RunEventRepository {
	return &RunEventRepository{items: make(map[string]jobscheduler.RunEvent)}
}

func (r *RunEventRepository) UpsertEvent(_ context.Context, event jobscheduler.RunEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[event.EventID] = event
	return nil
}

func (r *RunEventRepository) ListByRun(_ context.Context, runID string) ([]jobscheduler.RunEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]jobscheduler.RunEvent, 0)
	for _, item := range r.items {
		if item.RunID == runID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.Before(out[j].OccurredAt)
		}
		return out[i].EventID < out[j].EventID
	})
	return out, nil
}
