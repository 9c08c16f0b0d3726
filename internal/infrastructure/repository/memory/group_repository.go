package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/fanbet/internal/domain/group"
)

type GroupRepository struct {
	mu    sync.RWMutex
	items map[string]group.Group
	now   func() time.Time
}

func NewGroupRepository(groups []group.Group) *GroupRepository {
	items := make(map[string]group.Group, len(groups))
	for _, item := range groups {
		items[item.ID] = item.Clone()
	}
	return &GroupRepository{items: items, now: time.Now}
}

func (r *GroupRepository) List(_ context.Context) ([]group.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]group.Group, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *GroupRepository) GetByID(_ context.Context, groupID string) (group.Group, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[groupID]
	if !ok {
		return group.Group{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *GroupRepository) SetTrackedFixture(_ context.Context, groupID, fixtureID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[groupID]
	if !ok {
		return fmt.Errorf("group not found: %s", groupID)
	}
	item.TrackedFixtureID = fixtureID
	item.UpdatedAt = r.now().UTC()
	r.items[groupID] = item
	return nil
}
