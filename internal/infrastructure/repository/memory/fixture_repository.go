package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/fanbet/internal/domain/fixture"
)

type FixtureRepository struct {
	mu         sync.RWMutex
	items      map[string]fixture.Fixture
	byExternal map[int64]string
}

func NewFixtureRepository(fixtures []fixture.Fixture) *FixtureRepository {
	repo := &FixtureRepository{
		items:      make(map[string]fixture.Fixture, len(fixtures)),
		byExternal: make(map[int64]string, len(fixtures)),
	}
	for _, item := range fixtures {
		repo.items[item.ID] = cloneFixture(item)
		repo.byExternal[item.ExternalID] = item.ID
	}
	return repo
}

func (r *FixtureRepository) GetByID(_ context.Context, id string) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return fixture.Fixture{}, false, nil
	}
	return cloneFixture(item), true, nil
}

func (r *FixtureRepository) GetByExternalID(_ context.Context, externalID int64) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byExternal[externalID]
	if !ok {
		return fixture.Fixture{}, false, nil
	}
	return cloneFixture(r.items[id]), true, nil
}

// Save upserts by external id. An existing record keeps its internal id.
func (r *FixtureRepository) Save(_ context.Context, item fixture.Fixture) (fixture.Fixture, error) {
	if item.ExternalID <= 0 {
		return fixture.Fixture{}, fmt.Errorf("fixture external id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existingID, ok := r.byExternal[item.ExternalID]; ok {
		item.ID = existingID
		if item.Events == nil {
			item.Events = r.items[existingID].Events
		}
	} else if item.ID == "" {
		return fixture.Fixture{}, fmt.Errorf("fixture id is required for new fixture %d", item.ExternalID)
	}

	r.items[item.ID] = cloneFixture(item)
	r.byExternal[item.ExternalID] = item.ID
	return cloneFixture(item), nil
}

// Len is the number of stored fixtures.
func (r *FixtureRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func cloneFixture(f fixture.Fixture) fixture.Fixture {
	copied := f
	if f.Events != nil {
		copied.Events = append([]fixture.Event(nil), f.Events...)
	}
	copied.Home.Score = cloneInt(f.Home.Score)
	copied.Away.Score = cloneInt(f.Away.Score)
	return copied
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
