package cache

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/fanbet/internal/domain/group"
	"github.com/riskibarqy/fanbet/internal/domain/user"
	basecache "github.com/riskibarqy/fanbet/internal/platform/cache"
)

const (
	groupListKey   = "group:list"
	groupKeyPrefix = "group:"
)

// GroupRepository caches group reads in front of a slower store. Writes go straight
// to next and drop every cached group entry.
type GroupRepository struct {
	next group.Repository
	list *basecache.Store[cachedGroupList]
	byID *basecache.Store[cachedGroupByID]
}

// cachedGroupList keeps the groups that loaded together with the ones that did not.
type cachedGroupList struct {
	items   []group.Group
	invalid *group.ListError
}

type cachedGroupByID struct {
	value  group.Group
	exists bool
}

func NewGroupRepository(next group.Repository, ttl time.Duration) *GroupRepository {
	return &GroupRepository{
		next: next,
		list: basecache.NewStore[cachedGroupList](ttl),
		byID: basecache.NewStore[cachedGroupByID](ttl),
	}
}

func (r *GroupRepository) List(ctx context.Context) ([]group.Group, error) {
	cached, err := r.list.GetOrLoad(ctx, groupListKey, func(ctx context.Context) (cachedGroupList, error) {
		items, err := r.next.List(ctx)
		var partial *group.ListError
		if errors.As(err, &partial) {
			return cachedGroupList{items: items, invalid: partial}, nil
		}
		if err != nil {
			return cachedGroupList{}, err
		}
		return cachedGroupList{items: items}, nil
	})
	if err != nil {
		return nil, err
	}
	if cached.invalid != nil {
		return cloneGroups(cached.items), cached.invalid
	}
	return cloneGroups(cached.items), nil
}

func (r *GroupRepository) GetByID(ctx context.Context, groupID string) (group.Group, bool, error) {
	cached, err := r.byID.GetOrLoad(ctx, groupKeyPrefix+groupID, func(ctx context.Context) (cachedGroupByID, error) {
		item, exists, err := r.next.GetByID(ctx, groupID)
		if err != nil {
			return cachedGroupByID{}, err
		}
		return cachedGroupByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return group.Group{}, false, err
	}
	return cached.value.Clone(), cached.exists, nil
}

func (r *GroupRepository) SetTrackedFixture(ctx context.Context, groupID, fixtureID string) error {
	err := r.next.SetTrackedFixture(ctx, groupID, fixtureID)
	r.list.Delete(ctx, groupListKey)
	r.byID.DeletePrefix(ctx, groupKeyPrefix)
	return err
}

func cloneGroups(items []group.Group) []group.Group {
	out := make([]group.Group, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}

// UserRepository caches membership lookups. Competition scores change on every
// evaluated bet, so they always read through.
type UserRepository struct {
	next    user.Repository
	byID    *basecache.Store[cachedUserByID]
	byGroup *basecache.Store[[]user.User]
}

type cachedUserByID struct {
	value  user.User
	exists bool
}

func NewUserRepository(next user.Repository, ttl time.Duration) *UserRepository {
	return &UserRepository{
		next:    next,
		byID:    basecache.NewStore[cachedUserByID](ttl),
		byGroup: basecache.NewStore[[]user.User](ttl),
	}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	cached, err := r.byID.GetOrLoad(ctx, "user:"+userID, func(ctx context.Context) (cachedUserByID, error) {
		item, exists, err := r.next.GetByID(ctx, userID)
		if err != nil {
			return cachedUserByID{}, err
		}
		return cachedUserByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return user.User{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *UserRepository) ListByGroup(ctx context.Context, groupID string) ([]user.User, error) {
	items, err := r.byGroup.GetOrLoad(ctx, "user:group:"+groupID, func(ctx context.Context) ([]user.User, error) {
		return r.next.ListByGroup(ctx, groupID)
	})
	if err != nil {
		return nil, err
	}
	return append([]user.User(nil), items...), nil
}

func (r *UserRepository) ListCompetitionScores(ctx context.Context, userID string) ([]user.CompetitionScore, error) {
	return r.next.ListCompetitionScores(ctx, userID)
}
