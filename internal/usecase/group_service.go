package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/fanbet/internal/domain/fixture"
	"github.com/riskibarqy/fanbet/internal/domain/group"
	"github.com/riskibarqy/fanbet/internal/domain/user"
)

// GroupView is a read-only projection of a group with its tracked fixture and members.
type GroupView struct {
	Group          group.Group
	TrackedFixture *fixture.Fixture
	Members        []user.User
}

type GroupService struct {
	groupRepo   group.Repository
	fixtureRepo fixture.Repository
	userRepo    user.Repository
}

func NewGroupService(groupRepo group.Repository, fixtureRepo fixture.Repository, userRepo user.Repository) *GroupService {
	return &GroupService{
		groupRepo:   groupRepo,
		fixtureRepo: fixtureRepo,
		userRepo:    userRepo,
	}
}

func (s *GroupService) GetGroup(ctx context.Context, groupID string) (GroupView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GroupService.GetGroup")
	defer span.End()

	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return GroupView{}, fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}

	item, exists, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return GroupView{}, fmt.Errorf("get group: %w", err)
	}
	if !exists {
		return GroupView{}, fmt.Errorf("%w: group=%s", ErrNotFound, groupID)
	}

	view := GroupView{Group: item}
	if item.HasTrackedFixture() {
		tracked, exists, err := s.fixtureRepo.GetByID(ctx, item.TrackedFixtureID)
		if err != nil {
			return GroupView{}, fmt.Errorf("get tracked fixture: %w", err)
		}
		if exists {
			view.TrackedFixture = &tracked
		}
	}

	members, err := s.userRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return GroupView{}, fmt.Errorf("list group users: %w", err)
	}
	view.Members = members
	return view, nil
}
