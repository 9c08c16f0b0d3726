package user

import "context"

type Repository interface {
	GetByID(ctx context.Context, userID string) (User, bool, error)
	ListByGroup(ctx context.Context, groupID string) ([]User, error)
	ListCompetitionScores(ctx context.Context, userID string) ([]CompetitionScore, error)
}
