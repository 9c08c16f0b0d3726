package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fanbet/internal/domain/user"
	qb "github.com/riskibarqy/fanbet/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	query, args, err := qb.Select("*").From("users").
		Where(qb.Eq("id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user id=%s: %w", userID, err)
	}
	return user.User(row), true, nil
}

func (r *UserRepository) ListByGroup(ctx context.Context, groupID string) ([]user.User, error) {
	query, args, err := qb.Select("*").From("users").
		Where(qb.Eq("group_id", groupID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list users by group query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list users by group=%s: %w", groupID, err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, user.User(row))
	}
	return out, nil
}

func (r *UserRepository) ListCompetitionScores(ctx context.Context, userID string) ([]user.CompetitionScore, error) {
	query, args, err := qb.Select("*").From("competition_scores").
		Where(qb.Eq("user_id", userID)).
		OrderBy("season DESC", "competition_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list competition scores query: %w", err)
	}

	var rows []competitionScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list competition scores user=%s: %w", userID, err)
	}

	out := make([]user.CompetitionScore, 0, len(rows))
	for _, row := range rows {
		out = append(out, user.CompetitionScore(row))
	}
	return out, nil
}
