package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fanbet/internal/domain/bet"
	qb "github.com/riskibarqy/fanbet/internal/platform/querybuilder"
)

type BetRepository struct {
	db *sqlx.DB
}

func NewBetRepository(db *sqlx.DB) *BetRepository {
	return &BetRepository{db: db}
}

func (r *BetRepository) GetByUserAndFixture(ctx context.Context, userID, fixtureID string) (bet.Bet, bool, error) {
	query, args, err := qb.Select("*").From("bets").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("fixture_id", fixtureID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("build get bet query: %w", err)
	}

	var row betTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return bet.Bet{}, false, nil
		}
		return bet.Bet{}, false, fmt.Errorf("get bet user=%s fixture=%s: %w", userID, fixtureID, err)
	}
	return betFromRow(row), true, nil
}

func (r *BetRepository) Create(ctx context.Context, item bet.Bet) error {
	status := item.Status
	if status == "" {
		status = bet.StatusPending
	}
	model := betInsertModel{
		ID:                item.ID,
		UserID:            item.UserID,
		FixtureID:         item.FixtureID,
		PredictedHome:     item.PredictedHome,
		PredictedAway:     item.PredictedAway,
		PredictedScorerID: item.PredictedScorerID,
		Status:            string(status),
		Points:            item.Points,
		CreatedAt:         item.CreatedAt.UTC(),
	}

	query, args, err := qb.InsertModel("bets", model, "")
	if err != nil {
		return fmt.Errorf("build insert bet query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return bet.ErrDuplicate
		}
		return fmt.Errorf("insert bet id=%s: %w", item.ID, err)
	}
	return nil
}

// MarkEvaluated settles the bet and credits the competition score in one transaction.
// The conditional update makes a repeated call a no-op.
func (r *BetRepository) MarkEvaluated(ctx context.Context, evaluation bet.Evaluation) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx for bet evaluation: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	evaluatedAt := evaluation.EvaluatedAt.UTC()
	updateQuery, updateArgs, err := qb.Update("bets").
		Set("status", string(bet.StatusEvaluated)).
		Set("points", evaluation.Points).
		Set("evaluated_at", evaluatedAt).
		Where(
			qb.Eq("id", evaluation.BetID),
			qb.Eq("status", string(bet.StatusPending)),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build mark bet evaluated query: %w", err)
	}

	result, err := tx.ExecContext(ctx, updateQuery, updateArgs...)
	if err != nil {
		return false, fmt.Errorf("mark bet evaluated id=%s: %w", evaluation.BetID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read affected rows for bet=%s: %w", evaluation.BetID, err)
	}
	if affected == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists, tx.Rebind(`SELECT EXISTS (SELECT 1 FROM bets WHERE id = ?)`), evaluation.BetID); err != nil {
			return false, fmt.Errorf("check bet exists id=%s: %w", evaluation.BetID, err)
		}
		if !exists {
			return false, fmt.Errorf("bet not found: %s", evaluation.BetID)
		}
		return false, nil
	}

	const upsertScoreQuery = `
INSERT INTO competition_scores (user_id, competition_id, season, points, updated_at)
VALUES (:user_id, :competition_id, :season, :points, :updated_at)
ON CONFLICT (user_id, competition_id, season)
DO UPDATE SET
    points = competition_scores.points + EXCLUDED.points,
    updated_at = EXCLUDED.updated_at`

	scoreSQL, scoreArgs, err := sqlx.Named(upsertScoreQuery, map[string]any{
		"user_id":        evaluation.UserID,
		"competition_id": evaluation.CompetitionID,
		"season":         evaluation.Season,
		"points":         evaluation.Points,
		"updated_at":     evaluatedAt,
	})
	if err != nil {
		return false, fmt.Errorf("bind upsert competition score query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(scoreSQL), scoreArgs...); err != nil {
		return false, fmt.Errorf("credit competition score user=%s: %w", evaluation.UserID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit bet evaluation id=%s: %w", evaluation.BetID, err)
	}
	return true, nil
}

func betFromRow(row betTableModel) bet.Bet {
	return bet.Bet{
		ID:                row.ID,
		UserID:            row.UserID,
		FixtureID:         row.FixtureID,
		PredictedHome:     row.PredictedHome,
		PredictedAway:     row.PredictedAway,
		PredictedScorerID: nullInt64ToInt64Ptr(row.PredictedScorerID),
		Status:            bet.Status(row.Status),
		Points:            row.Points,
		CreatedAt:         row.CreatedAt,
		EvaluatedAt:       row.EvaluatedAt,
	}
}
