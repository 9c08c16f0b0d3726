package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fanbet/internal/infrastructure/repository/memory"
)

// BootstrapSeed inserts the sample group and its members into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM groups`); err != nil {
		return fmt.Errorf("count groups for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, g := range memory.SeedGroups() {
		if err := g.FollowedTeam.Validate(); err != nil {
			return fmt.Errorf("seed group %s: %w", g.ID, err)
		}
		followedTeam, err := encodeJSON(followedTeamToDocument(g.FollowedTeam), "{}")
		if err != nil {
			return fmt.Errorf("encode seed group %s followed team: %w", g.ID, err)
		}
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO groups (id, name, followed_team, created_at, updated_at)
VALUES (:id, :name, CAST(:followed_team AS JSONB), :created_at, :updated_at)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":            g.ID,
			"name":          g.Name,
			"followed_team": followedTeam,
			"created_at":    g.CreatedAt,
			"updated_at":    g.UpdatedAt,
		})
		if err != nil {
			return fmt.Errorf("bind seed group %s query: %w", g.ID, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed group %s: %w", g.ID, err)
		}
	}

	for _, u := range memory.SeedUsers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO users (id, group_id, name, created_at)
VALUES (:id, :group_id, :name, :created_at)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":         u.ID,
			"group_id":   u.GroupID,
			"name":       u.Name,
			"created_at": u.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("bind seed user %s query: %w", u.ID, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
