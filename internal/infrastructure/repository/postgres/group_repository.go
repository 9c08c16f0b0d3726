package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fanbet/internal/domain/group"
	qb "github.com/riskibarqy/fanbet/internal/platform/querybuilder"
)

type GroupRepository struct {
	db *sqlx.DB
}

func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) List(ctx context.Context) ([]group.Group, error) {
	query, args, err := qb.Select("*").From("groups").
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list groups query: %w", err)
	}

	var rows []groupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	if len(rows) == 0 {
		return []group.Group{}, nil
	}

	groupIDs := make([]any, 0, len(rows))
	for _, row := range rows {
		groupIDs = append(groupIDs, row.ID)
	}
	members, err := r.memberIDs(ctx, groupIDs)
	if err != nil {
		return nil, err
	}

	return groupsFromRows(rows, members)
}

// groupsFromRows keeps every row that decodes and validates; the others are
// returned as a *group.ListError next to them.
func groupsFromRows(rows []groupTableModel, members map[string][]string) ([]group.Group, error) {
	out := make([]group.Group, 0, len(rows))
	var invalid []*group.InvalidGroupError
	for _, row := range rows {
		item, err := groupFromRow(row, members[row.ID])
		if err != nil {
			var bad *group.InvalidGroupError
			if !errors.As(err, &bad) {
				return nil, err
			}
			invalid = append(invalid, bad)
			continue
		}
		out = append(out, item)
	}
	if len(invalid) > 0 {
		return out, &group.ListError{Invalid: invalid}
	}
	return out, nil
}

func (r *GroupRepository) GetByID(ctx context.Context, groupID string) (group.Group, bool, error) {
	query, args, err := qb.Select("*").From("groups").
		Where(qb.Eq("id", groupID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return group.Group{}, false, fmt.Errorf("build get group query: %w", err)
	}

	var row groupTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return group.Group{}, false, nil
		}
		return group.Group{}, false, fmt.Errorf("get group id=%s: %w", groupID, err)
	}

	members, err := r.memberIDs(ctx, []any{row.ID})
	if err != nil {
		return group.Group{}, false, err
	}
	item, err := groupFromRow(row, members[row.ID])
	if err != nil {
		return group.Group{}, false, err
	}
	return item, true, nil
}

func (r *GroupRepository) SetTrackedFixture(ctx context.Context, groupID, fixtureID string) error {
	query, args, err := qb.Update("groups").
		Set("tracked_fixture_id", optionalString(fixtureID)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", groupID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set tracked fixture query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set tracked fixture group=%s: %w", groupID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows for group=%s: %w", groupID, err)
	}
	if affected == 0 {
		return fmt.Errorf("group not found: %s", groupID)
	}
	return nil
}

func (r *GroupRepository) memberIDs(ctx context.Context, groupIDs []any) (map[string][]string, error) {
	query, args, err := qb.Select("id", "group_id").From("users").
		Where(qb.In("group_id", groupIDs)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list group members query: %w", err)
	}

	var rows []struct {
		ID      string `db:"id"`
		GroupID string `db:"group_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}

	out := make(map[string][]string, len(groupIDs))
	for _, row := range rows {
		out[row.GroupID] = append(out[row.GroupID], row.ID)
	}
	return out, nil
}

func groupFromRow(row groupTableModel, memberIDs []string) (group.Group, error) {
	var doc followedTeamDocument
	if err := decodeJSON(row.FollowedTeam, &doc); err != nil {
		return group.Group{}, &group.InvalidGroupError{GroupID: row.ID, Err: fmt.Errorf("decode followed team: %w", err)}
	}
	team := doc.toDomain()
	if err := team.Validate(); err != nil {
		return group.Group{}, &group.InvalidGroupError{GroupID: row.ID, Err: err}
	}
	return group.Group{
		ID:               row.ID,
		Name:             row.Name,
		FollowedTeam:     team,
		TrackedFixtureID: row.TrackedFixtureID.String,
		MemberIDs:        memberIDs,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}, nil
}
