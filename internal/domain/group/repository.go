package group

import "context"

type Repository interface {
	// List returns every valid group. Groups that fail to load are reported through a
	// *ListError returned together with the rest.
	List(ctx context.Context) ([]Group, error)
	GetByID(ctx context.Context, groupID string) (Group, bool, error)
	// SetTrackedFixture points the group at fixtureID. An empty id clears the reference.
	SetTrackedFixture(ctx context.Context, groupID, fixtureID string) error
}
