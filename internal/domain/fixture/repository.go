package fixture

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Fixture, bool, error)
	GetByExternalID(ctx context.Context, externalID int64) (Fixture, bool, error)
	// Save inserts a fixture by external id or updates its mutable fields, returning the stored row.
	Save(ctx context.Context, item Fixture) (Fixture, error)
}
