package jobscheduler

import "context"

type Repository interface {
	UpsertEvent(ctx context.Context, event RunEvent) error
	ListByRun(ctx context.Context, runID string) ([]RunEvent, error)
}
