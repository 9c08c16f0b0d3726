package jobscheduler

import "time"

type RunStatus string

const (
	StatusStarted   RunStatus = "started"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
	StatusSkipped   RunStatus = "skipped"
)

const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
	TriggerStartup  = "startup"
)

// RunEvent is one journal entry of a cycle pass. Group level entries carry GroupID;
// pass level entries leave it empty.
type RunEvent struct {
	EventID      string
	RunID        string
	Trigger      string
	Step         string
	GroupID      string
	Status       RunStatus
	Payload      map[string]any
	ErrorMessage string
	OccurredAt   time.Time
	TraceID      string
	SpanID       string
}
