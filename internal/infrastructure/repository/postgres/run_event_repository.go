package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fanbet/internal/domain/jobscheduler"
	qb "github.com/riskibarqy/fanbet/internal/platform/querybuilder"
)

type RunEventRepository struct {
	db *sqlx.DB
}

func NewRunEventRepository(db *sqlx.DB) *RunEventRepository {
	return &RunEventRepository{db: db}
}

func (r *RunEventRepository) UpsertEvent(ctx context.Context, event jobscheduler.RunEvent) error {
	eventID := strings.TrimSpace(event.EventID)
	if eventID == "" {
		return fmt.Errorf("run event id is required")
	}
	runID := strings.TrimSpace(event.RunID)
	if runID == "" {
		return fmt.Errorf("run id is required")
	}

	step := strings.TrimSpace(event.Step)
	if step == "" {
		step = "unknown"
	}
	trigger := strings.TrimSpace(event.Trigger)
	if trigger == "" {
		trigger = jobscheduler.TriggerSchedule
	}

	occurredAt := event.OccurredAt.UTC()
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	payloadJSON, err := encodeJSON(event.Payload, "{}")
	if err != nil {
		return fmt.Errorf("marshal run event payload: %w", err)
	}

	model := runEventInsertModel{
		EventID:      eventID,
		RunID:        runID,
		Trigger:      trigger,
		Step:         step,
		GroupID:      optionalString(event.GroupID),
		Status:       string(event.Status),
		Payload:      payloadJSON,
		ErrorMessage: optionalString(event.ErrorMessage),
		OccurredAt:   occurredAt,
		TraceID:      optionalString(event.TraceID),
		SpanID:       optionalString(event.SpanID),
	}

	query, args, err := qb.InsertModel("cycle_run_events", model, `ON CONFLICT (event_id)
DO UPDATE SET
    status = EXCLUDED.status,
    payload = EXCLUDED.payload,
    error_message = CASE
        WHEN EXCLUDED.status IN ('failed', 'skipped') THEN EXCLUDED.error_message
        ELSE NULL
    END,
    occurred_at = EXCLUDED.occurred_at,
    trace_id = COALESCE(EXCLUDED.trace_id, cycle_run_events.trace_id),
    span_id = COALESCE(EXCLUDED.span_id, cycle_run_events.span_id)`)
	if err != nil {
		return fmt.Errorf("build upsert run event query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert run event event_id=%s status=%s: %w", eventID, event.Status, err)
	}
	return nil
}

func (r *RunEventRepository) ListByRun(ctx context.Context, runID string) ([]jobscheduler.RunEvent, error) {
	query, args, err := qb.Select("*").From("cycle_run_events").
		Where(qb.Eq("run_id", runID)).
		OrderBy("occurred_at", "event_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list run events query: %w", err)
	}

	var rows []runEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list run events run_id=%s: %w", runID, err)
	}

	out := make([]jobscheduler.RunEvent, 0, len(rows))
	for _, row := range rows {
		payload := map[string]any{}
		if err := decodeJSON(row.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode run event payload event_id=%s: %w", row.EventID, err)
		}
		out = append(out, jobscheduler.RunEvent{
			EventID:      row.EventID,
			RunID:        row.RunID,
			Trigger:      row.Trigger,
			Step:         row.Step,
			GroupID:      row.GroupID.String,
			Status:       jobscheduler.RunStatus(row.Status),
			Payload:      payload,
			ErrorMessage: row.ErrorMessage.String,
			OccurredAt:   row.OccurredAt,
			TraceID:      row.TraceID.String,
			SpanID:       row.SpanID.String,
		})
	}
	return out, nil
}
