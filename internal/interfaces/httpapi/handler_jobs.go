package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fanbet/internal/domain/jobscheduler"
	"github.com/riskibarqy/fanbet/internal/usecase"
)

var internalJobDispatchUnsafeRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

type runCycleRequest struct {
	GroupID    string `json:"group_id" validate:"omitempty,max=128"`
	DispatchID string `json:"dispatch_id" validate:"omitempty,max=128"`
	// Wait keeps the request open until the pass finishes. Single-group runs always wait.
	Wait bool `json:"wait"`
}

type runCycleAcceptedDTO struct {
	RunID   string `json:"run_id"`
	Trigger string `json:"trigger"`
	Status  string `json:"status"`
}

// RunCycleJob triggers one orchestration pass. A pass over every group sleeps between
// groups, so it is started in the background unless the caller asks to wait.
func (h *Handler) RunCycleJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunCycleJob")
	defer span.End()

	if h.cycle == nil {
		writeError(ctx, w, fmt.Errorf("%w: cycle orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req runCycleRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	runID := strings.TrimSpace(req.DispatchID)
	if runID == "" {
		runID = buildManualDispatchID("run-cycle", req.GroupID, h.now())
	}
	input := usecase.RunCycleInput{
		Trigger: jobscheduler.TriggerManual,
		GroupID: strings.TrimSpace(req.GroupID),
		RunID:   runID,
	}

	if input.GroupID != "" || req.Wait {
		result, err := h.cycle.RunOnce(ctx, input)
		if err != nil {
			h.logger.WarnContext(ctx, "run cycle job failed", "group_id", input.GroupID, "run_id", runID, "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, result)
		return
	}

	if h.cycle.Running() {
		writeError(ctx, w, usecase.ErrCycleInProgress)
		return
	}

	bgCtx := context.WithoutCancel(ctx)
	h.background(func() {
		started := time.Now()
		result, err := h.cycle.RunOnce(bgCtx, input)
		if err != nil {
			h.logger.WarnContext(bgCtx, "background cycle pass failed", "run_id", runID, "error", err)
			return
		}
		h.logger.InfoContext(bgCtx, "background cycle pass finished",
			"run_id", result.RunID,
			"groups", result.GroupCount,
			"faults", result.FaultCount,
			"duration", time.Since(started),
		)
	})

	writeSuccess(ctx, w, http.StatusAccepted, runCycleAcceptedDTO{
		RunID:   runID,
		Trigger: input.Trigger,
		Status:  "accepted",
	})
}

func buildManualDispatchID(jobName, groupID string, now time.Time) string {
	jobName = sanitizeDispatchPart(jobName)
	groupID = sanitizeDispatchPart(groupID)
	return "manual-" + jobName + "-" + groupID + "-" + strconv.FormatInt(now.UTC().UnixNano(), 10)
}

func sanitizeDispatchPart(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "all"
	}
	return internalJobDispatchUnsafeRegex.ReplaceAllString(value, "-")
}
