package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/fanbet/internal/platform/logging"
	"github.com/riskibarqy/fanbet/internal/usecase"
)

// CycleRunner is the orchestrator surface exposed to the manual trigger.
type CycleRunner interface {
	RunOnce(ctx context.Context, input usecase.RunCycleInput) (usecase.CycleResult, error)
	Running() bool
}

type Handler struct {
	cycle        CycleRunner
	betService   *usecase.BetService
	groupService *usecase.GroupService
	logger       *logging.Logger
	validator    *validator.Validate
	now          func() time.Time
	// background receives asynchronous cycle passes; tests replace it to run inline.
	background func(fn func())
}

func NewHandler(
	cycle CycleRunner,
	betService *usecase.BetService,
	groupService *usecase.GroupService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		cycle:        cycle,
		betService:   betService,
		groupService: groupService,
		logger:       logger,
		validator:    validator.New(),
		now:          time.Now,
		background:   func(fn func()) { go fn() },
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	payload := map[string]any{"status": "ok"}
	if h.cycle != nil {
		payload["cycle_running"] = h.cycle.Running()
	}
	writeSuccess(ctx, w, http.StatusOK, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSONBody rejects unknown fields. An empty body leaves target untouched.
func decodeJSONBody(r *http.Request, target any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
