package httpapi

import (
	"net/http"
	"time"

	"github.com/riskibarqy/fanbet/internal/domain/bet"
	"github.com/riskibarqy/fanbet/internal/usecase"
)

type placeBetRequest struct {
	UserID            string `json:"user_id" validate:"required,max=128"`
	FixtureID         string `json:"fixture_id" validate:"required,max=128"`
	PredictedHome     *int   `json:"predicted_home" validate:"required,min=0,max=99"`
	PredictedAway     *int   `json:"predicted_away" validate:"required,min=0,max=99"`
	PredictedScorerID *int64 `json:"predicted_scorer_id" validate:"omitempty,gt=0"`
}

type betDTO struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	FixtureID         string     `json:"fixture_id"`
	PredictedHome     int        `json:"predicted_home"`
	PredictedAway     int        `json:"predicted_away"`
	PredictedScorerID *int64     `json:"predicted_scorer_id,omitempty"`
	Status            string     `json:"status"`
	Points            int        `json:"points"`
	CreatedAt         time.Time  `json:"created_at"`
	EvaluatedAt       *time.Time `json:"evaluated_at,omitempty"`
}

func (h *Handler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlaceBet")
	defer span.End()

	var req placeBetRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	placed, err := h.betService.PlaceBet(ctx, usecase.PlaceBetInput{
		UserID:            req.UserID,
		FixtureID:         req.FixtureID,
		PredictedHome:     *req.PredictedHome,
		PredictedAway:     *req.PredictedAway,
		PredictedScorerID: req.PredictedScorerID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "place bet failed", "user_id", req.UserID, "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, betToDTO(placed))
}

func (h *Handler) FindBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FindBet")
	defer span.End()

	query := r.URL.Query()
	item, err := h.betService.FindBet(ctx, query.Get("user_id"), query.Get("fixture_id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, betToDTO(item))
}

func betToDTO(item bet.Bet) betDTO {
	return betDTO{
		ID:                item.ID,
		UserID:            item.UserID,
		FixtureID:         item.FixtureID,
		PredictedHome:     item.PredictedHome,
		PredictedAway:     item.PredictedAway,
		PredictedScorerID: item.PredictedScorerID,
		Status:            string(item.Status),
		Points:            item.Points,
		CreatedAt:         item.CreatedAt,
		EvaluatedAt:       item.EvaluatedAt,
	}
}
