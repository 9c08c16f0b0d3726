package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fanbet/internal/usecase"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if got, _ := body["apiVersion"].(string); got != apiVersion {
		t.Fatalf("unexpected apiVersion: got=%v want=%s", body["apiVersion"], apiVersion)
	}
	return body
}

func TestWriteSuccess_DataOnly(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusCreated, map[string]string{"id": "bet-1"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusCreated)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := decodeEnvelope(t, rec)
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_Classification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantCode   int
		wantReason string
		wantStatus string
	}{
		{"invalid", fmt.Errorf("%w: home_score is required", usecase.ErrInvalidInput), http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"},
		{"not found", fmt.Errorf("%w: bet bet-9", usecase.ErrNotFound), http.StatusNotFound, "notFound", "NOT_FOUND"},
		{"duplicate bet", fmt.Errorf("%w: bet exists", usecase.ErrConflict), http.StatusConflict, "conflict", "ALREADY_EXISTS"},
		{"cycle running", usecase.ErrCycleInProgress, http.StatusConflict, "cycleInProgress", "ABORTED"},
		{"provider down", &usecase.DataProviderError{Endpoint: "/fixtures", StatusCode: 502}, http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"},
		{"unknown", errors.New("pq: relation does not exist"), http.StatusInternalServerError, "internalError", "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			writeError(context.Background(), rec, tc.err)
			if rec.Code != tc.wantCode {
				t.Fatalf("unexpected status: got=%d want=%d", rec.Code, tc.wantCode)
			}

			body := decodeEnvelope(t, rec)
			errObj, ok := body["error"].(map[string]any)
			if !ok {
				t.Fatalf("expected error object in response")
			}
			if got, _ := errObj["status"].(string); got != tc.wantStatus {
				t.Fatalf("unexpected error status: got=%s want=%s", got, tc.wantStatus)
			}
			items, _ := errObj["errors"].([]any)
			if len(items) != 1 {
				t.Fatalf("expected one error item, got %d", len(items))
			}
			item, _ := items[0].(map[string]any)
			if item["reason"] != tc.wantReason || item["domain"] != errorDomain {
				t.Fatalf("unexpected error item: %v", item)
			}
		})
	}
}

func TestWriteError_MasksInternalMessage(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, &usecase.PersistenceFault{Op: "bet.insert", Err: errors.New("dial tcp 10.0.0.4:5432: refused")})

	body := decodeEnvelope(t, rec)
	errObj, _ := body["error"].(map[string]any)
	if got, _ := errObj["message"].(string); got != internalErrorMessage {
		t.Fatalf("unexpected message: got=%q want=%q", got, internalErrorMessage)
	}
}
