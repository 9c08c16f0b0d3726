package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fanbet/internal/usecase"
)

const (
	apiVersion  = "2.0"
	errorDomain = "fanbet"

	internalErrorMessage = "internal server error"
)

// envelope follows the Google JSON style guide: exactly one of data or error is set.
type envelope struct {
	APIVersion string     `json:"apiVersion"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Status  string      `json:"status"`
	Errors  []errorItem `json:"errors,omitempty"`
}

type errorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type errorClass struct {
	httpStatus int
	reason     string
	status     string
}

var internalClass = errorClass{http.StatusInternalServerError, "internalError", "INTERNAL"}

// errorClasses is ordered: the first sentinel matched by errors.Is wins.
var errorClasses = []struct {
	target error
	class  errorClass
}{
	{usecase.ErrInvalidInput, errorClass{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
	{usecase.ErrNotFound, errorClass{http.StatusNotFound, "notFound", "NOT_FOUND"}},
	{usecase.ErrUnauthorized, errorClass{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"}},
	{usecase.ErrCycleInProgress, errorClass{http.StatusConflict, "cycleInProgress", "ABORTED"}},
	{usecase.ErrConflict, errorClass{http.StatusConflict, "conflict", "ALREADY_EXISTS"}},
	{usecase.ErrDependencyUnavailable, errorClass{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
}

func classifyError(err error) errorClass {
	for _, candidate := range errorClasses {
		if errors.Is(err, candidate.target) {
			return candidate.class
		}
	}
	return internalClass
}

func writeJSON(_ context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, envelope{APIVersion: apiVersion, Data: data})
}

// writeError never leaks the text of unclassified errors; those are logged by the caller.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	class := classifyError(err)
	message := internalErrorMessage
	if class != internalClass {
		message = err.Error()
	}
	writeErrorBody(ctx, w, class, message)
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeErrorBody(ctx, w, internalClass, internalErrorMessage)
}

func writeErrorBody(ctx context.Context, w http.ResponseWriter, class errorClass, message string) {
	writeJSON(ctx, w, class.httpStatus, envelope{
		APIVersion: apiVersion,
		Error: &errorBody{
			Code:    class.httpStatus,
			Message: message,
			Status:  class.status,
			Errors:  []errorItem{{Domain: errorDomain, Reason: class.reason, Message: message}},
		},
	})
}
