package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/fanbet/internal/domain/group"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrConflict              = errors.New("conflict")
	ErrCycleInProgress       = errors.New("cycle already in progress")
)

// DataProviderError is a failed or error-bearing response from the sports-data source.
type DataProviderError struct {
	Endpoint   string
	StatusCode int
	Payload    string
}

func (e *DataProviderError) Error() string {
	return fmt.Sprintf("sports data provider error endpoint=%s status=%d payload=%s", e.Endpoint, e.StatusCode, e.Payload)
}

// Unwrap lets callers match the whole family with errors.Is(err, ErrDependencyUnavailable).
func (e *DataProviderError) Unwrap() error {
	return ErrDependencyUnavailable
}

// DataAvailabilityFault means the provider answered successfully but without the data
// needed to treat a fixture as safely finished.
type DataAvailabilityFault struct {
	FixtureExternalID int64
	Reason            string
}

func (e *DataAvailabilityFault) Error() string {
	return fmt.Sprintf("fixture %d data unavailable: %s", e.FixtureExternalID, e.Reason)
}

type UnknownStatusCodeError struct {
	Code              string
	FixtureExternalID int64
}

func (e *UnknownStatusCodeError) Error() string {
	return fmt.Sprintf("unknown fixture status code %q for fixture %d", e.Code, e.FixtureExternalID)
}

type PersistenceFault struct {
	Op  string
	Err error
}

func (e *PersistenceFault) Error() string {
	return fmt.Sprintf("persistence fault op=%s: %v", e.Op, e.Err)
}

func (e *PersistenceFault) Unwrap() error {
	return e.Err
}

func persistenceFault(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceFault{Op: op, Err: err}
}

const (
	FaultDataProvider     = "data_provider"
	FaultDataAvailability = "data_availability"
	FaultUnknownStatus    = "unknown_status"
	FaultPersistence      = "persistence"
	FaultCanceled         = "canceled"
	FaultInvalidGroup     = "invalid_group"
	FaultOther            = "other"
)

// FaultKind classifies err for logs and run records.
func FaultKind(err error) string {
	if err == nil {
		return ""
	}

	var (
		providerErr     *DataProviderError
		availabilityErr *DataAvailabilityFault
		statusErr       *UnknownStatusCodeError
		persistenceErr  *PersistenceFault
		groupErr        *group.InvalidGroupError
	)
	switch {
	case errors.As(err, &groupErr):
		return FaultInvalidGroup
	case errors.As(err, &statusErr):
		return FaultUnknownStatus
	case errors.As(err, &availabilityErr):
		return FaultDataAvailability
	case errors.As(err, &providerErr):
		return FaultDataProvider
	case errors.As(err, &persistenceErr):
		return FaultPersistence
	case errors.Is(err, ErrDependencyUnavailable):
		return FaultDataProvider
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return FaultCanceled
	default:
		return FaultOther
	}
}
