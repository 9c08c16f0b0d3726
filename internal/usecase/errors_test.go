package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/riskibarqy/fanbet/internal/domain/group"
)

func TestFaultKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("wrap: %w", &DataProviderError{Endpoint: "/fixtures", StatusCode: 500}), FaultDataProvider},
		{&DataAvailabilityFault{FixtureExternalID: 1, Reason: "no events"}, FaultDataAvailability},
		{&UnknownStatusCodeError{Code: "XX"}, FaultUnknownStatus},
		{persistenceFault("save", errors.New("disk full")), FaultPersistence},
		{persistenceFault("get group", &group.InvalidGroupError{GroupID: "grp-1", Err: group.ErrDuplicateSeason}), FaultInvalidGroup},
		{fmt.Errorf("fetch: %w", context.DeadlineExceeded), FaultCanceled},
		{errors.New("boom"), FaultOther},
	}
	for _, tc := range cases {
		if got := FaultKind(tc.err); got != tc.want {
			t.Fatalf("unexpected fault kind for %v: got=%q want=%q", tc.err, got, tc.want)
		}
	}
}

func TestDataProviderError_IsDependencyUnavailable(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("fetch standings: %w", &DataProviderError{Endpoint: "/standings", StatusCode: 503})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected provider error to match ErrDependencyUnavailable")
	}
}
