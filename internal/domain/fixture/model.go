package fixture

import (
	"fmt"
	"time"
)

// Status is the closed set of fixture states the tracker understands.
type Status string

const (
	StatusNotStarted             Status = "NOT_STARTED"
	StatusInProgress             Status = "IN_PROGRESS"
	StatusFinished               Status = "FINISHED"
	StatusFinishedAfterExtraTime Status = "FINISHED_AET"
	StatusFinishedAfterPenalties Status = "FINISHED_PEN"
	StatusAwarded                Status = "AWARDED"
	StatusPostponed              Status = "POSTPONED"
	StatusCancelled              Status = "CANCELLED"
	StatusAbandoned              Status = "ABANDONED"
)

// Phase is the coarse lifecycle position used by the orchestrator.
type Phase int

const (
	PhaseNotStarted Phase = iota + 1
	PhaseInProgress
	PhaseFinished
	PhasePostponedOrCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseInProgress:
		return "in_progress"
	case PhaseFinished:
		return "finished"
	case PhasePostponedOrCancelled:
		return "postponed_or_cancelled"
	default:
		return "unknown"
	}
}

// Phase classifies s. Values outside the closed set are an error, never a default.
func (s Status) Phase() (Phase, error) {
	switch s {
	case StatusNotStarted:
		return PhaseNotStarted, nil
	case StatusInProgress:
		return PhaseInProgress, nil
	case StatusFinished, StatusFinishedAfterExtraTime, StatusFinishedAfterPenalties, StatusAwarded:
		return PhaseFinished, nil
	case StatusPostponed, StatusCancelled, StatusAbandoned:
		return PhasePostponedOrCancelled, nil
	default:
		return 0, fmt.Errorf("fixture status %q is not recognised", string(s))
	}
}

// Valid reports whether s belongs to the closed status set.
func (s Status) Valid() bool {
	_, err := s.Phase()
	return err == nil
}

func (s Status) IsFinished() bool {
	p, err := s.Phase()
	return err == nil && p == PhaseFinished
}

func (s Status) IsPostponedOrCancelled() bool {
	p, err := s.Phase()
	return err == nil && p == PhasePostponedOrCancelled
}

// CanTransition reports whether a stored status may move to next within one polling cycle.
// Phases only move forward, except a postponed fixture may return to not-started when rescheduled.
func CanTransition(from, next Status) bool {
	fromPhase, err := from.Phase()
	if err != nil {
		return true
	}
	nextPhase, err := next.Phase()
	if err != nil {
		return false
	}

	switch fromPhase {
	case PhaseNotStarted:
		return true
	case PhaseInProgress:
		return nextPhase != PhaseNotStarted
	case PhaseFinished:
		return nextPhase == PhaseFinished
	case PhasePostponedOrCancelled:
		return nextPhase == PhasePostponedOrCancelled || nextPhase == PhaseNotStarted
	default:
		return false
	}
}

// TeamScore is one side of a fixture. Score is nil until the provider reports it.
type TeamScore struct {
	TeamID int64
	Name   string
	Logo   string
	Score  *int
}

// Fixture represents one scheduled match. ExternalID is the provider id and never changes;
// a fixture referenced by several groups is stored once.
type Fixture struct {
	ID            string
	ExternalID    int64
	Date          time.Time
	Venue         string
	Home          TeamScore
	Away          TeamScore
	Status        Status
	CompetitionID int64
	Season        int
	Events        []Event
	UpdatedAt     time.Time
}

// FinalScore returns both scores once they are known.
func (f Fixture) FinalScore() (home, away int, ok bool) {
	if f.Home.Score == nil || f.Away.Score == nil {
		return 0, 0, false
	}
	return *f.Home.Score, *f.Away.Score, true
}

// ApplyProviderState copies the mutable fields from a fresh provider record.
// Identity and competition tags are kept from f.
func (f Fixture) ApplyProviderState(latest Fixture) Fixture {
	f.Status = latest.Status
	f.Date = latest.Date
	if latest.Venue != "" {
		f.Venue = latest.Venue
	}
	f.Home.Score = latest.Home.Score
	f.Away.Score = latest.Away.Score
	if f.Home.Name == "" {
		f.Home.Name = latest.Home.Name
	}
	if f.Away.Name == "" {
		f.Away.Name = latest.Away.Name
	}
	return f
}
