package apifootball

import (
	"strings"

	"github.com/riskibarqy/fanbet/internal/domain/fixture"
	"github.com/riskibarqy/fanbet/internal/usecase"
)

// statusByShortCode covers every short code documented for /fixtures.
var statusByShortCode = map[string]fixture.Status{
	"TBD":  fixture.StatusNotStarted,
	"NS":   fixture.StatusNotStarted,
	"1H":   fixture.StatusInProgress,
	"HT":   fixture.StatusInProgress,
	"2H":   fixture.StatusInProgress,
	"ET":   fixture.StatusInProgress,
	"BT":   fixture.StatusInProgress,
	"P":    fixture.StatusInProgress,
	"SUSP": fixture.StatusInProgress,
	"INT":  fixture.StatusInProgress,
	"LIVE": fixture.StatusInProgress,
	"FT":   fixture.StatusFinished,
	"AET":  fixture.StatusFinishedAfterExtraTime,
	"PEN":  fixture.StatusFinishedAfterPenalties,
	"AWD":  fixture.StatusAwarded,
	"WO":   fixture.StatusAwarded,
	"PST":  fixture.StatusPostponed,
	"CANC": fixture.StatusCancelled,
	"ABD":  fixture.StatusAbandoned,
}

func mapStatus(shortCode string, fixtureExternalID int64) (fixture.Status, error) {
	code := strings.ToUpper(strings.TrimSpace(shortCode))
	status, ok := statusByShortCode[code]
	if !ok {
		return "", &usecase.UnknownStatusCodeError{Code: shortCode, FixtureExternalID: fixtureExternalID}
	}
	return status, nil
}

var eventTypeByName = map[string]fixture.EventType{
	"goal":  fixture.EventGoal,
	"card":  fixture.EventCard,
	"subst": fixture.EventSubstitution,
	"var":   fixture.EventVAR,
}

func mapEventType(name string) (fixture.EventType, bool) {
	eventType, ok := eventTypeByName[strings.ToLower(strings.TrimSpace(name))]
	return eventType, ok
}

var eventDetailByName = map[string]fixture.EventDetail{
	"normal goal":        fixture.DetailNormalGoal,
	"penalty":            fixture.DetailPenalty,
	"own goal":           fixture.DetailOwnGoal,
	"missed penalty":     fixture.DetailMissedPenalty,
	"yellow card":        fixture.DetailYellowCard,
	"second yellow card": fixture.DetailSecondYellow,
	"red card":           fixture.DetailRedCard,
	"goal cancelled":     fixture.DetailGoalCancelled,
	"goal disallowed":    fixture.DetailGoalCancelled,
	"penalty confirmed":  fixture.DetailPenaltyReview,
	"penalty cancelled":  fixture.DetailPenaltyReview,
}

// mapEventDetail never guesses a goal kind: anything unlisted becomes DetailOther,
// which does not count for the scorer bonus.
func mapEventDetail(eventType fixture.EventType, detail string) fixture.EventDetail {
	key := strings.ToLower(strings.TrimSpace(detail))
	if eventType == fixture.EventSubstitution || strings.HasPrefix(key, "substitution") {
		return fixture.DetailSubstitution
	}
	if mapped, ok := eventDetailByName[key]; ok {
		return mapped
	}
	return fixture.DetailOther
}
