package fixture

type EventType string

const (
	EventGoal         EventType = "GOAL"
	EventCard         EventType = "CARD"
	EventSubstitution EventType = "SUBSTITUTION"
	EventVAR          EventType = "VAR"
)

type EventDetail string

const (
	DetailNormalGoal    EventDetail = "NORMAL_GOAL"
	DetailPenalty       EventDetail = "PENALTY"
	DetailOwnGoal       EventDetail = "OWN_GOAL"
	DetailMissedPenalty EventDetail = "MISSED_PENALTY"
	DetailYellowCard    EventDetail = "YELLOW_CARD"
	DetailSecondYellow  EventDetail = "SECOND_YELLOW_CARD"
	DetailRedCard       EventDetail = "RED_CARD"
	DetailSubstitution  EventDetail = "SUBSTITUTION"
	DetailGoalCancelled EventDetail = "GOAL_CANCELLED"
	DetailPenaltyReview EventDetail = "PENALTY_REVIEW"
	DetailOther         EventDetail = "OTHER"
)

// Event is one timeline entry. TeamID is the team credited by the provider.
type Event struct {
	Type        EventType
	Detail      EventDetail
	PlayerID    int64
	PlayerName  string
	AssistID    int64
	TeamID      int64
	Minute      int
	ExtraMinute int
}

// CountsForScorer reports whether the event credits PlayerID with a scored goal.
// Own goals and missed penalties never count.
func (e Event) CountsForScorer() bool {
	if e.Type != EventGoal {
		return false
	}
	switch e.Detail {
	case DetailNormalGoal, DetailPenalty:
		return true
	default:
		return false
	}
}
