package bet

import "github.com/riskibarqy/fanbet/internal/domain/fixture"

const (
	PointsExactScore   = 3
	PointsOutcomeMatch = 1
	PointsScorerBonus  = 1
	DerbyMultiplier    = 2
)

type Outcome int

const (
	OutcomeAwayWin Outcome = -1
	OutcomeDraw    Outcome = 0
	OutcomeHomeWin Outcome = 1
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHomeWin:
		return "home_win"
	case OutcomeAwayWin:
		return "away_win"
	default:
		return "draw"
	}
}

// OutcomeOf is sign(home - away).
func OutcomeOf(home, away int) Outcome {
	switch {
	case home > away:
		return OutcomeHomeWin
	case home < away:
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}

// Result is the settled scoreline plus the timeline used for the scorer bonus.
type Result struct {
	Home   int
	Away   int
	Events []fixture.Event
}

type Breakdown struct {
	ScorePoints  int
	ScorerBonus  bool
	Derby        bool
	DerbyApplied bool
	Total        int
}

// ScorePoints returns 3 for an exact scoreline, 1 for a matching outcome and 0 otherwise.
func ScorePoints(predictedHome, predictedAway, actualHome, actualAway int) int {
	if predictedHome == actualHome && predictedAway == actualAway {
		return PointsExactScore
	}
	if OutcomeOf(predictedHome, predictedAway) == OutcomeOf(actualHome, actualAway) {
		return PointsOutcomeMatch
	}
	return 0
}

// ScoredBy reports whether playerID has a normal or penalty goal in events.
func ScoredBy(events []fixture.Event, playerID int64) bool {
	for _, event := range events {
		if event.PlayerID == playerID && event.CountsForScorer() {
			return true
		}
	}
	return false
}

// Score computes the points for item against result. A derby doubles a positive total.
func Score(item Bet, result Result, derby bool) Breakdown {
	out := Breakdown{
		ScorePoints: ScorePoints(item.PredictedHome, item.PredictedAway, result.Home, result.Away),
		Derby:       derby,
	}
	out.Total = out.ScorePoints

	if item.PredictedScorerID != nil && ScoredBy(result.Events, *item.PredictedScorerID) {
		out.ScorerBonus = true
		out.Total += PointsScorerBonus
	}

	if derby && out.Total > 0 {
		out.DerbyApplied = true
		out.Total *= DerbyMultiplier
	}
	return out
}
