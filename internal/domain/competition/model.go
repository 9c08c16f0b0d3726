package competition

import "time"

type Player struct {
	ExternalID  int64
	Name        string
	TeamID      int64
	Position    string
	Nationality string
	Age         int
	Photo       string
	Appearances int
	Goals       int
	Assists     int
}

type StandingRow struct {
	Rank         int
	TeamID       int64
	TeamName     string
	TeamLogo     string
	Points       int
	GoalsDiff    int
	Played       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
	Form         string
	Group        string
}

// Competition is a league or cup snapshot for one season. Roster and standings are
// overwritten on every refresh.
type Competition struct {
	ExternalID  int64
	Season      int
	Name        string
	Logo        string
	Roster      []Player
	Standings   []StandingRow
	RefreshedAt time.Time
}
