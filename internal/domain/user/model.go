package user

import "time"

type User struct {
	ID        string
	GroupID   string
	Name      string
	CreatedAt time.Time
}

// CompetitionScore is a user's running total for one competition season.
type CompetitionScore struct {
	UserID        string
	CompetitionID int64
	Season        int
	Points        int
	UpdatedAt     time.Time
}
