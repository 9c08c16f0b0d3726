package bet

import "context"

type Repository interface {
	GetByUserAndFixture(ctx context.Context, userID, fixtureID string) (Bet, bool, error)
	// Create returns ErrDuplicate when the user already has a bet on the fixture.
	Create(ctx context.Context, item Bet) error
	// MarkEvaluated moves a pending bet to evaluated and adds its points to the user's
	// competition score in one step. applied is false when the bet was already evaluated.
	MarkEvaluated(ctx context.Context, evaluation Evaluation) (applied bool, err error)
}
