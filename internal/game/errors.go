package game

import "errors"

// Engine errors. Every rejected operation leaves the table state exactly as
// it was; callers surface the error to the acting participant and carry on.
var (
	// ErrIllegalAction covers wrong-turn submissions, checking into a bet,
	// raising at or below the table bet, and acting in a dead hand.
	ErrIllegalAction = errors.New("illegal action")

	// ErrInvalidSeat covers joining a full table, joining twice, and leaving
	// while not seated.
	ErrInvalidSeat = errors.New("invalid seat")

	// ErrInvalidPhase covers operations not legal in the current phase, such
	// as starting the next hand outside showdown.
	ErrInvalidPhase = errors.New("invalid phase")
)
