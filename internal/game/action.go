package game

import "fmt"

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
	AllIn
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "raise", "all-in"}[a]
}

// ParseAction converts a wire-format action name into an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "raise":
		return Raise, nil
	case "all-in", "allin":
		return AllIn, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}
