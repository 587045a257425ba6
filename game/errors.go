package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter reports a continuation or mistake probability
	// outside its admissible range. It is returned before any work starts.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidAction reports a move outside the match characterset.
	ErrInvalidAction = errors.New("action outside characterset")

	// ErrHistoryLength reports that the two players' histories disagree in
	// length, which can only happen through a protocol violation.
	ErrHistoryLength = errors.New("history length mismatch")
)

// ValidateProbabilities checks the parameters shared by both engines. The
// continuation probability must stay below 1 for the payoff series to
// converge.
func ValidateProbabilities(delta, mu float64) error {
	if delta < 0 || delta >= 1 {
		return fmt.Errorf("%w: continuation probability %v outside [0, 1)", ErrInvalidParameter, delta)
	}
	if mu < 0 || mu >= 1 {
		return fmt.Errorf("%w: mistake probability %v outside [0, 1)", ErrInvalidParameter, mu)
	}
	return nil
}
