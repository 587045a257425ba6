// Package engine plays single matches of the repeated game.
package engine

import (
	"fmt"

	"golang.org/x/exp/rand"

	"dilemma/game"
)

// PlayMatch plays one match between a and b to geometric termination and
// returns both players' accumulated raw payoffs, not yet normalized by
// (1-delta).
//
// Each round both policies propose a move from the opponent's current
// history, each proposal independently flips with probability mu, the payoff
// matrix is applied to the (possibly flipped) pair, and both histories extend
// with the moves actually played. A continuation draw below delta keeps the
// match going, so delta=0 plays exactly one round.
func PlayMatch(a, b game.Policy, matrix game.PayoffMatrix, delta, mu float64, rng *rand.Rand) (float64, float64, error) {
	if err := game.ValidateProbabilities(delta, mu); err != nil {
		return 0, 0, err
	}

	var histA, histB game.History
	var totalA, totalB float64
	for {
		moveA, err := a.Decide(histA, histB)
		if err != nil {
			return 0, 0, fmt.Errorf("player A, round %d: %w", len(histA), err)
		}
		moveB, err := b.Decide(histB, histA)
		if err != nil {
			return 0, 0, fmt.Errorf("player B, round %d: %w", len(histB), err)
		}

		if rng.Float64() < mu {
			moveA = a.Charset().Flip(moveA)
		}
		if rng.Float64() < mu {
			moveB = b.Charset().Flip(moveB)
		}

		payA, payB, err := matrix.Payoff(moveA, moveB)
		if err != nil {
			return 0, 0, fmt.Errorf("round %d: %w", len(histA), err)
		}
		totalA += payA
		totalB += payB

		histA = histA.Extend(moveA)
		histB = histB.Extend(moveB)

		if rng.Float64() >= delta {
			return totalA, totalB, nil
		}
	}
}
