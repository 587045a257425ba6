package game

import (
	"fmt"
	"math"
)

// PayoffPair holds one round's payoff for both players.
type PayoffPair struct {
	A float64
	B float64
}

// PayoffMatrix maps each pair of simultaneously played moves to a payoff
// pair. Field names read from player A's perspective: CD is the payoff pair
// when A cooperates and B defects.
type PayoffMatrix struct {
	Charset Charset
	CC      PayoffPair
	CD      PayoffPair
	DC      PayoffPair
	DD      PayoffPair
}

// NewPrisonersDilemma builds the standard prisoner's dilemma matrix from the
// temptation/reward/punishment/sucker parameterization.
func NewPrisonersDilemma(cs Charset, t, r, p, s float64) PayoffMatrix {
	return PayoffMatrix{
		Charset: cs,
		CC:      PayoffPair{A: r, B: r},
		CD:      PayoffPair{A: s, B: t},
		DC:      PayoffPair{A: t, B: s},
		DD:      PayoffPair{A: p, B: p},
	}
}

// Payoff looks up both players' payoffs when A plays a and B plays b.
func (m PayoffMatrix) Payoff(a, b Move) (float64, float64, error) {
	cs := m.Charset
	switch {
	case a == cs.Cooperate && b == cs.Cooperate:
		return m.CC.A, m.CC.B, nil
	case a == cs.Cooperate && b == cs.Defect:
		return m.CD.A, m.CD.B, nil
	case a == cs.Defect && b == cs.Cooperate:
		return m.DC.A, m.DC.B, nil
	case a == cs.Defect && b == cs.Defect:
		return m.DD.A, m.DD.B, nil
	}
	return 0, 0, fmt.Errorf("%w: payoff lookup for %q vs %q", ErrInvalidAction, a, b)
}

// Max returns the largest payoff magnitude in the matrix. The series engine
// uses it as the uniform bound when deciding whether a pruned subtree could
// still contribute more than epsilon.
func (m PayoffMatrix) Max() float64 {
	var max float64
	for _, p := range [4]PayoffPair{m.CC, m.CD, m.DC, m.DD} {
		max = math.Max(max, math.Max(math.Abs(p.A), math.Abs(p.B)))
	}
	return max
}
